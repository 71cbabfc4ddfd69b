package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goliatone/go-dxu"
	"github.com/goliatone/go-dxu/pkg/schema"
	"github.com/goliatone/go-dxu/pkg/validation"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrInvalidFiles is returned when at least one file failed validation.
var ErrInvalidFiles = errors.New("validation failed")

// watchDebounce groups bursts of editor writes into one run.
var watchDebounce = 150 * time.Millisecond

// fileReport is the machine readable outcome for one file.
type fileReport struct {
	Path   string             `json:"path" yaml:"path"`
	Valid  bool               `json:"valid" yaml:"valid"`
	Issues []validation.Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate definition files against the meta-schema",
		Long: `Validate one or more definition files.

Includes are resolved, the merged document is checked against the meta-schema
(including unit and UCD formats) and each file is reported independently.
The command fails when any file is invalid.

With --watch the directories of the inputs are watched recursively, and every
directory an include was read from is added after each run, so fragments
shared from sibling directories trigger a re-run too.`,
		Example: `  # Validate a definition
  dxu validate dxu.yml

  # Validate several files and report as JSON
  dxu validate defs/*.yml --output json

  # Re-validate whenever a YAML file changes
  dxu validate dxu.yml --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate when the inputs or their includes change")

	return cmd
}

func runValidate(cmd *cobra.Command, paths []string, watch bool) error {
	ctx := cmd.Context()
	s := newSession(cmd)

	v, err := s.validator(ctx)
	if err != nil {
		return err
	}
	dirs := &sourceDirs{}
	options := append(s.loadOptions(), dxu.WithLoadObserver(dirs.record))
	run := func() error {
		results := dxu.ValidateFiles(ctx, v, paths, options...)
		if err := writeResults(cmd.OutOrStdout(), s.cfg.OutputFormat, results); err != nil {
			return err
		}
		return resultsError(results)
	}

	if !watch {
		return run()
	}
	if err := run(); err != nil && !errors.Is(err, ErrInvalidFiles) {
		return err
	}
	return watchFiles(ctx, s.logger, paths, dirs.list, func() {
		if err := run(); err != nil && !errors.Is(err, ErrInvalidFiles) {
			s.logger.Error().Err(err).Msg("validation run failed")
		}
	})
}

// sourceDirs collects the directories of every file source a run reads.
type sourceDirs struct {
	mu   sync.Mutex
	dirs map[string]struct{}
}

func (d *sourceDirs) record(src schema.Source) {
	if src.Kind() != schema.SourceKindFile {
		return
	}
	dir := schema.Dir(src)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dirs == nil {
		d.dirs = make(map[string]struct{})
	}
	d.dirs[dir] = struct{}{}
}

func (d *sourceDirs) list() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.dirs))
	for dir := range d.dirs {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

func resultsError(results []dxu.FileResult) error {
	failed := 0
	for _, result := range results {
		if !result.OK() {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d files", ErrInvalidFiles, failed, len(results))
}

func writeResults(w io.Writer, format string, results []dxu.FileResult) error {
	reports := make([]fileReport, 0, len(results))
	for _, result := range results {
		report := validation.Report(result.Err)
		reports = append(reports, fileReport{Path: result.Path, Valid: report.Valid, Issues: report.Issues})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case "markdown":
		t := table.NewWriter()
		t.AppendHeader(table.Row{"File", "Valid", "Field", "Message"})
		for _, report := range reports {
			if report.Valid {
				t.AppendRow(table.Row{report.Path, "yes", "", ""})
				continue
			}
			for _, issue := range report.Issues {
				t.AppendRow(table.Row{report.Path, "no", issue.Field, issue.Message})
			}
		}
		_, err := io.WriteString(w, t.RenderMarkdown()+"\n")
		return err
	}

	for _, report := range reports {
		if err := writeReportText(w, report); err != nil {
			return err
		}
	}
	return nil
}

func writeReportText(w io.Writer, report fileReport) error {
	if report.Valid {
		_, err := fmt.Fprintf(w, "processing %s... ok\n", report.Path)
		return err
	}
	if _, err := fmt.Fprintf(w, "processing %s... failed\n", report.Path); err != nil {
		return err
	}
	for _, issue := range report.Issues {
		line := "  " + issue.Message
		if issue.Field != "" {
			line = "  " + issue.Field + ": " + issue.Message
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// watchFiles calls run after YAML files in the input directories change,
// until ctx is done. Included fragments usually live below the including
// file, so input directories are watched recursively. Directories reported by
// included are added non-recursively after each run.
func watchFiles(ctx context.Context, logger zerolog.Logger, paths []string, included func() []string, run func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range watchRoots(paths) {
		if err := watchDir(watcher, dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	watchIncluded(watcher, logger, included)
	logger.Info().Strs("files", paths).Msg("watching for changes")

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isYAML(event.Name) {
				continue
			}
			logger.Debug().Str("file", event.Name).Msg("change detected")
			debounce.Reset(watchDebounce)
			fire = debounce.C
		case <-fire:
			fire = nil
			run()
			watchIncluded(watcher, logger, included)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// watchIncluded adds the directories included documents were read from.
// Adding a watched directory again is a no-op; a directory that no longer
// exists is skipped until a later run reads from it again.
func watchIncluded(watcher *fsnotify.Watcher, logger zerolog.Logger, included func() []string) {
	if included == nil {
		return
	}
	for _, dir := range included() {
		if err := watcher.Add(dir); err != nil {
			logger.Debug().Err(err).Str("dir", dir).Msg("cannot watch include directory")
		}
	}
}

func watchRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var roots []string
	for _, path := range paths {
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	return roots
}

// watchDir recursively adds a directory to the watcher.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && len(info.Name()) > 0 && info.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func isYAML(name string) bool {
	switch filepath.Ext(name) {
	case ".yml", ".yaml":
		return true
	}
	return false
}
