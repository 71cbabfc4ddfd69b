package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goliatone/go-dxu/internal/cli/prompt"
	"github.com/goliatone/go-dxu/pkg/layout"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefinitionFile is the entry point written by init.
const DefinitionFile = "dxu.yml"

// newPromptDriver is replaced in tests.
var newPromptDriver = func(yes bool) prompt.Driver {
	if yes {
		return prompt.Defaults()
	}
	return prompt.Survey()
}

var nonKeyword = regexp.MustCompile(`[^A-Z0-9_]+`)

type initOptions struct {
	name  string
	table string
	yes   bool
	force bool
}

type initAnswers struct {
	Name        string
	Version     string
	Description string
	Author      string
	Table       string
	KeyColumn   string
	KeyDatatype layout.Datatype
}

type skeletonDocument struct {
	Name        string            `yaml:"name"`
	Version     string            `yaml:"version"`
	Description string            `yaml:"description"`
	Creators    []skeletonCreator `yaml:"creators,omitempty"`
	Extensions  []*yaml.Node      `yaml:"extensions"`
}

type skeletonCreator struct {
	FirstName string `yaml:"first-name"`
	LastName  string `yaml:"last-name"`
}

type skeletonExtension struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Header      []skeletonCard   `yaml:"header,omitempty"`
	Columns     []skeletonColumn `yaml:"columns,omitempty"`
}

type skeletonCard struct {
	Name        string `yaml:"name"`
	Value       any    `yaml:"value,omitempty"`
	Description string `yaml:"description,omitempty"`
	Datatype    string `yaml:"datatype,omitempty"`
	Unit        string `yaml:"unit,omitempty"`
}

type skeletonColumn struct {
	Name        string `yaml:"name"`
	Datatype    string `yaml:"datatype"`
	MaxLength   int    `yaml:"maxlength,omitempty"`
	Unit        string `yaml:"unit,omitempty"`
	UCD         string `yaml:"ucd,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new definition skeleton",
		Long: `Create a definition skeleton: dxu.yml including a primary header fragment
and one table extension under tables/.

Questions are asked interactively; --yes accepts every default.
The generated definition is validated before the command returns.`,
		Example: `  # Interactive, in the current directory
  dxu init

  # Non-interactive
  dxu init survey --yes --name qxp --table QXP_Z`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Definition name (default: directory name)")
	cmd.Flags().StringVar(&opts.table, "table", "", "Name of the table extension")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Accept all defaults without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts initOptions) error {
	ctx := cmd.Context()
	s := newSession(cmd)
	out := cmd.OutOrStdout()
	driver := newPromptDriver(opts.yes)

	entry := filepath.Join(dir, DefinitionFile)
	if _, err := os.Stat(entry); err == nil && !opts.force {
		overwrite, err := driver.Confirm(ctx, prompt.ConfirmConfig{
			Message: fmt.Sprintf("%s already exists. Overwrite?", entry),
		})
		if err != nil {
			return err
		}
		if !overwrite {
			return fmt.Errorf("%s already exists (use --force to overwrite)", entry)
		}
	}

	answers, err := askInit(ctx, driver, dir, opts)
	if err != nil {
		return err
	}

	tableFile := filepath.ToSlash(filepath.Join("tables", strings.ToLower(answers.Table)+".yml"))
	files, err := renderSkeleton(answers, tableFile)
	if err != nil {
		return err
	}
	for _, name := range []string{DefinitionFile, "primary.yml", tableFile} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, files[name], 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "created %s\n", path)
	}

	if _, err := s.load(ctx, entry, true); err != nil {
		return fmt.Errorf("generated definition is invalid: %w", err)
	}
	fmt.Fprintf(out, "\nDefinition %q is valid. Next: dxu template %s\n", answers.Name, entry)
	return nil
}

func askInit(ctx context.Context, driver prompt.Driver, dir string, opts initOptions) (initAnswers, error) {
	var (
		answers initAnswers
		err     error
	)
	defaultName := opts.name
	if defaultName == "" {
		if abs, absErr := filepath.Abs(dir); absErr == nil {
			defaultName = strings.ToLower(filepath.Base(abs))
		}
	}

	if answers.Name, err = driver.Input(ctx, prompt.InputConfig{
		Message:   "Definition name",
		Default:   defaultName,
		Validator: required,
	}); err != nil {
		return answers, err
	}
	if answers.Version, err = driver.Input(ctx, prompt.InputConfig{
		Message:   "Version",
		Default:   "1.0",
		Validator: required,
	}); err != nil {
		return answers, err
	}
	if answers.Description, err = driver.Input(ctx, prompt.InputConfig{
		Message:   "Description",
		Default:   answers.Name + " data exchange unit",
		Validator: required,
	}); err != nil {
		return answers, err
	}
	if answers.Author, err = driver.Input(ctx, prompt.InputConfig{
		Message: "Author (first and last name, optional)",
	}); err != nil {
		return answers, err
	}

	defaultTable := opts.table
	if defaultTable == "" {
		defaultTable = keywordName(answers.Name) + "_CAT"
	}
	if answers.Table, err = driver.Input(ctx, prompt.InputConfig{
		Message:   "Table extension name",
		Default:   defaultTable,
		Validator: required,
	}); err != nil {
		return answers, err
	}
	if answers.KeyColumn, err = driver.Input(ctx, prompt.InputConfig{
		Message:   "Identifier column",
		Default:   "OBJ_ID",
		Validator: required,
	}); err != nil {
		return answers, err
	}

	options := make([]string, len(layout.Datatypes))
	defaultIdx := 0
	for i, dt := range layout.Datatypes {
		options[i] = string(dt)
		if dt == layout.Int64 {
			defaultIdx = i
		}
	}
	idx, err := driver.Select(ctx, prompt.SelectConfig{
		Message:      "Identifier datatype",
		Options:      options,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return answers, err
	}
	if idx < 0 || idx >= len(options) {
		return answers, errors.New("no datatype selected")
	}
	answers.KeyDatatype = layout.Datatypes[idx]
	return answers, nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

// keywordName upper-cases s and replaces anything a FITS name cannot hold.
func keywordName(s string) string {
	name := strings.Trim(nonKeyword.ReplaceAllString(strings.ToUpper(s), "_"), "_")
	if name == "" {
		return "DXU"
	}
	return name
}

// renderSkeleton returns the file contents keyed by slash-separated path.
func renderSkeleton(a initAnswers, tableFile string) (map[string][]byte, error) {
	doc := skeletonDocument{
		Name:        a.Name,
		Version:     a.Version,
		Description: a.Description,
		Extensions: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!include", Value: "primary.yml"},
			{Kind: yaml.ScalarNode, Tag: "!include", Value: tableFile},
		},
	}
	if first, last, ok := strings.Cut(strings.TrimSpace(a.Author), " "); ok {
		doc.Creators = []skeletonCreator{{FirstName: first, LastName: strings.TrimSpace(last)}}
	}

	primary := skeletonExtension{
		Name:        "PRIMARY",
		Description: "Primary header of the " + a.Name + " delivery",
		Header: []skeletonCard{
			{Name: "ORIGIN", Value: keywordName(a.Name), Description: "Organisation responsible for the data"},
			{Name: "DATE", Description: "Date the file was written", Datatype: string(layout.String)},
			{Name: "EXPTIME", Description: "Total integration time", Datatype: string(layout.Double), Unit: "s"},
		},
	}

	key := skeletonColumn{
		Name:        a.KeyColumn,
		Datatype:    string(a.KeyDatatype),
		UCD:         "meta.id;meta.main",
		Description: "Unique object identifier",
	}
	if a.KeyDatatype == layout.String {
		key.MaxLength = 32
	}
	table := skeletonExtension{
		Name:        a.Table,
		Description: "Main catalogue of the " + a.Name + " delivery",
		Columns: []skeletonColumn{
			key,
			{Name: "RA", Datatype: string(layout.Double), Unit: "deg", UCD: "pos.eq.ra;meta.main", Description: "Right ascension (ICRS)"},
			{Name: "DEC", Datatype: string(layout.Double), Unit: "deg", UCD: "pos.eq.dec;meta.main", Description: "Declination (ICRS)"},
		},
	}

	files := make(map[string][]byte, 3)
	for name, value := range map[string]any{DefinitionFile: doc, "primary.yml": primary, tableFile: table} {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", name, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", name, err)
		}
		files[name] = buf.Bytes()
	}
	return files, nil
}
