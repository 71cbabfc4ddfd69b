package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-dxu"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewTemplateCommand creates the template command.
func NewTemplateCommand() *cobra.Command {
	var skipValidation bool

	cmd := &cobra.Command{
		Use:   "template <file>",
		Short: "Print the zero-row header template of a definition",
		Long: `Compile a definition into its header template: the primary header
followed by one binary table header per extension, with the column
keywords (TTYPE, TFORM, TDIM, TZERO, TUNIT, TUCD, ...) in emission order.

The definition is validated first unless --skip-validation is given.`,
		Example: `  # Print header cards
  dxu template dxu.yml

  # Emit the template as JSON for a writer
  dxu template dxu.yml --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(cmd, args[0], skipValidation)
		},
	}

	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Compile without checking the meta-schema")

	return cmd
}

func runTemplate(cmd *cobra.Command, path string, skipValidation bool) error {
	ctx := cmd.Context()
	s := newSession(cmd)

	def, err := s.load(ctx, path, !skipValidation)
	if err != nil {
		return err
	}
	tmpl, err := def.Template(s.layoutOptions()...)
	if err != nil {
		return err
	}
	return writeTemplate(cmd.OutOrStdout(), s.cfg.OutputFormat, tmpl)
}

func writeTemplate(w io.Writer, format string, tmpl dxu.Template) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(tmpl, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tmpl); err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}
		return enc.Close()
	case "markdown":
		return writeTemplateMarkdown(w, tmpl)
	}
	return tmpl.WriteText(w)
}

func writeTemplateMarkdown(w io.Writer, tmpl dxu.Template) error {
	names := make([]string, 0, len(tmpl.Tables)+1)
	names = append(names, tmpl.Primary.Name)
	for _, table := range tmpl.Tables {
		names = append(names, table.Name)
	}
	for idx, header := range tmpl.Headers() {
		if _, err := fmt.Fprintf(w, "## %s\n\n```\n", names[idx]); err != nil {
			return err
		}
		for _, card := range header {
			if _, err := fmt.Fprintln(w, strings.TrimRight(card.Image(), " ")); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "END\n```\n\n"); err != nil {
			return err
		}
	}
	return nil
}
