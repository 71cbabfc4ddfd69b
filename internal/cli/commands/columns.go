package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/goliatone/go-dxu"
	"github.com/goliatone/go-dxu/pkg/layout"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type columnRow struct {
	Index    int    `json:"index" yaml:"index"`
	Name     string `json:"name" yaml:"name"`
	Datatype string `json:"datatype" yaml:"datatype"`
	Form     string `json:"tform" yaml:"tform"`
	Dim      string `json:"tdim,omitempty" yaml:"tdim,omitempty"`
	Zero     string `json:"tzero,omitempty" yaml:"tzero,omitempty"`
	Unit     string `json:"unit,omitempty" yaml:"unit,omitempty"`
	UCD      string `json:"ucd,omitempty" yaml:"ucd,omitempty"`
}

type extensionColumns struct {
	Extension string      `json:"extension" yaml:"extension"`
	RowWidth  int         `json:"row_width" yaml:"row_width"`
	Columns   []columnRow `json:"columns" yaml:"columns"`
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	var skipValidation bool

	cmd := &cobra.Command{
		Use:   "columns <file>",
		Short: "List the compiled columns of every table extension",
		Example: `  # Show column tables
  dxu columns dxu.yml

  # Markdown for documentation
  dxu columns dxu.yml --output markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(cmd, args[0], skipValidation)
		},
	}

	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Compile without checking the meta-schema")

	return cmd
}

func runColumns(cmd *cobra.Command, path string, skipValidation bool) error {
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
	return writeColumns(cmd.OutOrStdout(), s.cfg.OutputFormat, collectColumns(tmpl))
}

func collectColumns(tmpl dxu.Template) []extensionColumns {
	out := make([]extensionColumns, 0, len(tmpl.Tables))
	for _, t := range tmpl.Tables {
		ext := extensionColumns{
			Extension: t.Name,
			RowWidth:  t.RowWidth(),
			Columns:   make([]columnRow, 0, len(t.Columns)),
		}
		for idx, col := range t.Columns {
			n := idx + 1
			ext.Columns = append(ext.Columns, columnRow{
				Index:    n,
				Name:     cardValue(t, layout.KeywordType, n),
				Datatype: string(col.Datatype),
				Form:     cardValue(t, layout.KeywordForm, n),
				Dim:      cardValue(t, layout.KeywordDim, n),
				Zero:     cardValue(t, layout.KeywordZero, n),
				Unit:     cardValue(t, layout.KeywordUnit, n),
				UCD:      cardValue(t, layout.KeywordUCD, n),
			})
		}
		out = append(out, ext)
	}
	return out
}

func cardValue(t layout.TableLayout, root string, n int) string {
	card, ok := t.Card(root + strconv.Itoa(n))
	if !ok {
		return ""
	}
	return card.Value.String()
}

func writeColumns(w io.Writer, format string, extensions []extensionColumns) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(extensions, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(extensions); err != nil {
			return err
		}
		return enc.Close()
	}

	for idx, ext := range extensions {
		if idx > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		t := table.NewWriter()
		t.SetTitle(fmt.Sprintf("%s (%d bytes per row)", ext.Extension, ext.RowWidth))
		t.AppendHeader(table.Row{"#", "Name", "Datatype", "TFORM", "TDIM", "TZERO", "Unit", "UCD"})
		for _, col := range ext.Columns {
			t.AppendRow(table.Row{col.Index, col.Name, col.Datatype, col.Form, col.Dim, col.Zero, col.Unit, col.UCD})
		}
		var rendered string
		if format == "markdown" {
			rendered = t.RenderMarkdown()
		} else {
			t.SetStyle(table.StyleLight)
			rendered = t.Render()
		}
		if _, err := io.WriteString(w, rendered+"\n"); err != nil {
			return err
		}
	}
	return nil
}
