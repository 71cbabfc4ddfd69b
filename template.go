package dxu

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-dxu/pkg/layout"
)

// Template is the compiled, zero-row layout of a whole definition.
type Template struct {
	Primary layout.PrimaryHeader `json:"primary" yaml:"primary"`
	Tables  []layout.TableLayout `json:"tables" yaml:"tables"`
}

// Template compiles the primary header and every table. It fails on the first
// table with an unmappable datatype. Compilation does not validate; call
// Validate first.
func (d *Definition) Template(options ...layout.Option) (Template, error) {
	doc, err := d.Document()
	if err != nil {
		return Template{}, err
	}
	options = append([]layout.Option{layout.WithLogger(d.logger)}, options...)

	tmpl := Template{
		Primary: layout.CompilePrimary(doc.Primary, options...),
		Tables:  make([]layout.TableLayout, 0, len(doc.Tables)),
	}
	for _, spec := range doc.Tables {
		table, err := layout.CompileTable(spec, options...)
		if err != nil {
			return Template{}, fmt.Errorf("dxu: extension %s: %w", spec.Name, err)
		}
		tmpl.Tables = append(tmpl.Tables, table)
	}
	return tmpl, nil
}

// Table finds a compiled table by extension name.
func (t Template) Table(name string) (layout.TableLayout, bool) {
	for _, table := range t.Tables {
		if table.Name == name {
			return table, true
		}
	}
	return layout.TableLayout{}, false
}

// Headers returns the complete header of every HDU in file order.
func (t Template) Headers() [][]layout.Card {
	out := make([][]layout.Card, 0, len(t.Tables)+1)
	out = append(out, t.Primary.Header())
	for _, table := range t.Tables {
		out = append(out, table.Header())
	}
	return out
}

// WriteText writes every header as card images with trailing blanks removed.
// Each header ends with END and headers are separated by a blank line.
func (t Template) WriteText(w io.Writer) error {
	for idx, header := range t.Headers() {
		if idx > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		for _, card := range header {
			if _, err := fmt.Fprintln(w, strings.TrimRight(card.Image(), " ")); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "END\n"); err != nil {
			return err
		}
	}
	return nil
}
