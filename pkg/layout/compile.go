// Package layout compiles definition declarations into the ordered header
// cards and column descriptors of a binary table container. Compilation is a
// pure function of its input: the same declarations always produce the same
// card sequence.
package layout

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-dxu/pkg/definition"
)

// PrimaryHeader is the compiled primary extension.
type PrimaryHeader struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Cards       []Card `json:"cards" yaml:"cards"`
}

// TableLayout is the compiled form of one table extension.
type TableLayout struct {
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Cards       []Card             `json:"cards" yaml:"cards"`
	Columns     []ColumnDescriptor `json:"columns" yaml:"columns"`
}

// ColumnDescriptor describes one zero-row table column for a writer. Width is
// zero when the column holds a single element.
type ColumnDescriptor struct {
	Keyword     string   `json:"keyword" yaml:"keyword"`
	Datatype    Datatype `json:"datatype" yaml:"datatype"`
	ElementType string   `json:"element_type" yaml:"element_type"`
	Width       int      `json:"width,omitempty" yaml:"width,omitempty"`
	// Dims is (maxlength, arraysize) when both exceed one.
	Dims []int `json:"dims,omitempty" yaml:"dims,omitempty"`
}

// HasWidth reports whether the descriptor carries a repeat count.
func (c ColumnDescriptor) HasWidth() bool {
	return c.Width > 0
}

// CompilePrimary emits one card per declared keyword, in declaration order.
// Array keywords receive the suffix "1"; undeclared values stay absent.
// A keyword declared twice keeps its first position and its last declaration.
func CompilePrimary(spec definition.PrimarySpec, options ...Option) PrimaryHeader {
	opts := NewOptions(options...)
	header := PrimaryHeader{
		Name:        spec.Name,
		Description: spec.Description,
		Cards:       make([]Card, 0, len(spec.Header)),
	}
	positions := make(map[string]int, len(spec.Header))
	for _, decl := range spec.Header {
		keyword := decl.Name
		if decl.Array {
			keyword += "1"
		}
		card := Card{Keyword: keyword, Value: decl.Value, Comment: truncate(decl.Description, opts.CommentWidth)}
		if pos, ok := positions[keyword]; ok {
			opts.Logger.Warn().Str("keyword", keyword).Msg("primary keyword declared twice")
			header.Cards[pos] = card
			continue
		}
		positions[keyword] = len(header.Cards)
		header.Cards = append(header.Cards, card)
	}
	opts.Logger.Debug().Str("extension", spec.Name).Int("cards", len(header.Cards)).Msg("compiled primary header")
	return header
}

// CompileTable emits the column cards and descriptors of a table extension.
// It stops at the first column whose datatype cannot be mapped and returns no
// partial layout.
func CompileTable(spec definition.TableSpec, options ...Option) (TableLayout, error) {
	opts := NewOptions(options...)
	table := TableLayout{
		Name:        spec.Name,
		Description: spec.Description,
		Cards:       make([]Card, 0, len(spec.Columns)*3),
		Columns:     make([]ColumnDescriptor, 0, len(spec.Columns)),
	}
	for idx, column := range spec.Columns {
		cards, descriptor, err := compileColumn(idx+1, column, opts)
		if err != nil {
			return TableLayout{}, err
		}
		table.Cards = append(table.Cards, cards...)
		table.Columns = append(table.Columns, descriptor)
	}
	opts.Logger.Debug().
		Str("extension", spec.Name).
		Int("columns", len(table.Columns)).
		Int("cards", len(table.Cards)).
		Msg("compiled table")
	return table, nil
}

// EffectiveMaxLength is the larger of the declared maxlength and the longest
// enumerated literal, and at least 1.
func EffectiveMaxLength(column definition.ColumnSpec) int {
	maxLength := column.MaxLength
	if maxLength < 1 {
		maxLength = 1
	}
	for _, value := range column.Values {
		if n := len(value.Literal); n > maxLength {
			maxLength = n
		}
	}
	return maxLength
}

// ArraySize is the declared array size, at least 1.
func ArraySize(column definition.ColumnSpec) int {
	if column.ArraySize < 1 {
		return 1
	}
	return column.ArraySize
}

func compileColumn(idx int, column definition.ColumnSpec, opts Options) ([]Card, ColumnDescriptor, error) {
	declared := column.Datatype
	if declared == "" {
		declared = string(String)
	}
	name := column.Name
	if name == "" {
		name = "col" + strconv.Itoa(idx)
	}
	datatype, err := ParseDatatype(declared)
	if err != nil {
		return nil, ColumnDescriptor{}, &UnknownDatatypeError{Datatype: declared, Column: name, Index: idx}
	}

	maxLength := EffectiveMaxLength(column)
	arraySize := ArraySize(column)
	width := maxLength * arraySize

	form := datatype.FormCode()
	descriptor := ColumnDescriptor{Keyword: name, Datatype: datatype, ElementType: datatype.ElementType()}
	if width > 1 {
		form = strconv.Itoa(width) + form
		descriptor.Width = width
	}

	cards := make([]Card, 0, 4)
	cards = append(cards, Card{Keyword: indexed(KeywordType, idx), Value: definition.StringValue(name)})
	if comment := truncate(column.Description, opts.CommentWidth); comment != "" {
		cards = append(cards, Card{Keyword: indexed(KeywordComm, idx), Value: definition.StringValue(comment)})
	}
	cards = append(cards, Card{Keyword: indexed(KeywordForm, idx), Value: definition.StringValue(form)})
	if maxLength > 1 && arraySize > 1 {
		descriptor.Dims = []int{maxLength, arraySize}
		cards = append(cards, Card{
			Keyword: indexed(KeywordDim, idx),
			Value:   definition.StringValue(fmt.Sprintf("(%d, %d)", maxLength, arraySize)),
		})
	}
	if bias, ok := datatype.Bias(opts.LegacyUint32Bias); ok && !bias.IsZero() {
		cards = append(cards, Card{Keyword: indexed(KeywordZero, idx), Value: bias})
	}
	if column.Unit != "" {
		cards = append(cards, Card{Keyword: indexed(KeywordUnit, idx), Value: definition.StringValue(column.Unit)})
	}
	if column.UCD != "" {
		cards = append(cards, Card{Keyword: indexed(KeywordUCD, idx), Value: definition.StringValue(column.UCD)})
	}
	if column.Range != nil {
		if !column.Range.Min.IsAbsent() {
			cards = append(cards, Card{Keyword: indexed(KeywordLMin, idx), Value: column.Range.Min})
		}
		if !column.Range.Max.IsAbsent() {
			cards = append(cards, Card{Keyword: indexed(KeywordLMax, idx), Value: column.Range.Max})
		}
	}
	return cards, descriptor, nil
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
