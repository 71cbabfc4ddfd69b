package layout

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-dxu/pkg/definition"
)

// Column keyword roots. Each is suffixed with the 1-based column index.
const (
	KeywordType  = "TTYPE"
	KeywordComm  = "TCOMM"
	KeywordForm  = "TFORM"
	KeywordDim   = "TDIM"
	KeywordZero  = "TZERO"
	KeywordUnit  = "TUNIT"
	KeywordUCD   = "TUCD"
	KeywordLMin  = "TLMIN"
	KeywordLMax  = "TLMAX"
	cardWidth    = 80
	keywordWidth = 8
	valueWidth   = 20
)

// ColumnKeywords lists the column keyword roots in emission order.
var ColumnKeywords = []string{
	KeywordType, KeywordComm, KeywordForm, KeywordDim, KeywordZero,
	KeywordUnit, KeywordUCD, KeywordLMin, KeywordLMax,
}

// Card is one header keyword with an optional value and comment. An absent
// value leaves the keyword slot for a downstream producer to fill.
type Card struct {
	Keyword string           `json:"keyword" yaml:"keyword"`
	Value   definition.Value `json:"value" yaml:"value"`
	Comment string           `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Image renders the card as an 80 column header line, one column per rune.
// Long keywords, values or comments are truncated on a rune boundary; the
// result is meant for display, not for writing files.
func (c Card) Image() string {
	var b strings.Builder
	b.WriteString(padRight(c.Keyword, keywordWidth))
	b.WriteString("= ")
	b.WriteString(formatValue(c.Value))
	if c.Comment != "" {
		b.WriteString(" / ")
		b.WriteString(c.Comment)
	}
	return padRight(truncate(b.String(), cardWidth), cardWidth)
}

func formatValue(v definition.Value) string {
	switch v.Kind() {
	case definition.KindAbsent:
		return ""
	case definition.KindString:
		quoted := "'" + padRight(strings.ReplaceAll(v.String(), "'", "''"), 8) + "'"
		return padRight(quoted, valueWidth)
	case definition.KindBool:
		flag := "F"
		if v.Interface().(bool) {
			flag = "T"
		}
		return padLeft(flag, valueWidth)
	case definition.KindFloat:
		s := strings.ToUpper(strconv.FormatFloat(v.Interface().(float64), 'G', -1, 64))
		if !strings.ContainsAny(s, ".EN") {
			s += ".0"
		}
		return padLeft(s, valueWidth)
	}
	return padLeft(v.String(), valueWidth)
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

func indexed(root string, idx int) string {
	return root + strconv.Itoa(idx)
}
