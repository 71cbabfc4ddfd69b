package layout

import "github.com/goliatone/go-dxu/pkg/definition"

// RowWidth is the number of bytes one table row occupies.
func (t TableLayout) RowWidth() int {
	total := 0
	for _, column := range t.Columns {
		repeat := column.Width
		if repeat < 1 {
			repeat = 1
		}
		total += repeat * column.Datatype.ElementSize()
	}
	return total
}

// Header returns the complete zero-row extension header: the mandatory
// binary table cards, the column cards, and EXTNAME.
func (t TableLayout) Header() []Card {
	cards := make([]Card, 0, len(t.Cards)+9)
	cards = append(cards,
		Card{Keyword: "XTENSION", Value: definition.StringValue("BINTABLE"), Comment: "binary table extension"},
		Card{Keyword: "BITPIX", Value: definition.IntValue(8), Comment: "array data type"},
		Card{Keyword: "NAXIS", Value: definition.IntValue(2), Comment: "number of array dimensions"},
		Card{Keyword: "NAXIS1", Value: definition.IntValue(int64(t.RowWidth())), Comment: "length of dimension 1"},
		Card{Keyword: "NAXIS2", Value: definition.IntValue(0), Comment: "length of dimension 2"},
		Card{Keyword: "PCOUNT", Value: definition.IntValue(0), Comment: "number of group parameters"},
		Card{Keyword: "GCOUNT", Value: definition.IntValue(1), Comment: "number of groups"},
		Card{Keyword: "TFIELDS", Value: definition.IntValue(int64(len(t.Columns))), Comment: "number of table fields"},
	)
	cards = append(cards, t.Cards...)
	if t.Name != "" {
		cards = append(cards, Card{Keyword: "EXTNAME", Value: definition.StringValue(t.Name), Comment: "extension name"})
	}
	return cards
}

// Header returns the complete primary header: the mandatory cards of a
// dataless primary HDU followed by the declared keywords.
func (p PrimaryHeader) Header() []Card {
	cards := make([]Card, 0, len(p.Cards)+4)
	cards = append(cards,
		Card{Keyword: "SIMPLE", Value: definition.BoolValue(true), Comment: "conforms to FITS standard"},
		Card{Keyword: "BITPIX", Value: definition.IntValue(8), Comment: "array data type"},
		Card{Keyword: "NAXIS", Value: definition.IntValue(0), Comment: "number of array dimensions"},
		Card{Keyword: "EXTEND", Value: definition.BoolValue(true), Comment: "FITS dataset may contain extensions"},
	)
	return append(cards, p.Cards...)
}

// Card looks up a card by keyword.
func (t TableLayout) Card(keyword string) (Card, bool) {
	return findCard(t.Cards, keyword)
}

// Card looks up a card by keyword.
func (p PrimaryHeader) Card(keyword string) (Card, bool) {
	return findCard(p.Cards, keyword)
}

func findCard(cards []Card, keyword string) (Card, bool) {
	for _, card := range cards {
		if card.Keyword == keyword {
			return card, true
		}
	}
	return Card{}, false
}
