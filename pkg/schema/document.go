package schema

import "errors"

var (
	// ErrNoSource is returned when a document is built without an origin.
	ErrNoSource = errors.New("schema: document has no source")
	// ErrEmptyDocument is returned for a zero-length payload. Loaders turn
	// empty files into an explicit YAML null before building a Document.
	ErrEmptyDocument = errors.New("schema: document payload is empty")
)

// Document is one YAML file of a definition tree: its bytes plus the source
// that include references inside it are resolved against.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument copies raw and pairs it with src.
func NewDocument(src Source, raw []byte) (Document, error) {
	switch {
	case src == nil:
		return Document{}, ErrNoSource
	case len(raw) == 0:
		return Document{}, ErrEmptyDocument
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument is NewDocument for fixtures; it panics on error.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns a copy of the YAML payload.
func (d Document) Raw() []byte { return append([]byte(nil), d.raw...) }

// Location is the path or fs name the document was read from, used in
// error messages.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Dir is the directory relative includes in this document resolve against.
func (d Document) Dir() string { return Dir(d.source) }

// Key identifies the document for include cycle detection.
func (d Document) Key() string { return Key(d.source) }
