// Package definition holds the typed model of a DXU definition document: the
// global metadata, the primary header declarations and the table column
// declarations. Documents are decoded once from a resolved YAML tree and are
// treated as immutable afterwards.
package definition

// Document is the decoded top-level definition.
type Document struct {
	Name        string
	Version     string
	Description string
	Creators    []Creator
	// Primary is the first extension; it carries header-card declarations.
	Primary PrimarySpec
	// Tables are the remaining extensions, in declaration order.
	Tables []TableSpec
}

// Creator names one author of the definition.
type Creator struct {
	FirstName string `yaml:"first-name" json:"first-name"`
	LastName  string `yaml:"last-name" json:"last-name"`
}

// FullName joins first and last name.
func (c Creator) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// PrimarySpec declares the primary header.
type PrimarySpec struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Header      []HeaderCardSpec `yaml:"header"`
}

// HeaderCardSpec declares one primary header keyword.
type HeaderCardSpec struct {
	Name string `yaml:"name"`
	// Value is absent when a downstream producer fills the keyword in.
	Value       Value      `yaml:"value"`
	Description string     `yaml:"description"`
	Array       bool       `yaml:"array"`
	Notes       string     `yaml:"notes"`
	Range       *Range     `yaml:"range"`
	Datatype    string     `yaml:"datatype"`
	Unit        string     `yaml:"unit"`
	Required    *bool      `yaml:"required"`
	Values      EnumValues `yaml:"values"`
}

// IsRequired reports whether the keyword must be present; keywords are
// required unless declared otherwise.
func (h HeaderCardSpec) IsRequired() bool {
	return h.Required == nil || *h.Required
}

// TableSpec declares one binary table extension.
type TableSpec struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Responsible string       `yaml:"responsable"`
	Columns     []ColumnSpec `yaml:"columns"`
}

// ColumnSpec declares one table column. Zero MaxLength and ArraySize mean
// "not declared" and behave as 1.
type ColumnSpec struct {
	Name        string     `yaml:"name"`
	Datatype    string     `yaml:"datatype"`
	Unit        string     `yaml:"unit"`
	Description string     `yaml:"description"`
	UCD         string     `yaml:"ucd"`
	Range       *Range     `yaml:"range"`
	MaxLength   int        `yaml:"maxlength"`
	ArraySize   int        `yaml:"arraysize"`
	Values      EnumValues `yaml:"values"`
	MaybeNull   bool       `yaml:"maybenull"`
	Notes       string     `yaml:"notes"`
}

// Range bounds a numeric column or keyword. Either bound may be absent.
type Range struct {
	Min Value `yaml:"min"`
	Max Value `yaml:"max"`
}

// EnumValue is one permitted literal and its optional description.
type EnumValue struct {
	Literal     string
	Description string
}

// EnumValues is an ordered literal -> description mapping.
type EnumValues []EnumValue

// Literals returns the literals in declaration order.
func (e EnumValues) Literals() []string {
	out := make([]string, len(e))
	for idx, value := range e {
		out[idx] = value.Literal
	}
	return out
}
