package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/goliatone/go-dxu/pkg/definition"
)

// Datatype is the closed set of logical column datatypes.
type Datatype string

const (
	String Datatype = "str"
	Bool   Datatype = "bool"
	Int8   Datatype = "int8"
	Int16  Datatype = "int16"
	Int32  Datatype = "int32"
	Int64  Datatype = "int64"
	Uint8  Datatype = "uint8"
	Uint16 Datatype = "uint16"
	Uint32 Datatype = "uint32"
	Uint64 Datatype = "uint64"
	Float  Datatype = "float"
	Double Datatype = "double"
)

// Datatypes lists every supported datatype in canonical order.
var Datatypes = []Datatype{String, Bool, Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float, Double}

// ErrUnknownDatatype is matched by UnknownDatatypeError.
var ErrUnknownDatatype = errors.New("layout: unknown datatype")

// UnknownDatatypeError reports a column whose datatype has no binary form.
// It is a schema-author error and is never defaulted.
type UnknownDatatypeError struct {
	Datatype string
	Column   string
	Index    int
}

func (e *UnknownDatatypeError) Error() string {
	if e.Column == "" && e.Index == 0 {
		return fmt.Sprintf("layout: unknown datatype %q", e.Datatype)
	}
	return fmt.Sprintf("layout: column %d (%s): unknown datatype %q", e.Index, e.Column, e.Datatype)
}

func (e *UnknownDatatypeError) Is(target error) bool {
	return target == ErrUnknownDatatype
}

// ParseDatatype maps a declared datatype to the enumeration.
func ParseDatatype(s string) (Datatype, error) {
	dt := Datatype(s)
	if !dt.Valid() {
		return "", &UnknownDatatypeError{Datatype: s}
	}
	return dt, nil
}

// Valid reports whether d belongs to the enumeration.
func (d Datatype) Valid() bool {
	return d.FormCode() != ""
}

// FormCode returns the binary table form letter, or "" for unknown datatypes.
func (d Datatype) FormCode() string {
	switch d {
	case String:
		return "A"
	case Bool:
		return "L"
	case Int8, Uint8:
		return "B"
	case Int16, Uint16:
		return "I"
	case Int32, Uint32:
		return "J"
	case Int64, Uint64:
		return "K"
	case Float:
		return "E"
	case Double:
		return "D"
	}
	return ""
}

// ElementType names the in-memory element type a writer allocates for the
// column.
func (d Datatype) ElementType() string {
	switch d {
	case Float:
		return "float32"
	case Double:
		return "float64"
	case "":
		return ""
	}
	if !d.Valid() {
		return ""
	}
	return string(d)
}

// ElementSize is the number of bytes one element occupies in a table row.
func (d Datatype) ElementSize() int {
	switch d.FormCode() {
	case "A", "L", "B":
		return 1
	case "I":
		return 2
	case "J", "E":
		return 4
	case "K", "D":
		return 8
	}
	return 0
}

// Bias returns the zero-point offset that maps the datatype's range onto the
// signed storage primitive behind its form code, if one is needed.
//
// legacyUint32 reproduces the historical table in which the uint32 entry was
// keyed under a misspelled datatype and therefore never matched.
func (d Datatype) Bias(legacyUint32 bool) (definition.Value, bool) {
	switch d {
	case Int8:
		return definition.IntValue(math.MinInt8), true
	case Uint16:
		return definition.IntValue(1 << 15), true
	case Uint32:
		if legacyUint32 {
			return definition.Value{}, false
		}
		return definition.IntValue(1 << 31), true
	case Uint64:
		return definition.UintValue(1 << 63), true
	}
	return definition.Value{}, false
}
