package definition

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind enumerates the scalar kinds a Value can hold.
type Kind uint8

const (
	// KindAbsent marks a value that was not declared. Its zero value is absent.
	KindAbsent Kind = iota
	KindString
	KindBool
	KindInt
	KindUint
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a typed scalar taken from a definition document or produced for a
// header card. Declared nulls decode to an absent value.
type Value struct {
	kind Kind
	s    string
	b    bool
	i    int64
	u    uint64
	f    float64
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue wraps a signed integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// UintValue wraps an unsigned integer. Values that fit in int64 are stored as
// KindInt so equal numbers compare equal.
func UintValue(u uint64) Value {
	if u <= math.MaxInt64 {
		return IntValue(int64(u))
	}
	return Value{kind: KindUint, u: u}
}

// FloatValue wraps a floating point number.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// Kind reports the held kind.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether no value was declared.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsZero reports whether v is absent or a numeric zero.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindInt:
		return v.i == 0
	case KindUint:
		return v.u == 0
	case KindFloat:
		return v.f == 0
	}
	return false
}

// Interface returns the held value as a plain Go value, or nil when absent.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat:
		return v.f
	}
	return nil
}

// String renders the value the way it would be written in a document.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return ""
}

// UnmarshalYAML decodes a scalar node according to its resolved tag.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("definition: line %d: expected a scalar value", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*v = Value{}
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			*v = IntValue(i)
			return nil
		}
		var u uint64
		if err := node.Decode(&u); err != nil {
			return fmt.Errorf("definition: line %d: integer %q out of range", node.Line, node.Value)
		}
		*v = UintValue(u)
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = FloatValue(f)
	default:
		*v = StringValue(node.Value)
	}
	return nil
}

// MarshalJSON renders absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindFloat && (math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
		return json.Marshal(v.String())
	}
	return json.Marshal(v.Interface())
}

// MarshalYAML renders absent values as null.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}
