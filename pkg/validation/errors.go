package validation

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaInvalid is matched by SchemaInvalidError.
	ErrSchemaInvalid = errors.New("validation: meta-schema is invalid")
	// ErrInstanceInvalid is matched by InstanceInvalidError.
	ErrInstanceInvalid = errors.New("validation: document is invalid")
)

// SchemaInvalidError reports a malformed meta-schema. It indicates a
// packaging or configuration problem rather than a bad document.
type SchemaInvalidError struct {
	Source string
	Err    error
}

func (e *SchemaInvalidError) Error() string {
	return fmt.Sprintf("validation: meta-schema %s is invalid: %v", e.Source, e.Err)
}

func (e *SchemaInvalidError) Unwrap() error { return e.Err }

func (e *SchemaInvalidError) Is(target error) bool { return target == ErrSchemaInvalid }

// InstanceInvalidError reports the first place where a document violates the
// meta-schema.
type InstanceInvalidError struct {
	// Path is a JSON pointer to the offending node; empty for the root.
	Path string
	// Constraint names the violated keyword, e.g. "required" or "format".
	Constraint string
	Reason     string
	Value      any
	// Format is set when a custom format check rejected the value.
	Format *FormatError
	Err    error
}

func (e *InstanceInvalidError) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	if e.Format != nil {
		return fmt.Sprintf("validation: %s: %v", path, e.Format.Err)
	}
	return fmt.Sprintf("validation: %s: %s", path, e.Reason)
}

func (e *InstanceInvalidError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Format != nil {
		out = append(out, e.Format)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func (e *InstanceInvalidError) Is(target error) bool { return target == ErrInstanceInvalid }

// FormatError reports a value rejected by the unit or UCD check.
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("validation: invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
