package validation

import (
	"errors"
	"strconv"
	"strings"
)

// Issue is a display-ready validation failure.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures the outcome of validating one document.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Report converts an error returned by Validate, or by loading, into a Result.
func Report(err error) Result {
	if err == nil {
		return Result{Valid: true}
	}
	return Result{Issues: Issues(err)}
}

// Issues converts an error into display-ready issues.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var instanceErr *InstanceInvalidError
	if errors.As(err, &instanceErr) {
		msg := instanceErr.Reason
		if instanceErr.Format != nil {
			msg = trimPrefixes(instanceErr.Format.Error())
		}
		return []Issue{{
			Path:    instanceErr.Path,
			Field:   fieldPathFromPointer(instanceErr.Path),
			Message: strings.TrimSpace(msg),
		}}
	}
	return []Issue{{Message: trimPrefixes(err.Error())}}
}

func trimPrefixes(msg string) string {
	msg = strings.TrimSpace(msg)
	for _, prefix := range []string{"validation: ", "include: ", "definition: ", "loader: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return strings.TrimSpace(msg)
}

// fieldPathFromPointer renders /extensions/1/columns/0/unit as
// extensions[1].columns[0].unit.
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(trimmed, "/") {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if segment == "" {
			continue
		}
		if isNumeric(segment) && b.Len() > 0 {
			b.WriteString("[" + segment + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(segment)
	}
	return b.String()
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	_, err := strconv.Atoi(value)
	return err == nil && !strings.HasPrefix(value, "+") && !strings.HasPrefix(value, "-")
}
