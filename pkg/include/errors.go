package include

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResourceNotFound is matched by errors reporting a missing include target.
	ErrResourceNotFound = errors.New("include: resource not found")
	// ErrIncludeCycle is matched by errors reporting a self-referential include chain.
	ErrIncludeCycle = errors.New("include: cycle detected")
	// ErrIncludeDepth reports an include chain deeper than the configured limit.
	ErrIncludeDepth = errors.New("include: maximum depth exceeded")
)

// ResourceNotFoundError names the unresolved path and the file that referenced
// it. Referrer is empty when the root document itself is missing.
type ResourceNotFoundError struct {
	Path     string
	Referrer string
	Err      error
}

func (e *ResourceNotFoundError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("include: %s not found", e.Path)
	}
	return fmt.Sprintf("include: %s (referenced from %s) not found", e.Path, e.Referrer)
}

func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

func (e *ResourceNotFoundError) Unwrap() error {
	return e.Err
}

// CycleError lists the include chain that led back to a file already being
// resolved. The last entry repeats an earlier one.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "include: cycle detected: " + strings.Join(e.Chain, " -> ")
}

func (e *CycleError) Is(target error) bool {
	return target == ErrIncludeCycle
}
