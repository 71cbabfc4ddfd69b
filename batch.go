package dxu

import (
	"context"

	"github.com/goliatone/go-dxu/pkg/validation"
)

// FileResult is the outcome of validating one file.
type FileResult struct {
	Path       string
	Definition *Definition
	Err        error
}

// OK reports whether the file loaded and validated.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// ValidateFile loads and validates one file.
func ValidateFile(ctx context.Context, validator *validation.Validator, path string, options ...Option) FileResult {
	result := FileResult{Path: path}
	def, err := LoadFile(ctx, path, options...)
	if err != nil {
		result.Err = err
		return result
	}
	result.Definition = def
	result.Err = def.Validate(ctx, validator)
	return result
}

// ValidateFiles validates every path independently; a failing file never stops
// the ones after it. Results keep the order of paths.
func ValidateFiles(ctx context.Context, validator *validation.Validator, paths []string, options ...Option) []FileResult {
	logger := newOptions(options...).Logger
	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			results = append(results, FileResult{Path: path, Err: err})
			continue
		}
		result := ValidateFile(ctx, validator, path, options...)
		if result.Err != nil {
			logger.Debug().Err(result.Err).Str("file", path).Msg("validation failed")
		}
		results = append(results, result)
	}
	return results
}
