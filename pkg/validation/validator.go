// Package validation checks merged definition trees against the DXU
// meta-schema. The meta-schema is itself a YAML document that may use the
// include directive; it is compiled into an OpenAPI schema object and
// extended with the fitsunit and vo_ucd string formats.
package validation

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dxu/internal/loader"
	"github.com/goliatone/go-dxu/pkg/include"
	"github.com/goliatone/go-dxu/pkg/schema"
)

// Schemas holds the bundled meta-schema and its fragments.
//
//go:embed schema/*.yml
var Schemas embed.FS

// Validator checks documents against one compiled meta-schema. It is safe for
// concurrent use.
type Validator struct {
	schema *openapi3.Schema
	source string
	logger zerolog.Logger
}

// NewValidator loads and compiles the meta-schema.
func NewValidator(ctx context.Context, options ...Option) (*Validator, error) {
	opts := newOptions(options...)

	var (
		src        schema.Source
		loaderOpts []schema.LoaderOption
	)
	if opts.SchemaFile != "" {
		src = schema.SourceFromFile(opts.SchemaFile)
	} else {
		if opts.SchemaFS == nil {
			return nil, errors.New("validation: schema filesystem is nil")
		}
		src = schema.SourceFromFS(opts.SchemaPath)
		loaderOpts = append(loaderOpts, schema.WithFileSystem(opts.SchemaFS))
	}

	resolver := include.NewResolver(
		loader.New(schema.NewLoaderOptions(loaderOpts...)),
		include.WithMaxDepth(opts.MaxIncludeDepth),
		include.WithLogger(opts.Logger),
	)
	node, err := resolver.Load(ctx, src)
	if err != nil {
		if errors.Is(err, include.ErrResourceNotFound) || ctx.Err() != nil {
			return nil, fmt.Errorf("validation: load meta-schema: %w", err)
		}
		return nil, &SchemaInvalidError{Source: src.Location(), Err: err}
	}

	compiled, err := compile(ctx, node)
	if err != nil {
		return nil, &SchemaInvalidError{Source: src.Location(), Err: err}
	}

	opts.Logger.Debug().Str("schema", src.Location()).Msg("meta-schema compiled")
	return &Validator{schema: compiled, source: src.Location(), logger: opts.Logger}, nil
}

// Source reports where the meta-schema was read from.
func (v *Validator) Source() string {
	return v.source
}

// Validate checks a generic tree, as produced by include.ToValue, and returns
// the first violation found. A nil return means the document is valid.
func (v *Validator) Validate(ctx context.Context, tree any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := v.schema.VisitJSON(tree)
	if err != nil {
		err = instanceError(err)
	} else {
		err = checkExtensions(tree)
	}
	if err != nil {
		v.logger.Debug().Err(err).Msg("document rejected")
	}
	return err
}

// compile turns the resolved meta-schema into a validated OpenAPI schema
// object.
func compile(ctx context.Context, node *yaml.Node) (*openapi3.Schema, error) {
	tree, err := include.ToValue(node)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.(map[string]any); !ok {
		return nil, fmt.Errorf("root must be a mapping, got %T", tree)
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	compiled := &openapi3.Schema{}
	if err := compiled.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	if err := compiled.Validate(ctx); err != nil {
		return nil, err
	}
	return compiled, nil
}

func instanceError(err error) error {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return &InstanceInvalidError{Reason: err.Error(), Err: err}
	}
	out := &InstanceInvalidError{
		Path:       pointer(schemaErr.JSONPointer()),
		Constraint: constraintName(schemaErr),
		Reason:     schemaErr.Reason,
		Value:      schemaErr.Value,
		Err:        err,
	}
	var formatErr *FormatError
	switch {
	case errors.As(err, &formatErr):
		out.Format = formatErr
	case schemaErr.SchemaField == "format" && schemaErr.Schema != nil:
		out.Format = &FormatError{
			Field: formatField(schemaErr.Schema.Format),
			Value: fmt.Sprint(schemaErr.Value),
			Err:   errors.New(schemaErr.Reason),
		}
	}
	return out
}

// constraintName reports the schema keyword that rejected the value.
// kin-openapi attributes unknown properties to "properties"; they are
// rejected by additionalProperties: false.
func constraintName(err *openapi3.SchemaError) string {
	if err.SchemaField == "properties" && strings.HasSuffix(err.Reason, "is unsupported") {
		return "additionalProperties"
	}
	return err.SchemaField
}

// maxArrayKeyword leaves room for the one-digit index of an array keyword
// within the 8 character FITS keyword.
const maxArrayKeyword = 7

// checkExtensions enforces the rules the schema language cannot express:
// the first extension declares header keywords and every later one declares
// columns, and array keywords are short enough to take an index.
func checkExtensions(tree any) error {
	doc, ok := tree.(map[string]any)
	if !ok {
		return nil
	}
	extensions, ok := doc["extensions"].([]any)
	if !ok {
		return nil
	}
	for idx, item := range extensions {
		ext, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key, kind := "columns", "table"
		if idx == 0 {
			key, kind = "header", "primary"
		}
		if _, present := ext[key]; !present {
			return &InstanceInvalidError{
				Path:       "/extensions/" + strconv.Itoa(idx),
				Constraint: "required",
				Reason:     fmt.Sprintf("%s extension must declare %q", kind, key),
				Value:      ext,
			}
		}
		if idx == 0 {
			if err := checkArrayKeywords(ext["header"]); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkArrayKeywords(header any) error {
	cards, _ := header.([]any)
	for idx, item := range cards {
		card, ok := item.(map[string]any)
		if !ok {
			continue
		}
		array, _ := card["array"].(bool)
		name, _ := card["name"].(string)
		if !array || len(name) <= maxArrayKeyword {
			continue
		}
		return &InstanceInvalidError{
			Path:       "/extensions/0/header/" + strconv.Itoa(idx) + "/name",
			Constraint: "maxLength",
			Reason:     fmt.Sprintf("array keyword %q is longer than %d characters", name, maxArrayKeyword),
			Value:      name,
		}
	}
	return nil
}

func pointer(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, segment := range segments {
		b.WriteByte('/')
		segment = strings.ReplaceAll(segment, "~", "~0")
		b.WriteString(strings.ReplaceAll(segment, "/", "~1"))
	}
	return b.String()
}
