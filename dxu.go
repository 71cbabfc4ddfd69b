// Package dxu loads data exchange unit (DXU) definitions, validates them
// against the DXU meta-schema and compiles them into the header templates of
// a FITS file with a dataless primary HDU and one binary table per extension.
//
// A typical caller loads a definition, validates it and only then trusts the
// compiled template:
//
//	def, err := dxu.LoadFile(ctx, "dxu.yml")
//	validator, err := dxu.NewValidator(ctx)
//	err = def.Validate(ctx, validator)
//	tmpl, err := def.Template()
package dxu

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-dxu/internal/loader"
	"github.com/goliatone/go-dxu/pkg/definition"
	"github.com/goliatone/go-dxu/pkg/include"
	"github.com/goliatone/go-dxu/pkg/schema"
	"github.com/goliatone/go-dxu/pkg/validation"
)

// Options configures loading.
type Options struct {
	// FileSystem backs fs sources; file sources read the OS file system.
	FileSystem      fs.FS
	MaxIncludeDepth int
	Logger          zerolog.Logger
	// OnLoad, when set, is called with every source read while resolving
	// includes, the root included.
	OnLoad func(schema.Source)
}

// Option mutates Options.
type Option func(*Options)

// WithFileSystem reads fs sources from files.
func WithFileSystem(files fs.FS) Option {
	return func(opts *Options) {
		opts.FileSystem = files
	}
}

// WithMaxIncludeDepth bounds include chains.
func WithMaxIncludeDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxIncludeDepth = depth
	}
}

// WithLogger injects a logger shared by loading and compilation.
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithLoadObserver calls fn for every document read by Load.
func WithLoadObserver(fn func(schema.Source)) Option {
	return func(opts *Options) {
		opts.OnLoad = fn
	}
}

func newOptions(options ...Option) Options {
	opts := Options{Logger: zerolog.Nop()}
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}
	return opts
}

// NewLoader constructs a raw document loader while keeping the concrete type
// hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return loader.New(schema.NewLoaderOptions(options...))
}

// NewValidator compiles the bundled meta-schema, or the one named by options.
func NewValidator(ctx context.Context, options ...validation.Option) (*validation.Validator, error) {
	return validation.NewValidator(ctx, options...)
}

// Load reads src, resolves its includes and decodes the merged tree. A tree
// that does not match the definition model still loads; the decode failure is
// reported by Document and Template, and Validate explains it.
func Load(ctx context.Context, src schema.Source, options ...Option) (*Definition, error) {
	if src == nil {
		return nil, errors.New("dxu: source is nil")
	}
	opts := newOptions(options...)

	docs := NewLoader(schema.WithFileSystem(opts.FileSystem))
	if opts.OnLoad != nil {
		docs = observedLoader{Loader: docs, observe: opts.OnLoad}
	}
	resolver := include.NewResolver(
		docs,
		include.WithMaxDepth(opts.MaxIncludeDepth),
		include.WithLogger(opts.Logger),
	)
	node, err := resolver.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	tree, err := include.ToValue(node)
	if err != nil {
		return nil, fmt.Errorf("dxu: %s: %w", src.Location(), err)
	}

	def := &Definition{source: src, tree: tree, logger: opts.Logger}
	def.doc, def.decodeErr = definition.Decode(node)
	if def.decodeErr != nil {
		opts.Logger.Debug().Err(def.decodeErr).Str("source", src.Location()).Msg("definition does not decode")
	}
	return def, nil
}

type observedLoader struct {
	schema.Loader
	observe func(schema.Source)
}

func (l observedLoader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	l.observe(src)
	return l.Loader.Load(ctx, src)
}

// LoadFile loads the definition at an OS path.
func LoadFile(ctx context.Context, path string, options ...Option) (*Definition, error) {
	return Load(ctx, schema.SourceFromFile(path), options...)
}
