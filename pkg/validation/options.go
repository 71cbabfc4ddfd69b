package validation

import (
	"io/fs"

	"github.com/rs/zerolog"
)

// DefaultSchemaPath locates the bundled meta-schema inside Schemas.
const DefaultSchemaPath = "schema/dxu_schema.yml"

// Options configures where the meta-schema is read from.
type Options struct {
	// SchemaFile is an OS path; it wins over SchemaFS when set.
	SchemaFile string
	SchemaFS   fs.FS
	SchemaPath string
	// MaxIncludeDepth bounds include chains inside the meta-schema.
	MaxIncludeDepth int
	Logger          zerolog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithSchemaFile validates against the meta-schema at path.
func WithSchemaFile(path string) Option {
	return func(opts *Options) {
		opts.SchemaFile = path
	}
}

// WithSchemaFS validates against the meta-schema name inside fsys.
func WithSchemaFS(fsys fs.FS, name string) Option {
	return func(opts *Options) {
		opts.SchemaFS = fsys
		opts.SchemaPath = name
	}
}

// WithMaxIncludeDepth bounds include chains inside the meta-schema.
func WithMaxIncludeDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxIncludeDepth = depth
	}
}

// WithLogger injects a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func newOptions(options ...Option) Options {
	opts := Options{
		SchemaFS:   Schemas,
		SchemaPath: DefaultSchemaPath,
		Logger:     zerolog.Nop(),
	}
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}
	return opts
}
