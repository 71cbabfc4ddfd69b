package include

import "github.com/rs/zerolog"

const defaultMaxDepth = 32

// Options configures include resolution.
type Options struct {
	// MaxDepth caps the length of an include chain. Zero selects the default.
	MaxDepth int
	// Logger receives debug events for every file read.
	Logger zerolog.Logger
}

// Option mutates Options prior to resolution.
type Option func(*Options)

// WithMaxDepth overrides the include depth limit.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithLogger injects a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func newOptions(options ...Option) Options {
	opts := Options{Logger: zerolog.Nop()}
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	return opts
}
