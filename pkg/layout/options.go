package layout

import "github.com/rs/zerolog"

// DefaultCommentWidth is the number of characters of a column description
// kept in its TCOMM card.
const DefaultCommentWidth = 68

// Options configures compilation.
type Options struct {
	// LegacyUint32Bias suppresses the TZERO card for uint32 columns.
	LegacyUint32Bias bool
	// CommentWidth truncates column descriptions; zero selects the default.
	CommentWidth int
	Logger       zerolog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithLegacyUint32Bias reproduces templates produced before uint32 columns
// received a zero-point card.
func WithLegacyUint32Bias() Option {
	return func(opts *Options) {
		opts.LegacyUint32Bias = true
	}
}

// WithCommentWidth overrides the TCOMM truncation length.
func WithCommentWidth(width int) Option {
	return func(opts *Options) {
		opts.CommentWidth = width
	}
}

// WithLogger injects a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// NewOptions applies options over the defaults.
func NewOptions(options ...Option) Options {
	opts := Options{Logger: zerolog.Nop()}
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}
	if opts.CommentWidth <= 0 {
		opts.CommentWidth = DefaultCommentWidth
	}
	return opts
}
