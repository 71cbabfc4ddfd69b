// Package commands implements the dxu subcommands.
package commands

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dxu"
	"github.com/goliatone/go-dxu/internal/cli/config"
	"github.com/goliatone/go-dxu/pkg/layout"
	"github.com/goliatone/go-dxu/pkg/validation"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// session carries what every subcommand needs from the root command.
type session struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newSession(cmd *cobra.Command) session {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return session{cfg: config.FromContext(ctx), logger: config.Logger(ctx)}
}

// validator builds the meta-schema validator, honouring the schema override.
func (s session) validator(ctx context.Context) (*validation.Validator, error) {
	options := []validation.Option{
		validation.WithMaxIncludeDepth(s.cfg.MaxIncludeDepth),
		validation.WithLogger(s.logger),
	}
	if s.cfg.Schema != "" {
		options = append(options, validation.WithSchemaFile(s.cfg.Schema))
	}
	v, err := dxu.NewValidator(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta-schema: %w", err)
	}
	s.logger.Debug().Str("schema", v.Source()).Msg("meta-schema loaded")
	return v, nil
}

func (s session) loadOptions() []dxu.Option {
	return []dxu.Option{
		dxu.WithMaxIncludeDepth(s.cfg.MaxIncludeDepth),
		dxu.WithLogger(s.logger),
	}
}

func (s session) layoutOptions() []layout.Option {
	if s.cfg.LegacyUint32Bias {
		return []layout.Option{layout.WithLegacyUint32Bias()}
	}
	return nil
}

// load reads a definition and, unless skipped, validates it.
func (s session) load(ctx context.Context, path string, validate bool) (*dxu.Definition, error) {
	if !validate {
		return dxu.LoadFile(ctx, path, s.loadOptions()...)
	}
	v, err := s.validator(ctx)
	if err != nil {
		return nil, err
	}
	result := dxu.ValidateFile(ctx, v, path, s.loadOptions()...)
	if result.Err != nil {
		return nil, fmt.Errorf("%s: %w", path, result.Err)
	}
	return result.Definition, nil
}
