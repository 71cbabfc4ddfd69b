// Package cli provides the command-line interface for dxu.
package cli

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dxu/internal/cli/commands"
	"github.com/goliatone/go-dxu/internal/cli/config"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "dxu",
		Short: "Validate data exchange unit definitions and compile header templates",
		Long: `dxu reads YAML definitions of data exchange units (DXU), resolves their
!include directives, checks them against the DXU meta-schema and compiles the
zero-row binary table layout: the header cards a file writer needs.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, used, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg, cmd.ErrOrStderr())
			if used != "" {
				logger.Debug().Str("file", used).Msg("using config file")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = config.WithConfig(ctx, cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./.dxu.yaml)")
	flags.String("schema", "", "Meta-schema file replacing the bundled one")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.String("log-format", "", "Log format (console|json)")
	flags.StringP("output", "o", "", "Output format (text|json|yaml|markdown)")
	flags.Int("max-include-depth", 0, "Maximum !include nesting depth")
	flags.Bool("legacy-uint32-bias", false, "Omit TZERO for uint32 columns")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewTemplateCommand())
	rootCmd.AddCommand(commands.NewColumnsCommand())
	rootCmd.AddCommand(commands.NewInitCommand())

	return rootCmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, args []string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
