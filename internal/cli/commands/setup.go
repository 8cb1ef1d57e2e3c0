// Package commands implements the accidentprep subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/accidentprep/internal/cli/config"
	"github.com/leapstack-labs/accidentprep/internal/cli/output"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// WithConfig stores the loaded configuration and its renderer in ctx.
func WithConfig(ctx context.Context, cfg *config.Config, r *output.Renderer) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, rendererKey{}, r)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer placed in the
// command context by the root command. Missing values fall back to
// defaults, which lets commands run standalone in tests.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		var err error
		cfg, err = config.Load("", cmd.Flags())
		if err != nil {
			return nil, err
		}
	}

	r, ok := ctx.Value(rendererKey{}).(*output.Renderer)
	if !ok {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: r,
	}, nil
}

// inputArg applies an optional positional input path.
func inputArg(cfg *config.Config, args []string) {
	if len(args) > 0 && args[0] != "" {
		cfg.Input.Path = args[0]
	}
}
