package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/accidentprep/internal/pipeline"
)

// NewProfileCommand creates the profile command.
func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile [input]",
		Short: "Summarize the raw accident table without cleaning it",
		Long: `Load the raw table and report its row count, exact duplicates,
per-column missing values and driver age statistics. Nothing is written.`,
		Example: `  accidentprep profile
  accidentprep profile accidents.xlsx --sheet 2023 -f yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cfg := *cmdCtx.Cfg
			inputArg(&cfg, args)

			pc := cfg.Pipeline()
			pc.Logger = cmdCtx.Logger
			rep, err := pipeline.New(pc).Profile(cmd.Context())
			if err != nil {
				return err
			}
			if err := renderReport(cmdCtx.Renderer, rep); err != nil {
				return fmt.Errorf("failed to render report: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("sheet", "", "Worksheet to read from an XLSX input")
	return cmd
}
