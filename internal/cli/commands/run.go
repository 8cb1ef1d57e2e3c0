package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/accidentprep/internal/cli/output"
	"github.com/leapstack-labs/accidentprep/internal/pipeline"
	"github.com/leapstack-labs/accidentprep/internal/sink"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Clean the accident table, persist it and build the stratified split",
		Long: `Run the full pipeline over a raw accident table:

  load, summarize, deduplicate, decompose the date, repair the driver age,
  derive the Injury_or_Death label, drop leakage columns, summarize again,
  persist the cleaned table, classify feature columns, build the transform
  plan and split into stratified train and test partitions.

The input defaults to Accident.csv and the cleaned table is written to
Accident_cleaned.csv unless --output or --sink say otherwise.`,
		Example: `  # Clean Accident.csv into Accident_cleaned.csv
  accidentprep run

  # Read a workbook and write to SQLite
  accidentprep run accidents.xlsx --sink sqlite --output clean.db

  # Machine-readable report with fitted transform shapes
  accidentprep run --fit-plan -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args)
		},
	}

	cmd.Flags().StringP("output", "O", pipeline.DefaultOutput, "Sink target path (csv file or database file)")
	cmd.Flags().String("sink", sink.DefaultType, "Sink type (csv|sqlite|duckdb|postgres)")
	cmd.Flags().String("table", sink.DefaultTable, "Table name for database sinks")
	cmd.Flags().String("dsn", "", "Connection string for the postgres sink")
	cmd.Flags().String("sheet", "", "Worksheet to read from an XLSX input")
	cmd.Flags().Float64("test-fraction", 0.2, "Fraction of rows in the test partition")
	cmd.Flags().Uint64("seed", 42, "Seed for the stratified split")
	cmd.Flags().Bool("fit-plan", false, "Fit the transform plan on the training partition and report output shapes")

	_ = cmd.RegisterFlagCompletionFunc("sink", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return sink.List(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := *cmdCtx.Cfg
	inputArg(&cfg, args)

	pc := cfg.Pipeline()
	pc.Logger = cmdCtx.Logger
	rep, err := pipeline.New(pc).Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := renderReport(cmdCtx.Renderer, rep); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	warnCleaning(cmdCtx.Renderer, rep)
	if mode := cmdCtx.Renderer.EffectiveMode(); mode == output.ModeText || mode == output.ModeMarkdown {
		cmdCtx.Renderer.Success(fmt.Sprintf("Cleaned table written to %s", rep.Output))
	}
	return nil
}
