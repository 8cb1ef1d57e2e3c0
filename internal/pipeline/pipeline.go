// Package pipeline runs the accident cleaning-and-split stages in order and
// aggregates their results into a Report.
//
// Stages run strictly one after another. Any failure aborts the run and is
// returned as a *core.StageError naming the stage and the error kind.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/accidentprep/internal/clean"
	"github.com/leapstack-labs/accidentprep/internal/features"
	"github.com/leapstack-labs/accidentprep/internal/profile"
	"github.com/leapstack-labs/accidentprep/internal/sink"
	"github.com/leapstack-labs/accidentprep/internal/source"
	"github.com/leapstack-labs/accidentprep/internal/split"
	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// DefaultInput is the source file read when no input is configured.
const DefaultInput = "Accident.csv"

// DefaultOutput is the csv sink path used when no output is configured.
const DefaultOutput = "Accident_cleaned.csv"

// Config holds everything one run needs.
type Config struct {
	// Input is the path of the raw CSV or XLSX file.
	Input string
	// Sheet selects the XLSX sheet (empty for the first).
	Sheet string
	// Schema declares column types; undeclared columns are inferred.
	Schema frame.Schema
	// Clean configures the cleaning steps. Its Logger is replaced by Logger.
	Clean clean.Options
	// Sink selects where the cleaned table is written.
	Sink sink.Config
	// Split configures the stratified partition.
	Split split.Options
	// FitPlan fits the transform plan on the training partition and reports
	// the transformed shapes.
	FitPlan bool
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// DefaultConfig returns the accident dataset defaults.
func DefaultConfig() Config {
	return Config{
		Input: DefaultInput,
		Clean: clean.DefaultOptions(),
		Sink:  sink.Config{Type: sink.DefaultType, Path: DefaultOutput},
		Split: split.Options{TestFraction: split.DefaultTestFraction, Seed: split.DefaultSeed},
	}
}

// Pipeline executes the stages for one configuration.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
	runID  string
}

// New creates a pipeline with a fresh run id.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	logger = logger.With("run_id", id)
	cfg.Clean.Logger = logger
	return &Pipeline{cfg: cfg, logger: logger, runID: id}
}

// stage runs fn as the named stage, logging its duration and resulting row
// count, and tags any error with the stage and kind.
func (p *Pipeline) stage(ctx context.Context, s core.Stage, kind error, fn func() (int, error)) error {
	if err := ctx.Err(); err != nil {
		return &core.StageError{Stage: s, Kind: err}
	}
	start := time.Now()
	p.logger.Debug("stage started", "stage", string(s))

	rows, err := fn()
	if err != nil {
		p.logger.Error("stage failed", "stage", string(s), "error", err.Error())
		return core.NewStageError(s, kind, err)
	}
	p.logger.Info("stage completed", "stage", string(s), "rows", rows, "duration", time.Since(start))
	return nil
}

func (p *Pipeline) load(ctx context.Context) (*frame.Table, error) {
	var raw *frame.Table
	err := p.stage(ctx, core.StageLoad, core.ErrLoad, func() (int, error) {
		var err error
		raw, err = source.Load(ctx, p.cfg.Input, source.Options{
			Schema:      p.cfg.Schema,
			Sheet:       p.cfg.Sheet,
			TimeLayouts: p.cfg.Clean.TimeLayouts,
			Logger:      p.logger,
		})
		if err != nil {
			return 0, err
		}
		return raw.Rows(), nil
	})
	return raw, err
}

func (p *Pipeline) summarize(ctx context.Context, s core.Stage, t *frame.Table, age string) (profile.Summary, error) {
	var sum profile.Summary
	err := p.stage(ctx, s, nil, func() (int, error) {
		sum = profile.Summarize(t, profile.Options{AgeColumn: age, LabelColumn: p.cfg.Clean.Columns.Label})
		return sum.Rows, nil
	})
	return sum, err
}

// Profile loads the input and summarizes the raw table.
func (p *Pipeline) Profile(ctx context.Context) (*Report, error) {
	p.logger.Info("starting profile", "input", p.cfg.Input)
	raw, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := p.summarize(ctx, core.StageSummarizeRaw, raw, p.cfg.Clean.Columns.Age)
	if err != nil {
		return nil, err
	}
	return &Report{RunID: p.runID, Input: p.cfg.Input, Raw: sum}, nil
}

// Run executes every stage and returns the aggregated report.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	p.logger.Info("starting run", "input", p.cfg.Input, "sink", p.cfg.Sink.Type)
	cols := p.cfg.Clean.Columns
	rep := &Report{RunID: p.runID, Input: p.cfg.Input}

	raw, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	if rep.Raw, err = p.summarize(ctx, core.StageSummarizeRaw, raw, cols.Age); err != nil {
		return nil, err
	}

	var t *frame.Table
	err = p.stage(ctx, core.StageClean, core.ErrDerive, func() (int, error) {
		var res clean.Result
		var err error
		t, res, err = clean.Clean(raw, p.cfg.Clean)
		rep.Cleaning = &res
		if err != nil {
			return 0, err
		}
		return t.Rows(), nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, core.StageDeriveLabel, core.ErrDerive, func() (int, error) {
		var err error
		rep.Positives, err = clean.DeriveLabel(t, cols.Severity, cols.Label, p.cfg.Clean.Severity)
		return t.Rows(), err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, core.StageDropLeakage, nil, func() (int, error) {
		t, rep.Dropped = clean.DropLeakage(t, cols)
		return t.Rows(), nil
	})
	if err != nil {
		return nil, err
	}

	sum, err := p.summarize(ctx, core.StageSummarizeDone, t, cols.AgeClean)
	if err != nil {
		return nil, err
	}
	rep.Clean = &sum

	err = p.stage(ctx, core.StagePersist, core.ErrWrite, func() (int, error) {
		return t.Rows(), p.persist(ctx, t, rep)
	})
	if err != nil {
		return nil, err
	}

	labels, ok := t.Column(cols.Label)
	if !ok {
		return nil, core.NewStageError(core.StageClassify, core.ErrClassify,
			fmt.Errorf("%w: label column %q missing", core.ErrClassify, cols.Label))
	}
	feats := t.DropColumns(cols.Label)

	err = p.stage(ctx, core.StageClassify, core.ErrClassify, func() (int, error) {
		c, err := features.Classify(feats)
		if err != nil {
			return 0, err
		}
		rep.Features = &c
		return feats.Rows(), nil
	})
	if err != nil {
		return nil, err
	}

	var plan *features.Plan
	err = p.stage(ctx, core.StagePlan, nil, func() (int, error) {
		plan = features.BuildPlan(*rep.Features)
		return feats.Rows(), nil
	})
	if err != nil {
		return nil, err
	}

	var part *split.Partition
	err = p.stage(ctx, core.StageSplit, core.ErrPartition, func() (int, error) {
		var err error
		part, err = split.Stratified(feats, labels, p.cfg.Split)
		if err != nil {
			return 0, err
		}
		shapes := part.Shapes()
		rep.Shapes = &shapes
		return feats.Rows(), nil
	})
	if err != nil {
		return nil, err
	}

	if p.cfg.FitPlan {
		err = p.stage(ctx, core.StageFit, core.ErrClassify, func() (int, error) {
			return p.fit(plan, part, rep)
		})
		if err != nil {
			return nil, err
		}
	}

	p.logger.Info("run completed", "rows", t.Rows(), "output", rep.Output)
	return rep, nil
}

func (p *Pipeline) persist(ctx context.Context, t *frame.Table, rep *Report) (err error) {
	s, err := sink.New(p.cfg.Sink, p.logger)
	if err != nil {
		if errors.Is(err, core.ErrWrite) {
			return err
		}
		return fmt.Errorf("%w: %w", core.ErrWrite, err)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close: %w", core.ErrWrite, cerr)
		}
	}()
	if err := s.Write(ctx, t); err != nil {
		return err
	}
	rep.Output = s.Location()
	return nil
}

func (p *Pipeline) fit(plan *features.Plan, part *split.Partition, rep *Report) (int, error) {
	if err := plan.Fit(part.TrainFeatures); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrClassify, err)
	}
	train, err := plan.Transform(part.TrainFeatures)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrClassify, err)
	}
	test, err := plan.Transform(part.TestFeatures)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrClassify, err)
	}
	tr, tc := train.Shape()
	er, ec := test.Shape()
	rep.Transformed = &Transformed{
		Train:    split.Shape{tr, tc},
		Test:     split.Shape{er, ec},
		Features: train.Names,
	}
	return tr + er, nil
}
