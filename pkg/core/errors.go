package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error kinds
// =============================================================================

// Error kinds for a pipeline run. Every stage failure wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrLoad reports an unreadable or malformed input source.
	ErrLoad = errors.New("load error")
	// ErrDerive reports a value that cannot be derived, such as the median of
	// zero valid ages or a label for a row with no severity data.
	ErrDerive = errors.New("derive error")
	// ErrClassify reports a feature column whose type cannot be determined.
	ErrClassify = errors.New("classify error")
	// ErrWrite reports a sink that could not be written.
	ErrWrite = errors.New("write error")
	// ErrPartition reports a split that cannot be stratified.
	ErrPartition = errors.New("partition error")
)

// =============================================================================
// Stage
// =============================================================================

// Stage names a step of the cleaning-and-split pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageLoad          Stage = "load"
	StageSummarizeRaw  Stage = "summarize-raw"
	StageClean         Stage = "clean"
	StageDeriveLabel   Stage = "derive-label"
	StageDropLeakage   Stage = "drop-leakage"
	StageSummarizeDone Stage = "summarize-clean"
	StagePersist       Stage = "persist"
	StageClassify      Stage = "classify"
	StagePlan          Stage = "plan"
	StageSplit         Stage = "split"
	StageFit           Stage = "fit"
)

// StageError ties a failure to the stage that produced it.
type StageError struct {
	Stage Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewStageError wraps err as a failure of the given stage and kind.
// If err already carries a StageError it is returned unchanged.
func NewStageError(stage Stage, kind, err error) error {
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// KindOf returns the error kind carried by err, or nil when err is not a
// pipeline error.
func KindOf(err error) error {
	for _, kind := range []error{ErrLoad, ErrDerive, ErrClassify, ErrWrite, ErrPartition} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
