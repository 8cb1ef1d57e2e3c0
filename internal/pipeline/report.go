package pipeline

import (
	"github.com/leapstack-labs/accidentprep/internal/clean"
	"github.com/leapstack-labs/accidentprep/internal/features"
	"github.com/leapstack-labs/accidentprep/internal/profile"
	"github.com/leapstack-labs/accidentprep/internal/split"
)

// Report aggregates the results of a run. Sections for stages that did not
// run are nil.
type Report struct {
	RunID string `json:"run_id" yaml:"run_id"`
	Input string `json:"input" yaml:"input"`

	Raw       profile.Summary  `json:"raw" yaml:"raw"`
	Cleaning  *clean.Result    `json:"cleaning,omitempty" yaml:"cleaning,omitempty"`
	Positives int              `json:"positives" yaml:"positives"`
	Dropped   []string         `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Clean     *profile.Summary `json:"clean,omitempty" yaml:"clean,omitempty"`
	Output    string           `json:"output,omitempty" yaml:"output,omitempty"`

	Features    *features.Classification `json:"features,omitempty" yaml:"features,omitempty"`
	Shapes      *split.Shapes            `json:"shapes,omitempty" yaml:"shapes,omitempty"`
	Transformed *Transformed             `json:"transformed,omitempty" yaml:"transformed,omitempty"`
}

// Transformed holds the shapes of the fitted plan's output.
type Transformed struct {
	Train    split.Shape `json:"x_train" yaml:"x_train"`
	Test     split.Shape `json:"x_test" yaml:"x_test"`
	Features []string    `json:"features" yaml:"features"`
}
