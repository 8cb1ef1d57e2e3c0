package commands

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/accidentprep/internal/cli/output"
	"github.com/leapstack-labs/accidentprep/internal/pipeline"
	"github.com/leapstack-labs/accidentprep/internal/profile"
)

// renderReport writes rep in the renderer's effective mode.
func renderReport(r *output.Renderer, rep *pipeline.Report) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rep)
	case output.ModeYAML:
		return r.YAML(rep)
	}

	r.Header(1, "Before cleaning")
	renderSummary(r, rep.Raw)
	if rep.Raw.Age != nil {
		r.Header(2, "Driver age")
		renderDescribe(r, *rep.Raw.Age)
	} else {
		r.Muted("No numeric driver age column.")
	}

	if rep.Clean == nil {
		r.Muted("Profile only: nothing was cleaned or written.")
		return nil
	}

	r.Header(1, "Cleaning")
	if c := rep.Cleaning; c != nil {
		r.KeyValue("Duplicates removed", r.Int(c.DuplicatesRemoved))
		r.KeyValue("Unparseable dates", r.Int(c.UnparseableDates))
		r.KeyValue("Ages replaced by median", fmt.Sprintf("%s (median %s)", r.Int(c.InvalidAges), formatStat(r, c.AgeMedian)))
	}
	r.KeyValue("Injury or death", r.Int(rep.Positives))
	r.KeyValue("Dropped columns", output.FormatList(rep.Dropped))
	r.KeyValue("Output", rep.Output)

	r.Header(1, "After cleaning")
	renderSummary(r, *rep.Clean)
	if len(rep.Clean.Label) > 0 {
		r.Header(2, "Label proportions")
		rows := make([][]string, 0, len(rep.Clean.Label))
		for _, p := range rep.Clean.Label {
			rows = append(rows, []string{p.Value, r.Int(p.Count), r.Float(p.Proportion, 4)})
		}
		r.Table([]string{"Value", "Count", "Proportion"}, rows)
	}

	if rep.Features != nil {
		r.Header(1, "Features")
		r.KeyValue("Numeric", output.FormatList(rep.Features.Numeric))
		r.KeyValue("Categorical", output.FormatList(rep.Features.Categorical))
	}

	if s := rep.Shapes; s != nil {
		r.Header(1, "Split")
		rows := [][]string{
			{"X_train", s.TrainFeatures.String()},
			{"X_test", s.TestFeatures.String()},
			{"y_train", s.TrainLabels.String()},
			{"y_test", s.TestLabels.String()},
		}
		if tr := rep.Transformed; tr != nil {
			rows = append(rows,
				[]string{"X_train transformed", tr.Train.String()},
				[]string{"X_test transformed", tr.Test.String()},
			)
		}
		r.Table([]string{"Partition", "Shape"}, rows)
	}
	return nil
}

func renderSummary(r *output.Renderer, s profile.Summary) {
	r.KeyValue("Rows", r.Int(s.Rows))
	r.KeyValue("Columns", r.Int(s.Columns))
	r.KeyValue("Duplicates", r.Int(s.Duplicates))

	rows := make([][]string, 0, len(s.Missing))
	for _, m := range s.Missing {
		rows = append(rows, []string{m.Column, r.Int(m.Missing)})
	}
	r.Table([]string{"Column", "Missing"}, rows)
}

func renderDescribe(r *output.Renderer, d profile.Describe) {
	r.Table(
		[]string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"},
		[][]string{{
			r.Int(d.Count), formatStat(r, d.Mean), formatStat(r, d.Std), formatStat(r, d.Min),
			formatStat(r, d.P25), formatStat(r, d.P50), formatStat(r, d.P75), formatStat(r, d.Max),
		}},
	)
}

func formatStat(r *output.Renderer, f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return r.Float(f, 2)
}

// warnCleaning reports rows the cleaner had to repair on the error stream.
func warnCleaning(r *output.Renderer, rep *pipeline.Report) {
	c := rep.Cleaning
	if c == nil {
		return
	}
	if c.UnparseableDates > 0 {
		r.Warning(fmt.Sprintf("%s dates could not be parsed; their calendar fields are empty", r.Int(c.UnparseableDates)))
	}
	if c.InvalidAges > 0 {
		r.Warning(fmt.Sprintf("%s driver ages were missing or out of range and set to the median %s",
			r.Int(c.InvalidAges), formatStat(r, c.AgeMedian)))
	}
}
