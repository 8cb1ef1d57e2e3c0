package clean

import (
	"fmt"

	"github.com/leapstack-labs/accidentprep/internal/profile"
	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// AgeRepair reports the outcome of RepairAge.
type AgeRepair struct {
	// Invalid counts rows that were missing, non-numeric or out of range.
	Invalid int
	// Median is the fill value, computed over the in-range ages.
	Median float64
}

// RepairAge writes a float column named target to t in place. Ages within
// [lo, hi] are kept; every other row is filled with the median of the kept
// ages. The source column is left unchanged. It fails when no age is valid,
// since the median is then undefined.
func RepairAge(t *frame.Table, source, target string, lo, hi float64) (AgeRepair, error) {
	src, ok := t.Column(source)
	if !ok {
		return AgeRepair{}, fmt.Errorf("%w: age column %q not found", core.ErrDerive, source)
	}
	if err := reserve(t, target); err != nil {
		return AgeRepair{}, err
	}
	if lo > hi {
		return AgeRepair{}, fmt.Errorf("%w: age range [%g, %g] is empty", core.ErrDerive, lo, hi)
	}

	kept := make([]frame.Value, src.Len())
	valid := make([]float64, 0, src.Len())
	for i, v := range src.Values {
		if f, ok := v.Float(); ok && f >= lo && f <= hi {
			kept[i] = frame.FloatValue(f)
			valid = append(valid, f)
		}
	}
	if len(valid) == 0 {
		return AgeRepair{}, fmt.Errorf("%w: no %q value lies in [%g, %g], median is undefined",
			core.ErrDerive, source, lo, hi)
	}

	median := profile.Median(valid)
	res := AgeRepair{Median: median}
	for i, v := range kept {
		if v.IsNull() {
			kept[i] = frame.FloatValue(median)
			res.Invalid++
		}
	}

	if err := t.AddColumn(frame.NewColumn(target, frame.Float, kept)); err != nil {
		return AgeRepair{}, fmt.Errorf("%w: %w", core.ErrDerive, err)
	}
	return res, nil
}
