package clean

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// DeriveLabel adds an integer 0/1 column named label to t in place. A row is
// labelled 1 when any severity value is strictly greater than zero. Missing
// values count as zero, except that a row with every severity value missing
// is handled by policy. It returns the number of positive rows.
func DeriveLabel(t *frame.Table, severity []string, label string, policy SeverityPolicy) (int, error) {
	if len(severity) == 0 {
		return 0, fmt.Errorf("%w: no severity columns configured", core.ErrDerive)
	}
	if policy == "" {
		policy = SeverityStrict
	}
	if policy != SeverityStrict && policy != SeverityZero {
		return 0, fmt.Errorf("%w: unknown severity policy %q", core.ErrDerive, policy)
	}

	if err := reserve(t, label); err != nil {
		return 0, err
	}

	cols := make([]*frame.Column, len(severity))
	var missing []string
	for i, name := range severity {
		c, ok := t.Column(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[i] = c
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("%w: severity columns not found: %s", core.ErrDerive, strings.Join(missing, ", "))
	}

	labels := make([]frame.Value, t.Rows())
	positive := 0
	for i := 0; i < t.Rows(); i++ {
		hit, seen := false, false
		for _, c := range cols {
			v := c.Values[i]
			if v.IsNull() {
				continue
			}
			seen = true
			f, ok := severityNumber(v)
			if !ok {
				return 0, fmt.Errorf("%w: row %d: %q value %q is not numeric",
					core.ErrDerive, i+1, c.Name, v.Format())
			}
			if f > 0 {
				hit = true
			}
		}
		if !seen && policy == SeverityStrict {
			return 0, fmt.Errorf("%w: row %d has no severity value in %s; set the severity policy to %q to label such rows 0",
				core.ErrDerive, i+1, strings.Join(severity, ", "), SeverityZero)
		}
		if hit {
			labels[i] = frame.IntValue(1)
			positive++
		} else {
			labels[i] = frame.IntValue(0)
		}
	}

	if err := t.AddColumn(frame.NewColumn(label, frame.Int, labels)); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrDerive, err)
	}
	return positive, nil
}

func severityNumber(v frame.Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	if s, ok := v.Str(); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}
