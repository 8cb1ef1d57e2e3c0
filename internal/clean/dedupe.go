package clean

import "github.com/leapstack-labs/accidentprep/pkg/frame"

// Deduplicate removes rows that exactly repeat an earlier row across all
// columns. The first occurrence is kept and row order is preserved. It
// returns the new table and the number of rows removed.
func Deduplicate(t *frame.Table) (*frame.Table, int) {
	seen := make(map[string]struct{}, t.Rows())
	keep := make([]int, 0, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		key := t.RowKey(i)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	return t.Take(keep), t.Rows() - len(keep)
}
