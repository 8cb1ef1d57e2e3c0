package clean

import "github.com/leapstack-labs/accidentprep/pkg/frame"

// DropLeakage removes the columns that imply the label, plus the replaced
// date and age sources. Absent columns are ignored. It returns the new table
// and the names that were actually removed.
func DropLeakage(t *frame.Table, cols Columns) (*frame.Table, []string) {
	var dropped []string
	for _, name := range cols.Leakage() {
		if t.HasColumn(name) {
			dropped = append(dropped, name)
		}
	}
	return t.DropColumns(dropped...), dropped
}
