// Package frame holds the in-memory record table the pipeline operates on.
//
// A Table is an ordered set of named, typed columns sharing one row count.
// Cells are nullable Values. Column types are declared or inferred once when
// the table is loaded and are never re-inferred afterwards.
package frame
