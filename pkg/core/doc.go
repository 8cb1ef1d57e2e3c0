// Package core defines the shared error vocabulary of accidentprep.
//
// Every pipeline stage reports failure as a *StageError carrying the stage
// name and one of the error kinds, so callers can branch with errors.Is.
//
// pkg/core imports only the standard library.
package core
