// Package gather runs independent tasks concurrently and joins on all of
// them, keeping successful values and per-task failures apart.
//
// Each task is declared Required or Optional. Callers check Report.FatalErr
// to decide whether to halt and turn Report.Failures into warnings.
package gather
