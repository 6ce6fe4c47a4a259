// Package status aggregates layer readings into a consistency report.
//
// The report is a heuristic "is something misconfigured" signal: it is OK
// only when every layer could be read, at least one layer is enabled, and
// all layers agree with the majority. A machine where nothing was ever
// configured is therefore not OK.
package status
