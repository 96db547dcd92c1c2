// Package storage writes discovery tables to the data directory.
//
// A table is written once, at the end of a run, as CSV (the fixed matchday column
// layout) or as a JSON array. Files are written to a temporary name and renamed into
// place so an aborted run never leaves a partial table behind. The default location
// is ~/.local/share/matchday-index/.
package storage
