// Package cli implements the command-line interface for matchday-index.
//
// The cli package provides the Cobra-based root command. It loads the configuration,
// runs the discovery crawler over the configured regions, writes the resulting table
// through the storage package and prints a run summary (text, table or JSON).
package cli
