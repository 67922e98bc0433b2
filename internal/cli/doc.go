// Package cli implements the command-line interface for bda-datasets.
//
// The cli package provides the Cobra-based CLI with commands to import a
// dataset (fetching and caching it on first use), print its description and
// list the supported identifiers. Imported tables are written as text, JSON
// or CSV, and optionally exported to SQLite.
package cli
