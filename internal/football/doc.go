// Package football parses the Bayesian Data Analysis football point-spread
// dataset and reconstructs the season each game belongs to.
//
// The raw file concatenates one block of games per season with no season
// column. A block ends where the week counter resets to 1, so the season of a
// row is recovered positionally against an ordered SeasonCatalog. BuildTable
// is a pure function: it performs no I/O and reports diagnostics only through
// the Observer passed in Options.
package football
