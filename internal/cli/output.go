package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/pfrederiksen/bda-datasets/internal/football"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// Valid reports whether f is a known format.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatText, FormatJSON, FormatCSV:
		return true
	}
	return false
}

var columns = []string{"home", "favorite", "underdog", "spread", "favorite.name", "underdog.name", "week", "year"}

// WriteOutput writes the table in the specified format
func WriteOutput(w io.Writer, table *football.Table, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, table)
	case FormatCSV:
		return writeCSV(w, table)
	case FormatText:
		return writeText(w, table, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the table with its counters as JSON
func writeJSON(w io.Writer, table *football.Table) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(table)
}

func writeCSV(w io.Writer, table *football.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range table.Records {
		if err := cw.Write(recordFields(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordFields(r football.AnnotatedGameRecord) []string {
	return []string{
		strconv.Itoa(r.Home),
		strconv.Itoa(r.FavoriteScore),
		strconv.Itoa(r.UnderdogScore),
		strconv.FormatFloat(r.Spread, 'f', -1, 64),
		r.FavoriteName,
		r.UnderdogName,
		strconv.Itoa(r.Week),
		strconv.Itoa(r.Year),
	}
}

// writeText outputs the table as aligned columns followed by a summary
func writeText(w io.Writer, table *football.Table, verbose bool) error {
	if len(table.Records) == 0 {
		fmt.Fprintln(w, "No records found.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		for i, c := range columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw, "\t")
		for _, r := range table.Records {
			for i, f := range recordFields(r) {
				if i > 0 {
					fmt.Fprint(tw, "\t")
				}
				fmt.Fprint(tw, f)
			}
			fmt.Fprintln(tw, "\t")
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if verbose {
		fmt.Fprintln(w, "\nSeasons:")
		for _, b := range table.Blocks {
			marker := ""
			if b.Rows != football.SeasonLength {
				marker = fmt.Sprintf(" (expected %d)", football.SeasonLength)
			}
			fmt.Fprintf(w, "  %d: %d games%s\n", b.Year, b.Rows, marker)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d records across %d seasons", len(table.Records), len(table.Years()))
	if table.Skipped > 0 {
		fmt.Fprintf(w, " (%d malformed rows skipped)", table.Skipped)
	}
	fmt.Fprintln(w)
	return nil
}
