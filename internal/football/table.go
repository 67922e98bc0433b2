package football

import "strings"

// DefaultSkipHeaderLines is the number of metadata lines preceding the data.
const DefaultSkipHeaderLines = 7

// Observer receives diagnostics while a table is built. Implementations must
// not retain the error values beyond the call.
type Observer interface {
	RecordSkipped(err *RecordParseError)
	SeasonBoundary(index, year, line int)
	BlockLengthMismatch(year, rows, want int)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) RecordSkipped(*RecordParseError)   {}
func (NopObserver) SeasonBoundary(int, int, int)      {}
func (NopObserver) BlockLengthMismatch(int, int, int) {}

// BlockSize is the number of parsed rows assigned to one season.
type BlockSize struct {
	Year int `json:"year"`
	Rows int `json:"rows"`
}

// Table is the result of BuildTable. It is a read-only snapshot.
type Table struct {
	Records    []AnnotatedGameRecord `json:"records"`
	Parsed     int                   `json:"parsed"`
	Skipped    int                   `json:"skipped"`
	Boundaries int                   `json:"boundaries"`
	Blocks     []BlockSize           `json:"blocks"`
}

// Years returns the distinct years present in the filtered records, in order.
func (t *Table) Years() []int {
	var years []int
	for _, r := range t.Records {
		if len(years) == 0 || years[len(years)-1] != r.Year {
			years = append(years, r.Year)
		}
	}
	return years
}

type buildOptions struct {
	skipHeaderLines int
	observer        Observer
}

// Option configures BuildTable.
type Option func(*buildOptions)

// WithSkipHeaderLines sets how many leading metadata lines are discarded.
func WithSkipHeaderLines(n int) Option {
	return func(o *buildOptions) {
		if n >= 0 {
			o.skipHeaderLines = n
		}
	}
}

// WithObserver sets the diagnostics observer.
func WithObserver(obs Observer) Option {
	return func(o *buildOptions) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// BuildTable parses raw, labels every row with its season from catalog and
// keeps the rows whose year is in targetYears (all rows if targetYears is
// empty). Source order is preserved.
//
// Malformed rows are skipped and counted. If the data holds more season
// blocks than catalog has entries, a *CatalogExhaustedError is returned and
// no table is produced.
func BuildTable(raw string, catalog []int, targetYears YearSet, opts ...Option) (*Table, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	o := buildOptions{
		skipHeaderLines: DefaultSkipHeaderLines,
		observer:        NopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	table := &Table{Records: make([]AnnotatedGameRecord, 0)}
	var (
		tracker     seasonTracker
		blockRows   int
		checkHeader = true
	)

	closeBlock := func(index int) {
		year := catalog[index]
		table.Blocks = append(table.Blocks, BlockSize{Year: year, Rows: blockRows})
		if blockRows != SeasonLength {
			o.observer.BlockLengthMismatch(year, blockRows, SeasonLength)
		}
		blockRows = 0
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if i < o.skipHeaderLines {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if checkHeader {
			checkHeader = false
			if isColumnHeader(fields) {
				continue
			}
		}

		lineNo := i + 1
		rec, err := ParseRecord(fields)
		if err != nil {
			table.Skipped++
			o.observer.RecordSkipped(&RecordParseError{Line: lineNo, Fields: len(fields), Err: err})
			continue
		}
		table.Parsed++

		prev := tracker.index
		index := tracker.advance(rec.Week)
		if index >= len(catalog) {
			return nil, &CatalogExhaustedError{
				Boundaries:  tracker.boundaries,
				CatalogSize: len(catalog),
				Line:        lineNo,
			}
		}
		if tracker.state == boundaryCrossed {
			closeBlock(prev)
			o.observer.SeasonBoundary(index, catalog[index], lineNo)
		}
		blockRows++

		year := catalog[index]
		if targetYears.Contains(year) {
			table.Records = append(table.Records, AnnotatedGameRecord{GameRecord: rec, Year: year, Line: lineNo})
		}
	}

	if table.Parsed > 0 {
		closeBlock(tracker.index)
	}
	table.Boundaries = tracker.boundaries

	return table, nil
}
