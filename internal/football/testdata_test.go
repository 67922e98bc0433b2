package football

import (
	"fmt"
	"strings"
)

const testPreamble = `Football data
from Gelman et al.
line 3
line 4
line 5
line 6
line 7
`

// seasonRows returns SeasonLength rows with weeks 1..16, 14 games per week.
// The favorite score encodes the row's position so tests can match rows.
func seasonRows(offset int) []string {
	rows := make([]string, 0, SeasonLength)
	for i := 0; i < SeasonLength; i++ {
		week := i/14 + 1
		rows = append(rows, fmt.Sprintf("%d %d %d %.1f TM%d OP%d %d",
			i%2, offset+i, i%30, float64(i%15)+0.5, i%28, (i+3)%28, week))
	}
	return rows
}

func buildRaw(rows ...[]string) string {
	var b strings.Builder
	b.WriteString(testPreamble)
	for _, block := range rows {
		for _, r := range block {
			b.WriteString(r)
			b.WriteString("\n")
		}
	}
	return b.String()
}

type recordingObserver struct {
	skipped    []*RecordParseError
	boundaries []int
	mismatches []BlockSize
}

func (o *recordingObserver) RecordSkipped(err *RecordParseError) {
	o.skipped = append(o.skipped, err)
}

func (o *recordingObserver) SeasonBoundary(index, year, line int) {
	o.boundaries = append(o.boundaries, year)
}

func (o *recordingObserver) BlockLengthMismatch(year, rows, want int) {
	o.mismatches = append(o.mismatches, BlockSize{Year: year, Rows: rows})
}
