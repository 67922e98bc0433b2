package football

import (
	"errors"
	"fmt"
)

// SeasonLength is the expected number of games in one season block.
const SeasonLength = 224

// DefaultSeasonCatalog lists the seasons present in the football dataset, in
// file order. 1982 and 1987 are absent from the source data.
var DefaultSeasonCatalog = []int{1981, 1983, 1984, 1985, 1986, 1988, 1989, 1990, 1991, 1992}

// ErrEmptyCatalog is returned when BuildTable is given no season labels.
var ErrEmptyCatalog = errors.New("season catalog is empty")

// CatalogExhaustedError is returned when the data contains more season
// blocks than the catalog has labels.
type CatalogExhaustedError struct {
	Boundaries  int
	CatalogSize int
	Line        int
}

func (e *CatalogExhaustedError) Error() string {
	return fmt.Sprintf("season catalog exhausted at line %d: %d boundaries detected but catalog has %d entries",
		e.Line, e.Boundaries, e.CatalogSize)
}

type trackerState int

const (
	withinBlock trackerState = iota
	boundaryCrossed
)

func (s trackerState) String() string {
	switch s {
	case withinBlock:
		return "within-block"
	case boundaryCrossed:
		return "boundary-just-crossed"
	default:
		return fmt.Sprintf("trackerState(%d)", int(s))
	}
}

// seasonTracker is the two-state machine that assigns season indexes from
// the week column. A boundary is a week of 1 following any week other than 1.
// The first record never counts as a boundary, so a file that does not start
// at week 1 is labelled with the first catalog entry regardless.
type seasonTracker struct {
	state      trackerState
	index      int
	prevWeek   int
	hasPrev    bool
	boundaries int
}

// advance feeds the next week value and returns the season index it belongs to.
func (t *seasonTracker) advance(week int) int {
	if t.hasPrev && t.prevWeek != 1 && week == 1 {
		t.state = boundaryCrossed
		t.index++
		t.boundaries++
	} else {
		t.state = withinBlock
	}
	t.prevWeek = week
	t.hasPrev = true
	return t.index
}
