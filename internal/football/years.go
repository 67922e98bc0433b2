package football

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// YearSet is a set of season years. The empty set selects every season.
type YearSet map[int]struct{}

// NewYearSet builds a YearSet from the given years.
func NewYearSet(years ...int) YearSet {
	s := make(YearSet, len(years))
	for _, y := range years {
		s[y] = struct{}{}
	}
	return s
}

// Contains reports whether year is selected. An empty set selects all years.
func (s YearSet) Contains(year int) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[year]
	return ok
}

// Sorted returns the years in ascending order.
func (s YearSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for y := range s {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// ParseYears parses a comma-separated list of years and inclusive ranges.
//
// Supported formats:
//   - "1981"
//   - "1981,1983"
//   - "1983-1986"
//   - "1981, 1988-1990"
//
// An empty string yields an empty set (all seasons).
func ParseYears(input string) (YearSet, error) {
	set := make(YearSet)
	input = strings.TrimSpace(input)
	if input == "" {
		return set, nil
	}

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		from, to, isRange := strings.Cut(part, "-")
		if !isRange {
			y, err := parseYear(part)
			if err != nil {
				return nil, err
			}
			set[y] = struct{}{}
			continue
		}

		start, err := parseYear(strings.TrimSpace(from))
		if err != nil {
			return nil, err
		}
		end, err := parseYear(strings.TrimSpace(to))
		if err != nil {
			return nil, err
		}
		if start > end {
			return nil, fmt.Errorf("invalid year range %q: start after end", part)
		}
		for y := start; y <= end; y++ {
			set[y] = struct{}{}
		}
	}

	return set, nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1000 || y > 9999 {
		return 0, fmt.Errorf("invalid year: %q", s)
	}
	return y, nil
}
