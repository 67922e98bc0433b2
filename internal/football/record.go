package football

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldCount is the number of whitespace-delimited columns in a data row.
const FieldCount = 7

// GameRecord is one row of the raw table, in file column order.
type GameRecord struct {
	Home          int     `json:"home"` // 1 if the favorite played at home
	FavoriteScore int     `json:"favorite"`
	UnderdogScore int     `json:"underdog"`
	Spread        float64 `json:"spread"`
	FavoriteName  string  `json:"favorite_name"`
	UnderdogName  string  `json:"underdog_name"`
	Week          int     `json:"week"`
}

// AnnotatedGameRecord is a GameRecord with its reconstructed season.
type AnnotatedGameRecord struct {
	GameRecord
	Year int `json:"year"`
	Line int `json:"-"` // 1-based line in the raw text
}

// RecordParseError describes a single row that could not be parsed.
// It is recoverable: the row is skipped and counted.
type RecordParseError struct {
	Line   int
	Fields int
	Err    error
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordParseError) Unwrap() error {
	return e.Err
}

// ParseRecord parses the fields of one data row.
func ParseRecord(fields []string) (GameRecord, error) {
	var rec GameRecord
	if len(fields) != FieldCount {
		return rec, fmt.Errorf("expected %d fields, got %d", FieldCount, len(fields))
	}

	var err error
	if rec.Home, err = parseInt("home", fields[0]); err != nil {
		return rec, err
	}
	if rec.Home != 0 && rec.Home != 1 {
		return rec, fmt.Errorf("home: must be 0 or 1, got %d", rec.Home)
	}
	if rec.FavoriteScore, err = parseScore("favorite", fields[1]); err != nil {
		return rec, err
	}
	if rec.UnderdogScore, err = parseScore("underdog", fields[2]); err != nil {
		return rec, err
	}
	if rec.Spread, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return rec, fmt.Errorf("spread: %w", err)
	}
	rec.FavoriteName = fields[4]
	rec.UnderdogName = fields[5]
	if rec.Week, err = parseInt("week", fields[6]); err != nil {
		return rec, err
	}
	if rec.Week < 1 {
		return rec, fmt.Errorf("week: must be >= 1, got %d", rec.Week)
	}

	return rec, nil
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func parseScore(name, s string) (int, error) {
	n, err := parseInt(name, s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: negative score %d", name, n)
	}
	return n, nil
}

// isColumnHeader reports whether fields look like the column-name row that
// follows the metadata preamble (e.g. "home favorite underdog ...").
func isColumnHeader(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(fields[0], 64)
	return err != nil && strings.EqualFold(fields[0], "home")
}
