package football

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestBuildTable_TwoSeasons(t *testing.T) {
	raw := buildRaw(seasonRows(0), seasonRows(1000))
	catalog := []int{1981, 1983}

	tests := []struct {
		name      string
		years     YearSet
		wantLen   int
		wantYears []int
		wantFirst int // favorite score of first output row
	}{
		{name: "first season only", years: NewYearSet(1981), wantLen: 224, wantYears: []int{1981}, wantFirst: 0},
		{name: "second season only", years: NewYearSet(1983), wantLen: 224, wantYears: []int{1983}, wantFirst: 1000},
		{name: "empty set keeps all", years: NewYearSet(), wantLen: 448, wantYears: []int{1981, 1983}, wantFirst: 0},
		{name: "unknown year", years: NewYearSet(1999), wantLen: 0, wantYears: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := BuildTable(raw, catalog, tt.years)
			if err != nil {
				t.Fatalf("BuildTable() error = %v", err)
			}

			if len(table.Records) != tt.wantLen {
				t.Fatalf("len(Records) = %d, want %d", len(table.Records), tt.wantLen)
			}
			if !reflect.DeepEqual(table.Years(), tt.wantYears) {
				t.Errorf("Years() = %v, want %v", table.Years(), tt.wantYears)
			}
			if tt.wantLen > 0 && table.Records[0].FavoriteScore != tt.wantFirst {
				t.Errorf("first record favorite = %d, want %d", table.Records[0].FavoriteScore, tt.wantFirst)
			}
			if table.Parsed != 448 {
				t.Errorf("Parsed = %d, want 448", table.Parsed)
			}
			if table.Boundaries != 1 {
				t.Errorf("Boundaries = %d, want 1", table.Boundaries)
			}
		})
	}
}

func TestBuildTable_MatchesSourceRows(t *testing.T) {
	second := seasonRows(1000)
	raw := buildRaw(seasonRows(0), second)

	table, err := BuildTable(raw, []int{1981, 1983}, NewYearSet(1983))
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}

	for i, rec := range table.Records {
		want, err := ParseRecord(strings.Fields(second[i]))
		if err != nil {
			t.Fatalf("ParseRecord(%q) error = %v", second[i], err)
		}
		if rec.GameRecord != want {
			t.Fatalf("record %d = %+v, want %+v", i, rec.GameRecord, want)
		}
		if rec.Year != 1983 {
			t.Fatalf("record %d year = %d, want 1983", i, rec.Year)
		}
		// 7 preamble lines + 224 first-season rows + 1-based index
		if rec.Line != 7+224+i+1 {
			t.Fatalf("record %d line = %d, want %d", i, rec.Line, 7+224+i+1)
		}
	}
}

func TestBuildTable_MalformedRecordSkipped(t *testing.T) {
	first := seasonRows(0)
	rows := append([]string{}, first[:100]...)
	rows = append(rows, "1 21 14 3.5 DAL NYG") // six fields
	rows = append(rows, first[100:]...)

	obs := &recordingObserver{}
	table, err := BuildTable(buildRaw(rows, seasonRows(1000)), []int{1981, 1983}, nil, WithObserver(obs))
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}

	if table.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", table.Skipped)
	}
	if len(table.Records) != 448 {
		t.Errorf("len(Records) = %d, want 448", len(table.Records))
	}
	if len(obs.skipped) != 1 {
		t.Fatalf("observer saw %d skipped records, want 1", len(obs.skipped))
	}
	if obs.skipped[0].Line != 7+100+1 {
		t.Errorf("skipped line = %d, want %d", obs.skipped[0].Line, 7+100+1)
	}
	if obs.skipped[0].Fields != 6 {
		t.Errorf("skipped fields = %d, want 6", obs.skipped[0].Fields)
	}
	if len(obs.mismatches) != 0 {
		t.Errorf("unexpected block length mismatches: %v", obs.mismatches)
	}
}

func TestBuildTable_CatalogExhausted(t *testing.T) {
	raw := buildRaw(seasonRows(0), seasonRows(1000), seasonRows(2000))

	table, err := BuildTable(raw, []int{1981}, nil)
	if table != nil {
		t.Errorf("BuildTable() table = %v, want nil", table)
	}

	var exhausted *CatalogExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("BuildTable() error = %v, want *CatalogExhaustedError", err)
	}
	if exhausted.CatalogSize != 1 {
		t.Errorf("CatalogSize = %d, want 1", exhausted.CatalogSize)
	}
	if exhausted.Boundaries != 1 {
		t.Errorf("Boundaries = %d, want 1 (fails at the first unlabelled block)", exhausted.Boundaries)
	}
	if exhausted.Line != 7+224+1 {
		t.Errorf("Line = %d, want %d", exhausted.Line, 7+224+1)
	}
}

func TestBuildTable_EdgeCases(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		_, err := BuildTable(buildRaw(seasonRows(0)), nil, nil)
		if !errors.Is(err, ErrEmptyCatalog) {
			t.Errorf("error = %v, want ErrEmptyCatalog", err)
		}
	})

	t.Run("no data records", func(t *testing.T) {
		table, err := BuildTable(testPreamble, []int{1981}, nil)
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if len(table.Records) != 0 || table.Parsed != 0 || len(table.Blocks) != 0 {
			t.Errorf("table = %+v, want empty", table)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		table, err := BuildTable("", []int{1981}, nil)
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if len(table.Records) != 0 {
			t.Errorf("len(Records) = %d, want 0", len(table.Records))
		}
	})

	t.Run("column header row consumed", func(t *testing.T) {
		rows := append([]string{"home favorite underdog spread favorite.name underdog.name week"}, seasonRows(0)...)
		table, err := BuildTable(buildRaw(rows), []int{1981}, nil)
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if table.Skipped != 0 || table.Parsed != 224 {
			t.Errorf("Skipped = %d, Parsed = %d, want 0 and 224", table.Skipped, table.Parsed)
		}
	})

	t.Run("first block not starting at week 1", func(t *testing.T) {
		rows := seasonRows(0)[14:] // starts at week 2
		table, err := BuildTable(buildRaw(rows), []int{1981}, nil)
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if table.Boundaries != 0 {
			t.Errorf("Boundaries = %d, want 0", table.Boundaries)
		}
		if len(table.Records) != 210 || table.Records[0].Year != 1981 {
			t.Errorf("got %d records, first year %d", len(table.Records), table.Records[0].Year)
		}
	})

	t.Run("custom header skip", func(t *testing.T) {
		raw := "only header\n" + strings.Join(seasonRows(0), "\n")
		table, err := BuildTable(raw, []int{1981}, nil, WithSkipHeaderLines(1))
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if table.Parsed != 224 {
			t.Errorf("Parsed = %d, want 224", table.Parsed)
		}
	})

	t.Run("windows line endings", func(t *testing.T) {
		raw := strings.ReplaceAll(buildRaw(seasonRows(0)), "\n", "\r\n")
		table, err := BuildTable(raw, []int{1981}, nil)
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if table.Parsed != 224 || table.Skipped != 0 {
			t.Errorf("Parsed = %d, Skipped = %d", table.Parsed, table.Skipped)
		}
	})
}

func TestBuildTable_BlockLengthWarning(t *testing.T) {
	short := seasonRows(1000)[:200]
	obs := &recordingObserver{}

	table, err := BuildTable(buildRaw(seasonRows(0), short), []int{1981, 1983}, nil, WithObserver(obs))
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}

	wantBlocks := []BlockSize{{Year: 1981, Rows: 224}, {Year: 1983, Rows: 200}}
	if !reflect.DeepEqual(table.Blocks, wantBlocks) {
		t.Errorf("Blocks = %v, want %v", table.Blocks, wantBlocks)
	}
	if !reflect.DeepEqual(obs.mismatches, []BlockSize{{Year: 1983, Rows: 200}}) {
		t.Errorf("mismatches = %v", obs.mismatches)
	}
	if !reflect.DeepEqual(obs.boundaries, []int{1983}) {
		t.Errorf("boundaries = %v, want [1983]", obs.boundaries)
	}
}

func TestBuildTable_Properties(t *testing.T) {
	raw := buildRaw(seasonRows(0), seasonRows(1000), seasonRows(2000))
	catalog := DefaultSeasonCatalog

	first, err := BuildTable(raw, catalog, NewYearSet(1981, 1984))
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	second, err := BuildTable(raw, catalog, NewYearSet(1981, 1984))
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}

	t.Run("idempotent", func(t *testing.T) {
		if !reflect.DeepEqual(first, second) {
			t.Error("two builds of the same input differ")
		}
	})

	t.Run("output bounded by parsed rows", func(t *testing.T) {
		if len(first.Records) > first.Parsed {
			t.Errorf("len(Records) = %d > Parsed = %d", len(first.Records), first.Parsed)
		}
		if len(first.Records) != 448 {
			t.Errorf("len(Records) = %d, want 448", len(first.Records))
		}
	})

	t.Run("boundary law", func(t *testing.T) {
		all, err := BuildTable(raw, catalog, nil)
		if err != nil {
			t.Fatalf("BuildTable() error = %v", err)
		}
		if all.Boundaries != len(all.Years())-1 {
			t.Errorf("Boundaries = %d, distinct years = %d", all.Boundaries, len(all.Years()))
		}
	})

	t.Run("order preserved", func(t *testing.T) {
		for i := 1; i < len(first.Records); i++ {
			if first.Records[i].Line <= first.Records[i-1].Line {
				t.Fatalf("record %d out of order: line %d after %d", i, first.Records[i].Line, first.Records[i-1].Line)
			}
		}
	})
}
