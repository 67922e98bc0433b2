package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/bda-datasets/internal/football"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "test message",
			fields:  Fields{"key": "value"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "error occurred",
			err:     errors.New("test error"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(LevelInfo, &buf)
			logger.now = fixedClock

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			if logged := buf.Len() > 0; logged != tt.want {
				t.Fatalf("log() logged = %v, want %v", logged, tt.want)
			}
			if !tt.want {
				return
			}

			var entry LogEntry
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if entry.Timestamp != "2026-01-01T00:00:00Z" {
				t.Errorf("Timestamp = %q", entry.Timestamp)
			}
			if entry.Message != tt.message {
				t.Errorf("Message = %q, want %q", entry.Message, tt.message)
			}
			if tt.err != nil && entry.Error != tt.err.Error() {
				t.Errorf("Error = %q, want %q", entry.Error, tt.err.Error())
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(tt.minLevel, &buf).log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelInfo, false},
		{"DEBUG", LevelDebug, false},
		{" warning ", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewObserver(New(LevelDebug, &buf))

	obs.RecordSkipped(&football.RecordParseError{Line: 12, Fields: 6, Err: errors.New("bad")})
	obs.SeasonBoundary(1, 1983, 232)
	obs.BlockLengthMismatch(1983, 200, 224)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d log lines, want 3:\n%s", len(lines), buf.String())
	}

	var skipped LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &skipped); err != nil {
		t.Fatal(err)
	}
	if skipped.Level != string(LevelWarn) {
		t.Errorf("skipped level = %q, want WARN", skipped.Level)
	}
	// JSON numbers decode as float64
	if skipped.Fields["line"] != float64(12) {
		t.Errorf("skipped line field = %v, want 12", skipped.Fields["line"])
	}

	if !strings.Contains(lines[1], `"year":1983`) {
		t.Errorf("boundary entry missing year: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"rows":200`) {
		t.Errorf("mismatch entry missing rows: %s", lines[2])
	}
}

func TestDiscard(t *testing.T) {
	// must not panic
	Discard().Error("ignored", nil, errors.New("x"))
}
