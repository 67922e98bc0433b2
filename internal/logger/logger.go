// Package logger provides structured JSON logging for bda-datasets.
//
// Each entry is written as one JSON object per line with a timestamp, level,
// message, optional structured fields and an optional error string. Messages
// below the configured minimum level are discarded.
//
// Example usage:
//
//	log := logger.New(logger.LevelInfo, os.Stderr)
//	log.Info("dataset loaded", logger.Fields{
//	    "dataset": "football",
//	    "records": 2240,
//	})
//
// The table builder never logs on its own. Pass NewObserver(log) to it to
// turn its diagnostics into log entries.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/bda-datasets/internal/football"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a case-insensitive level name to a Level.
// Accepts debug, info, warn/warning and error. Empty means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return "", fmt.Errorf("unknown log level: %s", s)
	}
}

// Logger provides structured logging
type Logger struct {
	mu       sync.Mutex
	minLevel Level
	output   io.Writer
	now      func() time.Time
}

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// New creates a new logger with the specified minimum log level and output destination.
func New(level Level, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		minLevel: level,
		output:   output,
		now:      time.Now,
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(LevelError, io.Discard)
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.shouldLog(level) {
		return
	}

	entry := LogEntry{
		Timestamp: l.now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if marshalErr != nil {
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}
	fmt.Fprintln(l.output, string(data))
}

func (l *Logger) shouldLog(level Level) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
// Warning messages indicate potential issues that don't prevent operation.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Observer reports table-building diagnostics through a Logger.
type Observer struct {
	log *Logger
}

var _ football.Observer = (*Observer)(nil)

// NewObserver wraps log as a football.Observer.
func NewObserver(log *Logger) *Observer {
	return &Observer{log: log}
}

func (o *Observer) RecordSkipped(err *football.RecordParseError) {
	o.log.Warn("Skipping malformed record", Fields{
		"line":   err.Line,
		"fields": err.Fields,
	})
}

func (o *Observer) SeasonBoundary(index, year, line int) {
	o.log.Debug("Season boundary", Fields{
		"index": index,
		"year":  year,
		"line":  line,
	})
}

func (o *Observer) BlockLengthMismatch(year, rows, want int) {
	o.log.Warn("Unexpected season length", Fields{
		"year": year,
		"rows": rows,
		"want": want,
	})
}
