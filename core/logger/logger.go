// Package logger records executed command lines as newline delimited JSON.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Entry is one executed command line.
type Entry struct {
	// TimestampMicros is the event time in microseconds since the epoch.
	TimestampMicros int64 `json:"timestamp_micros"`
	// Line is the raw input line as typed, before parsing.
	Line string `json:"line"`
}

// Logger appends session entries to a writer, one JSON object per line.
// Safe for concurrent use.
type Logger struct {
	mu sync.Mutex
	w  io.Writer

	now func() time.Time
}

// New creates a Logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// Command records one executed input line.
func (l *Logger) Command(line string) error {
	if l == nil {
		return nil
	}

	entry, err := json.Marshal(Entry{
		TimestampMicros: l.now().UnixNano() / int64(time.Microsecond),
		Line:            line,
	})
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = fmt.Fprintln(l.w, string(entry))
	return err
}
