// Package logging writes one JSON object per line, the format every component of
// the service logs in.
package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger stamps entries with the configured location and fills in a level when missing.
// It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
	loc *time.Location
	now func() time.Time
}

// New returns a Logger writing to out. A nil loc means UTC.
func New(out io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{out: out, loc: loc, now: time.Now}
}

// Default logs to stdout in UTC.
func Default() *Logger {
	return New(os.Stdout, time.UTC)
}

// Location returns the timezone the logger stamps entries in.
func (l *Logger) Location() *time.Location { return l.loc }

// Log writes data as a single JSON line. The map is modified in place.
func (l *Logger) Log(data map[string]any) {
	data["ts"] = l.now().In(l.loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal log entry: %v", err)
		return
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(b)
}

// Event is shorthand for a component/event/status entry with optional extra fields.
func (l *Logger) Event(component, event, status string, fields map[string]any) {
	data := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		data[k] = v
	}
	data["component"] = component
	data["event"] = event
	data["status"] = status
	l.Log(data)
}

// Error logs a failed event with its error message.
func (l *Logger) Error(component, event string, err error, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["error_message"] = err.Error()
	l.Event(component, event, "error", fields)
}
