// Package activity keeps the human-readable status log shown to the creator.
package activity

import (
	"fmt"
	"sync"
	"time"
)

const DefaultSize = 200

// Entry is one status line.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// String renders the entry the way the dashboard prints it: "[stamp] message".
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format("2006-01-02 15:04:05"), e.Message)
}

// Log is a bounded, newest-first list of entries. It is safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
	loc     *time.Location
	now     func() time.Time
}

// New creates a log holding at most size entries. A non-positive size uses DefaultSize.
func New(size int, loc *time.Location) *Log {
	if size <= 0 {
		size = DefaultSize
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Log{entries: make([]Entry, size), loc: loc, now: time.Now}
}

// Info appends a status line.
func (l *Log) Info(format string, args ...any) {
	l.add("info", fmt.Sprintf(format, args...))
}

// Error appends a failure line prefixed with "ERROR: ".
func (l *Log) Error(err error) {
	l.add("error", "ERROR: "+err.Error())
}

func (l *Log) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = Entry{Time: l.now().In(l.loc), Level: level, Message: msg}
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Entries returns up to limit entries, newest first. A non-positive limit returns all.
func (l *Log) Entries(limit int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := l.next
	if l.full {
		n = len(l.entries)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Entry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (l.next - 1 - i + len(l.entries)) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}
