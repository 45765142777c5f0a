package logger

import (
	"fmt"
	"sync"
)

// Entry is a captured log line.
type Entry struct {
	Level  string
	Msg    string
	Fields map[string]any
}

// Recorder keeps every log line in memory. Tests use it to assert that
// corrections and rejections were reported.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) add(level, msg string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: fields})
}

func (r *Recorder) Debugf(format string, args ...any) {
	r.add("debug", fmt.Sprintf(format, args...), nil)
}

func (r *Recorder) Debugw(msg string, fields map[string]any) {
	r.add("debug", msg, fields)
}

func (r *Recorder) Infof(format string, args ...any) {
	r.add("info", fmt.Sprintf(format, args...), nil)
}

func (r *Recorder) Warnf(format string, args ...any) {
	r.add("warn", fmt.Sprintf(format, args...), nil)
}

func (r *Recorder) Warnw(msg string, fields map[string]any) {
	r.add("warn", msg, fields)
}

func (r *Recorder) Errorf(format string, args ...any) {
	r.add("error", fmt.Sprintf(format, args...), nil)
}

// Entries returns a copy of the captured lines.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Warnings returns the captured warning messages.
func (r *Recorder) Warnings() []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == "warn" {
			out = append(out, e.Msg)
		}
	}
	return out
}
