package metrics

import "time"

// Fetch status labels.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// FetchResult describes one collector invocation.
type FetchResult struct {
	Source   string
	Kind     string
	Zone     string
	Records  int
	Dropped  int
	Duration time.Duration
	Err      error
}

// Status returns the status label of the result.
func (r FetchResult) Status() string {
	switch {
	case r.Err != nil:
		return StatusError
	case r.Records == 0:
		return StatusEmpty
	default:
		return StatusOK
	}
}

// MetricsSink records fetch results.
type MetricsSink interface {
	RecordFetch(res FetchResult) error
}

// QualityIssue is a record that failed a quality check after fetching.
type QualityIssue struct {
	Zone   string
	Kind   string
	Reason string
	Time   time.Time
}

// QualityRecorder is implemented by sinks able to count quality issues.
type QualityRecorder interface {
	RecordQualityIssue(issue QualityIssue) error
}

// Flusher is implemented by sinks that buffer until the run ends.
type Flusher interface {
	Flush() error
}

// NopSink implements every sink interface with no-op methods.
type NopSink struct{}

func (NopSink) RecordFetch(FetchResult) error         { return nil }
func (NopSink) RecordQualityIssue(QualityIssue) error { return nil }
func (NopSink) Flush() error                          { return nil }
