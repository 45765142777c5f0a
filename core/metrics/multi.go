package metrics

import "errors"

// MultiSink fans results out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordFetch forwards the result to all sinks, returning the first error encountered.
func (m *MultiSink) RecordFetch(res FetchResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordFetch(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordQualityIssue forwards the issue when supported by the sink.
func (m *MultiSink) RecordQualityIssue(issue QualityIssue) error {
	for _, s := range m.Sinks {
		if qr, ok := s.(QualityRecorder); ok {
			if err := qr.RecordQualityIssue(issue); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes every sink that buffers and joins their errors.
func (m *MultiSink) Flush() error {
	var errs []error
	for _, s := range m.Sinks {
		if f, ok := s.(Flusher); ok {
			errs = append(errs, f.Flush())
		}
	}
	return errors.Join(errs...)
}
