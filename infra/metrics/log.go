package metrics

import (
	"github.com/kilianp07/gridfeed/core/logger"
	coremetrics "github.com/kilianp07/gridfeed/core/metrics"
)

// LogSink writes fetch results as structured log lines.
type LogSink struct {
	log logger.Logger
}

// NewLogSink returns a LogSink. A nil logger discards everything.
func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &LogSink{log: log}
}

func (s *LogSink) RecordFetch(res coremetrics.FetchResult) error {
	fields := map[string]any{
		"source":      res.Source,
		"kind":        res.Kind,
		"zone":        res.Zone,
		"status":      res.Status(),
		"records":     res.Records,
		"dropped":     res.Dropped,
		"duration_ms": res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		fields["error"] = res.Err.Error()
		s.log.Warnw("fetch failed", fields)
		return nil
	}
	s.log.Debugw("fetch done", fields)
	return nil
}

func (s *LogSink) RecordQualityIssue(issue coremetrics.QualityIssue) error {
	s.log.Warnw("quality check failed", map[string]any{
		"zone":   issue.Zone,
		"kind":   issue.Kind,
		"reason": issue.Reason,
	})
	return nil
}
