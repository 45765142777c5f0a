package metrics

import (
	"errors"
	"fmt"

	coremetrics "github.com/kilianp07/gridfeed/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records fetch results in Prometheus metrics.
type PromSink struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	records  *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	quality  *prometheus.CounterVec

	gatherer prometheus.Gatherer
	textfile string
}

// PromOption customises a PromSink.
type PromOption func(*PromSink)

// WithTextfile makes Flush write every metric of gatherer to path in the
// node_exporter textfile format. One-shot CLI runs use it instead of an
// HTTP endpoint.
func WithTextfile(path string, gatherer prometheus.Gatherer) PromOption {
	return func(s *PromSink) {
		s.textfile = path
		s.gatherer = gatherer
	}
}

// NewPromSink registers fetch metrics on the default Prometheus registerer.
func NewPromSink(opts ...PromOption) (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer, opts...)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer, opts ...PromOption) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := []string{"source", "kind", "zone"}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridfeed_fetch_total",
		Help: "Total number of collector invocations",
	}, append(labels, "status"))
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridfeed_fetch_duration_seconds",
		Help:    "Duration of collector invocations",
		Buckets: prometheus.DefBuckets,
	}, labels)
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridfeed_records_total",
		Help: "Records emitted by collectors",
	}, labels)
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridfeed_records_dropped_total",
		Help: "Records rejected by validation",
	}, labels)
	quality := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridfeed_quality_issues_total",
		Help: "Records failing a quality check",
	}, []string{"kind", "zone"})

	var err error
	if fetches, err = register(reg, fetches); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if records, err = register(reg, records); err != nil {
		return nil, err
	}
	if dropped, err = register(reg, dropped); err != nil {
		return nil, err
	}
	if quality, err = register(reg, quality); err != nil {
		return nil, err
	}

	s := &PromSink{fetches: fetches, duration: duration, records: records, dropped: dropped, quality: quality}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordFetch updates the counters and the duration histogram.
func (s *PromSink) RecordFetch(res coremetrics.FetchResult) error {
	s.fetches.WithLabelValues(res.Source, res.Kind, res.Zone, res.Status()).Inc()
	s.duration.WithLabelValues(res.Source, res.Kind, res.Zone).Observe(res.Duration.Seconds())
	s.records.WithLabelValues(res.Source, res.Kind, res.Zone).Add(float64(res.Records))
	if res.Dropped > 0 {
		s.dropped.WithLabelValues(res.Source, res.Kind, res.Zone).Add(float64(res.Dropped))
	}
	return nil
}

// RecordQualityIssue counts a failed quality check.
func (s *PromSink) RecordQualityIssue(issue coremetrics.QualityIssue) error {
	s.quality.WithLabelValues(issue.Kind, issue.Zone).Inc()
	return nil
}

// Flush writes the textfile when one is configured.
func (s *PromSink) Flush() error {
	if s.textfile == "" || s.gatherer == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.textfile, s.gatherer); err != nil {
		return fmt.Errorf("write textfile: %w", err)
	}
	return nil
}
