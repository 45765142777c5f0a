// Package app wires the configured collectors to the record sinks: quality
// checks, metrics, error monitoring and the MQTT emitter.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/gridfeed/config"
	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/connectors/factory"
	coremetrics "github.com/kilianp07/gridfeed/core/metrics"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/monitoring"
	coremqtt "github.com/kilianp07/gridfeed/core/mqtt"
	"github.com/kilianp07/gridfeed/core/validation"
	"github.com/kilianp07/gridfeed/infra/logger"
	_ "github.com/kilianp07/gridfeed/infra/metrics"
	"github.com/kilianp07/gridfeed/infra/mqtt"
	"github.com/kilianp07/gridfeed/infra/transport"
)

// Service runs collectors and hands their records to the configured sinks.
type Service struct {
	Registry *factory.Registry
	Zones    *config.Zones
	sink     coremetrics.MetricsSink
	pub      coremqtt.Publisher
	log      logger.Logger
	now      func() time.Time
}

// New creates a Service from the configuration. Records are published to
// MQTT only when publish is set and a broker is configured.
func New(cfg *config.Config, publish bool) (*Service, error) {
	logg := logger.New("service")
	zones, err := config.LoadZones(cfg.Zones)
	if err != nil {
		return nil, fmt.Errorf("zones: %w", err)
	}
	session, err := transport.NewSession(transport.Config{
		Timeout:   cfg.HTTP.Timeout(),
		UserAgent: cfg.HTTP.UserAgent,
	}, logger.New("http"))
	if err != nil {
		return nil, fmt.Errorf("http session: %w", err)
	}
	reg, err := factory.NewRegistry(zones, factory.NewSources(cfg, session).Functions())
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	var pub coremqtt.Publisher
	if publish {
		if !cfg.MQTT.Enabled() {
			return nil, fmt.Errorf("publishing requires an mqtt broker")
		}
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = p
	}
	return newService(reg, zones, sink, pub, logg), nil
}

func newService(reg *factory.Registry, zones *config.Zones, sink coremetrics.MetricsSink, pub coremqtt.Publisher, logg logger.Logger) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Service{Registry: reg, Zones: zones, sink: sink, pub: pub, log: logg, now: time.Now}
}

// Request selects one collector run.
type Request struct {
	Kind model.Kind
	// Key is a zone or an "A->B" pair.
	Key string
	// Ref overrides the parser configured for Key.
	Ref    string
	Target time.Time
}

// Result is the outcome of a collector run.
type Result struct {
	Ref      string
	Records  []model.Record
	Issues   []coremetrics.QualityIssue
	Duration time.Duration
}

// Fetch runs the collector selected by req. Records failing a quality check
// are reported as issues and left out of the result and of the published
// messages.
func (s *Service) Fetch(ctx context.Context, req Request) (*Result, error) {
	f, ref, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	source, _, _ := config.SplitRef(ref)

	opts := []connectors.Option{connectors.WithLogger(logger.New(source))}
	if !req.Target.IsZero() {
		opts = append(opts, connectors.WithTargetTime(req.Target))
	}
	start := s.now()
	recs, err := f(ctx, req.Key, opts...)
	res := &Result{Ref: ref, Duration: s.now().Sub(start)}
	if err != nil {
		monitoring.CaptureFetchError(err, source, req.Kind.String(), req.Key)
		s.record(coremetrics.FetchResult{Source: source, Kind: req.Kind.String(), Zone: req.Key, Duration: res.Duration, Err: err})
		return res, err
	}

	res.Records, res.Issues = s.check(req, recs)
	s.record(coremetrics.FetchResult{
		Source:   source,
		Kind:     req.Kind.String(),
		Zone:     req.Key,
		Records:  len(res.Records),
		Dropped:  len(res.Issues),
		Duration: res.Duration,
	})
	if qr, ok := s.sink.(coremetrics.QualityRecorder); ok {
		for _, issue := range res.Issues {
			if err := qr.RecordQualityIssue(issue); err != nil {
				s.log.Warnf("record quality issue: %v", err)
			}
		}
	}
	s.log.Infof("%s returned %d records for %s (%d rejected) in %s", ref, len(res.Records), req.Key, len(res.Issues), res.Duration)

	if s.pub != nil && len(res.Records) > 0 {
		if err := s.pub.Publish(ctx, req.Kind, res.Records); err != nil {
			return res, fmt.Errorf("publish: %w", err)
		}
	}
	return res, nil
}

func (s *Service) lookup(req Request) (connectors.Func, string, error) {
	if req.Ref != "" {
		f, err := s.Registry.Func(req.Ref)
		return f, req.Ref, err
	}
	return s.Registry.Lookup(req.Kind, req.Key)
}

// check applies the record quality checks of kinds describing the past.
// Forecasts and prices may legitimately lie in the future.
func (s *Service) check(req Request, recs []model.Record) ([]model.Record, []coremetrics.QualityIssue) {
	now := s.now().UTC()
	kept := make([]model.Record, 0, len(recs))
	var issues []coremetrics.QualityIssue
	for _, rec := range recs {
		var err error
		switch r := rec.(type) {
		case model.ProductionRecord:
			if req.Kind == model.KindProduction {
				err = validation.CheckProduction(r, model.ZoneKey(req.Key), now)
			}
		case model.ExchangeRecord:
			if req.Kind == model.KindExchange {
				key, perr := model.ParseExchangeKey(req.Key)
				if perr != nil {
					err = perr
				} else {
					err = validation.CheckExchange(r, key, now)
				}
			}
		case model.ConsumptionRecord:
			err = validation.CheckConsumption(r, model.ZoneKey(req.Key), now)
		}
		if err != nil {
			issues = append(issues, coremetrics.QualityIssue{
				Zone:   req.Key,
				Kind:   req.Kind.String(),
				Reason: err.Error(),
				Time:   rec.RecordTime(),
			})
			continue
		}
		kept = append(kept, rec)
	}
	return kept, issues
}

func (s *Service) record(res coremetrics.FetchResult) {
	if err := s.sink.RecordFetch(res); err != nil {
		s.log.Warnf("record metrics: %v", err)
	}
}

// Close flushes buffered metrics and disconnects the publisher.
func (s *Service) Close() error {
	if s.pub != nil {
		s.pub.Close()
	}
	monitoring.Flush(2 * time.Second)
	if f, ok := s.sink.(coremetrics.Flusher); ok {
		return f.Flush()
	}
	return nil
}
