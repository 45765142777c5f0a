package metrics

import (
	"github.com/kilianp07/gridfeed/core/factory"
	coremetrics "github.com/kilianp07/gridfeed/core/metrics"
	"github.com/kilianp07/gridfeed/infra/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("log", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewLogSink(logger.New("metrics")), nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			Textfile string `json:"textfile"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Textfile == "" {
			return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
		}
		reg := prometheus.NewRegistry()
		return NewPromSinkWithRegistry(reg, WithTextfile(c.Textfile, reg))
	})
}
