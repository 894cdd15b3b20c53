package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aguepe1/Fleet-Simulator/core/factory"
	coremetrics "github.com/aguepe1/Fleet-Simulator/core/metrics"
)

// influxConfig is the conf block of an "influx" sink.
type influxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

func (c influxConfig) validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("influx sink: url is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("influx sink: bucket is required"))
	}
	return errors.Join(errs...)
}

func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	// conf: {namespace: fleetsim}. Metrics go to the default registerer
	// served on /metrics.
	_ = coremetrics.RegisterMetricsSink("prometheus", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c coremetrics.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPromSinkWithRegistry(c, prometheus.DefaultRegisterer)
	})

	// An unreachable server degrades to NopSink so a search never fails on
	// metrics.
	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c influxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
