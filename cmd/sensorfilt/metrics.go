package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	reloadSuccess = "success"
	reloadFailed  = "fail"
)

type metrics struct {
	samplesTotal   prometheus.Counter
	malformedTotal prometheus.Counter
	reloadsTotal   *prometheus.CounterVec
	lastInput      prometheus.Gauge
	lastOutput     prometheus.Gauge
	stages         prometheus.Gauge
	adjustedStages prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		samplesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "sensorfilt",
			Name:      "samples_total",
			Help:      "Total number of samples run through the filter chain.",
		}),
		malformedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "sensorfilt",
			Name:      "malformed_lines_total",
			Help:      "Total number of input lines that could not be parsed as an integer.",
		}),
		reloadsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "sensorfilt",
			Name:      "config_reloads_total",
			Help:      "Total number of filter chain reloads by result.",
		}, []string{"result"}),
		lastInput: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "sensorfilt",
			Name:      "last_input",
			Help:      "Most recent raw sample.",
		}),
		lastOutput: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "sensorfilt",
			Name:      "last_output",
			Help:      "Most recent filtered sample.",
		}),
		stages: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "sensorfilt",
			Name:      "chain_stages",
			Help:      "Number of stages in the active filter chain.",
		}),
		adjustedStages: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "sensorfilt",
			Name:      "chain_adjusted_stages",
			Help:      "Number of stages whose requested window length was clamped.",
		}),
	}
}

// serveMetrics exposes reg on /metrics at addr and returns a function that
// shuts the server down.
func serveMetrics(addr string, reg *prometheus.Registry, logger log.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		level.Info(logger).Log("msg", "HTTP server listening on "+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(logger).Log("msg", "metrics server failed", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
