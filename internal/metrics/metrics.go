package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	watchdogFeeds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vigil",
			Subsystem: "watchdog",
			Name:      "feeds_total",
			Help:      "Number of feed calls.",
		},
	)
	watchdogStarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vigil",
			Subsystem: "watchdog",
			Name:      "starts_total",
			Help:      "Number of times the watchdog armed on first feed.",
		},
	)
	watchdogTimeouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vigil",
			Subsystem: "watchdog",
			Name:      "timeouts_total",
			Help:      "Number of detected timeout episodes.",
		},
	)
	watchdogStops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vigil",
			Subsystem: "watchdog",
			Name:      "stops_total",
			Help:      "Number of stops (manual or timeout auto-stop).",
		},
	)
	watchdogRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vigil",
			Subsystem: "watchdog",
			Name:      "running",
			Help:      "Whether the watchdog is currently armed (1) or idle (0).",
		},
	)

	notifyAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vigil",
			Subsystem: "notify",
			Name:      "attempts_total",
			Help:      "Number of per-channel send attempts.",
		}, []string{"channel"},
	)
	notifyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vigil",
			Subsystem: "notify",
			Name:      "failures_total",
			Help:      "Number of per-channel send failures.",
		}, []string{"channel"},
	)
	notifyDispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vigil",
			Subsystem: "notify",
			Name:      "dispatch_seconds",
			Help:      "Observed duration of full dispatch calls including fallback.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{watchdogFeeds, watchdogStarts, watchdogTimeouts, watchdogStops, watchdogRunning, notifyAttempts, notifyFailures, notifyDispatchDuration}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
// The caller is responsible for starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncFeed() {
	if regOK.Load() {
		watchdogFeeds.Inc()
	}
}

func IncStart() {
	if regOK.Load() {
		watchdogStarts.Inc()
	}
}

func IncTimeout() {
	if regOK.Load() {
		watchdogTimeouts.Inc()
	}
}

func IncStop() {
	if regOK.Load() {
		watchdogStops.Inc()
	}
}

func SetRunning(running bool) {
	if regOK.Load() {
		var v float64
		if running {
			v = 1
		}
		watchdogRunning.Set(v)
	}
}

func IncNotifyAttempt(channel string) {
	if regOK.Load() {
		notifyAttempts.WithLabelValues(channel).Inc()
	}
}

func IncNotifyFailure(channel string) {
	if regOK.Load() {
		notifyFailures.WithLabelValues(channel).Inc()
	}
}

func ObserveDispatchDuration(seconds float64) {
	if regOK.Load() {
		notifyDispatchDuration.Observe(seconds)
	}
}
