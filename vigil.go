package vigil

import (
	"net/http"
	"time"

	cfg "github.com/loykin/vigil/internal/config"
	"github.com/loykin/vigil/internal/history"
	hfactory "github.com/loykin/vigil/internal/history/factory"
	"github.com/loykin/vigil/internal/metrics"
	"github.com/loykin/vigil/internal/notify"
	"github.com/loykin/vigil/internal/poller"
	iapi "github.com/loykin/vigil/internal/server"
	"github.com/loykin/vigil/internal/watchdog"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Clock = watchdog.Clock

type Dispatcher = watchdog.Dispatcher

type Notifier = notify.Notifier

type NotifySource = notify.Source

type NotifyFactory = notify.Factory

type Router = notify.Router

type Config = cfg.Config

type HistoryEvent = history.Event

type HistorySink = history.Sink

// DefaultTimeoutMs is the threshold applied when the first feed does not
// carry an explicit timeout.
const DefaultTimeoutMs = watchdog.DefaultTimeoutMs

// Watchdog is a thin facade over internal/watchdog.Watchdog.
// It provides a stable public API for embedding.

type Watchdog struct{ inner *watchdog.Watchdog }

func New(d Dispatcher) *Watchdog { return &Watchdog{inner: watchdog.New(d)} }

func (w *Watchdog) SetClock(c Clock)             { w.inner.SetClock(c) }
func (w *Watchdog) SetHistorySink(s HistorySink) { w.inner.SetHistorySink(s) }
func (w *Watchdog) SetDefaultTimeoutMs(ms int64) { w.inner.SetDefaultTimeoutMs(ms) }

func (w *Watchdog) Feed(timeoutMs *int64, info string) bool {
	return w.inner.Feed(timeoutMs, info)
}

func (w *Watchdog) Poll() bool                  { return w.inner.Poll() }
func (w *Watchdog) Notify() bool                { return w.inner.Notify() }
func (w *Watchdog) ManualStop(info string) bool { return w.inner.ManualStop(info) }
func (w *Watchdog) IsRunning() bool             { return w.inner.IsRunning() }
func (w *Watchdog) TimeoutOccurred() bool       { return w.inner.TimeoutOccurred() }
func (w *Watchdog) CurrentTimeoutMs() int64     { return w.inner.CurrentTimeoutMs() }

// NewRouter builds the fallback notification router from a source and factory.
func NewRouter(source NotifySource, factory NotifyFactory) *Router {
	return notify.NewRouter(source, factory)
}

// Poller facade

type Poller struct{ inner *poller.Poller }

func NewPoller(w *Watchdog, interval time.Duration) *Poller {
	return &Poller{inner: poller.New(w.inner, interval)}
}

func (p *Poller) Start() error { return p.inner.Start() }
func (p *Poller) Stop()        { p.inner.Stop() }

func LoadConfig(path string) (*cfg.Config, error) {
	return cfg.LoadConfig(path)
}

// NewHTTPServer starts an HTTP server exposing the feed/stop/status API
// for the given watchdog.
func NewHTTPServer(addr, basePath string, w *Watchdog) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, w.inner)
}

// NewHistorySink creates an audit sink for lifecycle events from a DSN
// (sqlite, postgres, clickhouse, opensearch).
func NewHistorySink(dsn string) (HistorySink, error) {
	return hfactory.NewSinkFromDSN(dsn)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the default registry.
// It returns any immediate listen error; otherwise it runs the server in the caller goroutine.
// Each call uses its own mux, so the process-global DefaultServeMux is left untouched.
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
