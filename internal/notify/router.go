package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/loykin/vigil/internal/metrics"
)

// Router dispatches an alert message across the configured channels
// until one succeeds: the default channel first (when set and enabled),
// then the remaining enabled channels in their enumerated order, each at
// most once, with no retry or backoff. A channel-level failure is logged
// and never propagated to the caller.
type Router struct {
	mu        sync.Mutex
	source    Source
	factory   Factory
	logger    *slog.Logger
	notifiers map[string]Notifier
}

func NewRouter(source Source, factory Factory) *Router {
	return &Router{
		source:    source,
		factory:   factory,
		logger:    slog.Default(),
		notifiers: make(map[string]Notifier),
	}
}

// SetLogger overrides the diagnostics logger.
func (r *Router) SetLogger(l *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
}

// Dispatch attempts delivery of text. It returns true on the first
// channel success, false when no channels are enabled or every enabled
// channel failed.
func (r *Router) Dispatch(ctx context.Context, text string) bool {
	start := time.Now()
	defer func() { metrics.ObserveDispatchDuration(time.Since(start).Seconds()) }()

	enabled := r.source.EnabledChannels()
	def := r.source.DefaultChannel()
	order := tryOrder(def, enabled)
	r.log().Debug("notification dispatch", "default", def, "enabled", enabled, "order", order)

	if len(order) == 0 {
		r.log().Debug("notification failed: no enabled channels")
		return false
	}
	for _, ch := range order {
		res := r.attempt(ctx, ch, text)
		if res.err == nil {
			r.log().Debug("notification sent", "channel", ch)
			return true
		}
		metrics.IncNotifyFailure(ch)
		r.log().Warn("notification channel failed, trying next", "channel", ch, "error", res.err)
	}
	r.log().Warn("notification failed: all channels unable to send message")
	return false
}

// result is the outcome of one per-channel attempt. Keeping failures as
// data lets the fallback loop stay a plain walk over attempts.
type result struct {
	channel string
	err     error
}

func (r *Router) attempt(ctx context.Context, channel, text string) (res result) {
	res.channel = channel
	defer func() {
		if p := recover(); p != nil {
			res.err = fmt.Errorf("channel %s panicked: %v", channel, p)
		}
	}()
	n, err := r.notifier(channel)
	if err != nil {
		res.err = err
		return res
	}
	metrics.IncNotifyAttempt(channel)
	res.err = n.Send(ctx, text)
	return res
}

// notifier returns the cached handle for channel, creating it on first use.
func (r *Router) notifier(channel string) (Notifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifiers[channel]; ok {
		return n, nil
	}
	n, err := r.factory(channel)
	if err != nil {
		return nil, err
	}
	r.notifiers[channel] = n
	return n, nil
}

func (r *Router) log() *slog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logger
}

func tryOrder(def string, enabled []string) []string {
	order := make([]string, 0, len(enabled))
	if def != "" && slices.Contains(enabled, def) {
		order = append(order, def)
	}
	for _, ch := range enabled {
		if !slices.Contains(order, ch) {
			order = append(order, ch)
		}
	}
	return order
}
