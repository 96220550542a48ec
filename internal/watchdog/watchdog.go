package watchdog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/loykin/vigil/internal/history"
	"github.com/loykin/vigil/internal/metrics"
)

// DefaultTimeoutMs is the threshold applied when the first feed does not
// carry an explicit timeout.
const DefaultTimeoutMs int64 = 30000

// Clock returns the current time. Injected so timing logic is
// deterministic under test.
type Clock func() time.Time

// Dispatcher delivers an alert message across the configured notification
// channels. It reports whether any channel accepted the message.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) bool
}

// Watchdog tracks whether an external, periodically-reporting workload is
// still alive. It arms on the first Feed, re-arms the timer on every
// subsequent Feed, and flags expiry via Poll. Notify sends the timeout
// alert and auto-stops so a single episode produces exactly one alert.
//
// All state transitions are serialized by a per-instance mutex. Alert
// messages are built under the lock but dispatched after it is released,
// so a slow notification channel never stalls concurrent Feed/Poll calls.
type Watchdog struct {
	mu         sync.Mutex
	clock      Clock
	dispatcher Dispatcher
	logger     *slog.Logger
	sink       history.Sink

	defaultTimeoutMs int64

	running         bool
	timeoutSignaled bool
	timeoutMs       int64
	lastFeed        time.Time
	startInfo       string
}

// New constructs a watchdog wired to the given dispatcher. Instances are
// independent; callers own exactly one per monitored subject.
func New(d Dispatcher) *Watchdog {
	return &Watchdog{
		clock:            time.Now,
		dispatcher:       d,
		logger:           slog.Default(),
		defaultTimeoutMs: DefaultTimeoutMs,
	}
}

// SetDefaultTimeoutMs overrides the threshold used when the arming feed
// carries no explicit timeout. Values <= 0 are ignored.
func (w *Watchdog) SetDefaultTimeoutMs(ms int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ms > 0 {
		w.defaultTimeoutMs = ms
	}
}

// SetClock overrides the time source (tests).
func (w *Watchdog) SetClock(c Clock) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clock = c
}

// SetLogger overrides the diagnostics logger.
func (w *Watchdog) SetLogger(l *slog.Logger) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger = l
}

// SetHistorySink attaches an audit sink for lifecycle events. Sends are
// best-effort; sink errors are logged and never affect watchdog behavior.
func (w *Watchdog) SetHistorySink(s history.Sink) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sink = s
}

// Feed signals liveness. On an idle watchdog it arms: the threshold is
// timeoutMs when provided or DefaultTimeoutMs otherwise, and a started
// alert is emitted. On a running watchdog it resets the timer and clears
// the timeout latch; when timeoutMs is explicitly provided the threshold
// is updated and an update alert emitted. A nil timeoutMs means "not
// provided". Feed always returns true on a successful state update;
// notification failures never affect the result.
func (w *Watchdog) Feed(timeoutMs *int64, info string) bool {
	w.mu.Lock()
	now := w.clock()
	var alerts []string
	var events []history.Event

	if !w.running {
		threshold := w.defaultTimeoutMs
		if timeoutMs != nil {
			threshold = *timeoutMs
		}
		w.timeoutMs = threshold
		w.startInfo = info
		w.lastFeed = now
		w.running = true
		w.timeoutSignaled = false
		w.logger.Info("watchdog auto-started", "timeout_ms", threshold, "info", info)
		alerts = append(alerts, startMessage(threshold, info, now))
		events = append(events, history.Event{Type: history.EventStarted, OccurredAt: now, Info: info, TimeoutMs: threshold})
		metrics.IncStart()
		metrics.SetRunning(true)
	} else {
		w.lastFeed = now
		w.timeoutSignaled = false
		w.logger.Debug("watchdog fed", "at", now.Format(timeLayout))
		events = append(events, history.Event{Type: history.EventFed, OccurredAt: now, TimeoutMs: w.timeoutMs})
		if timeoutMs != nil {
			old := w.timeoutMs
			w.timeoutMs = *timeoutMs
			w.logger.Info("watchdog timeout updated", "old_ms", old, "new_ms", *timeoutMs, "info", info)
			alerts = append(alerts, updateMessage(old, *timeoutMs, info, now))
			events = append(events, history.Event{Type: history.EventTimeoutUpdated, OccurredAt: now, Info: info, TimeoutMs: *timeoutMs})
		}
	}
	w.mu.Unlock()

	metrics.IncFeed()
	for _, a := range alerts {
		w.dispatch(a)
	}
	w.record(events)
	return true
}

// Poll reports whether a timeout should be acted on. It is pure
// detection: it never sends notifications and never changes running.
// The internal latch guarantees at most one true result per timeout
// episode; repeated polls before the next feed or stop return false.
func (w *Watchdog) Poll() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return false
	}
	if w.lastFeed.IsZero() {
		return true
	}
	elapsed := w.clock().Sub(w.lastFeed)
	expired := elapsed > time.Duration(w.timeoutMs)*time.Millisecond
	if expired && !w.timeoutSignaled {
		w.timeoutSignaled = true
		w.logger.Debug("watchdog timeout detected", "elapsed_ms", durationMs(elapsed), "timeout_ms", w.timeoutMs)
		metrics.IncTimeout()
		return true
	}
	w.logger.Debug("watchdog poll", "elapsed_ms", durationMs(elapsed), "timeout_ms", w.timeoutMs,
		"expired", expired, "already_signaled", w.timeoutSignaled)
	return false
}

// Notify sends the timeout alert and auto-stops the watchdog. The
// transition to idle happens regardless of notification outcome, so a
// single timeout episode never produces repeated alerts. Returns the
// dispatcher's result for the timeout alert; false when idle.
func (w *Watchdog) Notify() bool {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return false
	}
	now := w.clock()
	var elapsedMs float64
	if !w.lastFeed.IsZero() {
		elapsedMs = durationMs(now.Sub(w.lastFeed))
	}
	alert := timeoutMessage(w.startInfo, w.timeoutMs, elapsedMs, w.lastFeed, now)
	stopped := stopMessage("Timeout occurred", now)
	info := w.startInfo
	timeoutMs := w.timeoutMs
	w.running = false
	w.timeoutSignaled = false
	w.logger.Info("watchdog timeout alert, auto-stopping", "elapsed_ms", elapsedMs, "timeout_ms", timeoutMs)
	w.mu.Unlock()

	sent := w.dispatch(alert)
	w.dispatch(stopped)
	metrics.IncStop()
	metrics.SetRunning(false)
	w.record([]history.Event{
		{Type: history.EventTimeout, OccurredAt: now, Info: info, TimeoutMs: timeoutMs, ElapsedMs: elapsedMs, Delivered: sent},
		{Type: history.EventStopped, OccurredAt: now, Info: "Timeout occurred", TimeoutMs: timeoutMs},
	})
	return sent
}

// ManualStop disarms a running watchdog and emits a stopped alert with
// the given reason. Returns false without side effects when idle.
func (w *Watchdog) ManualStop(info string) bool {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.logger.Debug("watchdog is not running")
		return false
	}
	now := w.clock()
	reason := "Manual stop - " + info
	msg := stopMessage(reason, now)
	timeoutMs := w.timeoutMs
	w.running = false
	w.timeoutSignaled = false
	w.logger.Info("watchdog stopped", "reason", reason)
	w.mu.Unlock()

	w.dispatch(msg)
	metrics.IncStop()
	metrics.SetRunning(false)
	w.record([]history.Event{{Type: history.EventStopped, OccurredAt: now, Info: reason, TimeoutMs: timeoutMs}})
	return true
}

// IsRunning reports whether the watchdog is armed.
func (w *Watchdog) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// TimeoutOccurred reports whether a timeout has been detected and not
// yet cleared by a feed or stop.
func (w *Watchdog) TimeoutOccurred() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timeoutSignaled
}

// CurrentTimeoutMs returns the configured threshold in milliseconds.
func (w *Watchdog) CurrentTimeoutMs() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timeoutMs
}

func (w *Watchdog) dispatch(text string) bool {
	if w.dispatcher == nil {
		return false
	}
	return w.dispatcher.Dispatch(context.Background(), text)
}

func (w *Watchdog) record(events []history.Event) {
	w.mu.Lock()
	sink := w.sink
	logger := w.logger
	w.mu.Unlock()
	if sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, e := range events {
		if err := sink.Send(ctx, e); err != nil {
			logger.Debug("history sink send failed", "event", string(e.Type), "error", err)
		}
	}
}
