package poller

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Target is the watchdog surface the poller drives. Poll is cheap pure
// detection; Notify performs notification I/O and auto-stops.
type Target interface {
	Poll() bool
	Notify() bool
}

// Poller periodically checks a watchdog for expiry and triggers the
// timeout notification when Poll signals one. Detection latency is
// bounded by the interval. Use Start to launch the background ticker,
// and Stop to cancel it; a stopped poller can be started again.
type Poller struct {
	target   Target
	interval time.Duration
	logger   *slog.Logger

	// notify runs in its own goroutine. Poll signals at most once per
	// timeout episode, so a signal that arrives while a previous
	// notification is still in flight is kept pending and retried on
	// later ticks rather than dropped.
	notifying atomic.Bool
	pending   atomic.Bool

	mu   sync.Mutex
	quit chan struct{}
	done chan struct{}
}

func New(target Target, interval time.Duration) *Poller {
	return &Poller{target: target, interval: interval, logger: slog.Default()}
}

// SetLogger overrides the diagnostics logger.
func (p *Poller) SetLogger(l *slog.Logger) { p.logger = l }

// Start launches the polling loop. Call Stop to cancel.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quit != nil {
		return errors.New("poller already started")
	}
	if p.interval <= 0 {
		return errors.New("poll interval must be > 0")
	}
	p.quit = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(p.quit, p.done)
	return nil
}

func (p *Poller) run(quit, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-quit:
			return
		case <-t.C:
			if p.target.Poll() {
				p.pending.Store(true)
			}
			if !p.pending.Load() {
				continue
			}
			if !p.notifying.CompareAndSwap(false, true) {
				// previous notification still in flight; the pending
				// flag keeps the signal alive for the next tick
				continue
			}
			p.pending.Store(false)
			// run off the ticker goroutine so notification I/O never
			// delays subsequent polls
			go func() {
				defer p.notifying.Store(false)
				if !p.target.Notify() {
					p.logger.Warn("timeout alert could not be delivered on any channel")
				}
			}()
		}
	}
}

// Stop cancels the polling loop and waits for it to exit. It is a
// no-op on a poller that is not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	quit, done := p.quit, p.done
	p.quit, p.done = nil, nil
	p.mu.Unlock()
	if quit == nil {
		return
	}
	close(quit)
	<-done
}
