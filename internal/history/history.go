package history

import (
	"context"
	"time"
)

// EventType defines the kind of watchdog lifecycle event.
type EventType string

const (
	EventStarted        EventType = "started"
	EventFed            EventType = "fed"
	EventTimeoutUpdated EventType = "timeout_updated"
	EventTimeout        EventType = "timeout"
	EventStopped        EventType = "stopped"
)

// Event represents a watchdog lifecycle event to be exported to external systems.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Info       string    `json:"info"`
	TimeoutMs  int64     `json:"timeout_ms"`
	ElapsedMs  float64   `json:"elapsed_ms"`
	Delivered  bool      `json:"delivered"`
}

// Sink is a destination for watchdog events (audit/statistics systems).
// Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
}
