package notify

import (
	"context"
)

// Channel name identifiers. EnabledChannels sources enumerate channels
// using these names; the factory maps them to concrete notifiers.
const (
	ChannelTelegram = "telegram"
	ChannelWeChat   = "wechat"
	ChannelWebhook  = "webhook"
)

// Notifier is a single notification transport. Send returns an error on
// delivery failure; the router treats errors and panics alike as a
// failed attempt and falls through to the next channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Source exposes the notification configuration read at dispatch time:
// which channels are usable and which one to try first.
type Source interface {
	// DefaultChannel returns the preferred channel name, or "" when none
	// is configured.
	DefaultChannel() string
	// EnabledChannels returns usable channel names in their enumerated
	// fallback order.
	EnabledChannels() []string
}

// Factory builds a connected notifier handle for a channel name. The
// router calls it lazily, once per channel, and caches the result.
type Factory func(channel string) (Notifier, error)
