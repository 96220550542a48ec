package config

import (
	"fmt"
	"time"

	"github.com/loykin/vigil/internal/logger"
	"github.com/loykin/vigil/internal/notify"
	"github.com/spf13/viper"
)

// Config is the top-level TOML structure consumed by the daemon.
type Config struct {
	Watchdog WatchdogConfig `toml:"watchdog" mapstructure:"watchdog"`
	Log      *LogConfig     `toml:"log" mapstructure:"log"`
	Notify   NotifyConfig   `toml:"notify" mapstructure:"notify"`
	Server   *ServerConfig  `toml:"server" mapstructure:"server"`
	Metrics  *MetricsConfig `toml:"metrics" mapstructure:"metrics"`
	History  *HistoryConfig `toml:"history" mapstructure:"history"`
}

type WatchdogConfig struct {
	DefaultTimeoutMs int64         `toml:"default_timeout_ms" mapstructure:"default_timeout_ms"`
	PollInterval     time.Duration `toml:"poll_interval" mapstructure:"poll_interval"`
}

type LogConfig struct {
	Level      string `toml:"level" mapstructure:"level"`
	File       string `toml:"file" mapstructure:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
	Color      bool   `toml:"color" mapstructure:"color"`
}

// NotifyConfig holds per-channel credentials and the fallback default.
// It implements the router's Source and builds notifiers for its Factory.
type NotifyConfig struct {
	Default  string          `toml:"default_channel" mapstructure:"default_channel"`
	Telegram *TelegramConfig `toml:"telegram" mapstructure:"telegram"`
	WeChat   *WeChatConfig   `toml:"wechat" mapstructure:"wechat"`
	Webhook  *WebhookConfig  `toml:"webhook" mapstructure:"webhook"`
}

type TelegramConfig struct {
	BotToken string `toml:"bot_token" mapstructure:"bot_token"`
	ChatID   string `toml:"chat_id" mapstructure:"chat_id"`
}

type WeChatConfig struct {
	WebhookKey string `toml:"webhook_key" mapstructure:"webhook_key"`
}

type WebhookConfig struct {
	URL string `toml:"url" mapstructure:"url"`
}

type ServerConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Listen  string `toml:"listen" mapstructure:"listen"`
}

type HistoryConfig struct {
	DSN string `toml:"dsn" mapstructure:"dsn"`
}

// LoadConfig parses a TOML config file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.Watchdog.DefaultTimeoutMs < 0 {
		return nil, fmt.Errorf("watchdog.default_timeout_ms must be >= 0, got %d", c.Watchdog.DefaultTimeoutMs)
	}
	if c.Watchdog.PollInterval <= 0 {
		c.Watchdog.PollInterval = time.Second
	}
	if c.Notify.Default != "" && !knownChannel(c.Notify.Default) {
		return nil, fmt.Errorf("unknown notify.default_channel %q", c.Notify.Default)
	}
	return &c, nil
}

// LoggerConfig converts the [log] section into the logger package config.
func (c *Config) LoggerConfig() logger.Config {
	lc := logger.Config{}
	if c.Log == nil {
		return lc
	}
	lc.Level = c.Log.Level
	lc.File = c.Log.File
	lc.MaxSizeMB = c.Log.MaxSizeMB
	lc.MaxBackups = c.Log.MaxBackups
	lc.MaxAgeDays = c.Log.MaxAgeDays
	lc.Compress = c.Log.Compress
	lc.Color = c.Log.Color
	return lc
}

// DefaultChannel implements notify.Source. The router ignores a default
// that is not currently enabled.
func (n *NotifyConfig) DefaultChannel() string { return n.Default }

// EnabledChannels implements notify.Source. A channel is enabled when its
// credentials are complete; enumeration order fixes the fallback order.
func (n *NotifyConfig) EnabledChannels() []string {
	var out []string
	if n.Telegram != nil && n.Telegram.BotToken != "" && n.Telegram.ChatID != "" {
		out = append(out, notify.ChannelTelegram)
	}
	if n.WeChat != nil && n.WeChat.WebhookKey != "" {
		out = append(out, notify.ChannelWeChat)
	}
	if n.Webhook != nil && n.Webhook.URL != "" {
		out = append(out, notify.ChannelWebhook)
	}
	return out
}

// Notifier builds the concrete transport for a channel name. Used as the
// router's Factory.
func (n *NotifyConfig) Notifier(channel string) (notify.Notifier, error) {
	switch channel {
	case notify.ChannelTelegram:
		if n.Telegram == nil {
			return nil, fmt.Errorf("telegram channel not configured")
		}
		return notify.NewTelegram(n.Telegram.BotToken, n.Telegram.ChatID)
	case notify.ChannelWeChat:
		if n.WeChat == nil {
			return nil, fmt.Errorf("wechat channel not configured")
		}
		return notify.NewWeChat(n.WeChat.WebhookKey)
	case notify.ChannelWebhook:
		if n.Webhook == nil {
			return nil, fmt.Errorf("webhook channel not configured")
		}
		return notify.NewWebhook(n.Webhook.URL)
	default:
		return nil, fmt.Errorf("unknown notification channel %q", channel)
	}
}

func knownChannel(name string) bool {
	switch name {
	case notify.ChannelTelegram, notify.ChannelWeChat, notify.ChannelWebhook:
		return true
	}
	return false
}
