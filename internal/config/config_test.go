package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loykin/vigil/internal/notify"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFull(t *testing.T) {
	path := writeConfig(t, `
[watchdog]
default_timeout_ms = 45000
poll_interval = "2s"

[log]
level = "debug"
file = "/tmp/vigil.log"
max_size_mb = 5

[notify]
default_channel = "wechat"

[notify.telegram]
bot_token = "tok"
chat_id = "chat"

[notify.wechat]
webhook_key = "key"

[notify.webhook]
url = "https://hooks.example.com/x"

[server]
listen = ":8080"
base_path = "/api"

[metrics]
enabled = true
listen = ":9090"

[history]
dsn = "sqlite:///tmp/history.db"
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, int64(45000), c.Watchdog.DefaultTimeoutMs)
	require.Equal(t, 2*time.Second, c.Watchdog.PollInterval)
	require.NotNil(t, c.Log)
	require.Equal(t, "debug", c.Log.Level)
	require.Equal(t, "wechat", c.Notify.DefaultChannel())
	require.NotNil(t, c.Server)
	require.Equal(t, ":8080", c.Server.Listen)
	require.Equal(t, "/api", c.Server.BasePath)
	require.NotNil(t, c.Metrics)
	require.True(t, c.Metrics.Enabled)
	require.NotNil(t, c.History)
	require.Equal(t, "sqlite:///tmp/history.db", c.History.DSN)

	require.Equal(t,
		[]string{notify.ChannelTelegram, notify.ChannelWeChat, notify.ChannelWebhook},
		c.Notify.EnabledChannels())
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
[watchdog]
default_timeout_ms = 0
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, time.Second, c.Watchdog.PollInterval)
	require.Empty(t, c.Notify.EnabledChannels())
	require.Nil(t, c.Server)
}

func TestLoadConfigRejectsNegativeTimeout(t *testing.T) {
	path := writeConfig(t, `
[watchdog]
default_timeout_ms = -1
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownDefaultChannel(t *testing.T) {
	path := writeConfig(t, `
[notify]
default_channel = "pager"
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "pager")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestEnabledChannelsRequireCompleteCredentials(t *testing.T) {
	n := NotifyConfig{
		Telegram: &TelegramConfig{BotToken: "tok"}, // chat id missing
		WeChat:   &WeChatConfig{WebhookKey: "key"},
	}
	require.Equal(t, []string{notify.ChannelWeChat}, n.EnabledChannels())
}

func TestNotifierFactory(t *testing.T) {
	n := NotifyConfig{
		Telegram: &TelegramConfig{BotToken: "tok", ChatID: "chat"},
		WeChat:   &WeChatConfig{WebhookKey: "key"},
		Webhook:  &WebhookConfig{URL: "https://example.com/hook"},
	}

	for _, ch := range []string{notify.ChannelTelegram, notify.ChannelWeChat, notify.ChannelWebhook} {
		got, err := n.Notifier(ch)
		require.NoError(t, err, ch)
		require.NotNil(t, got, ch)
	}

	_, err := n.Notifier("pager")
	require.Error(t, err)

	empty := NotifyConfig{}
	_, err = empty.Notifier(notify.ChannelTelegram)
	require.Error(t, err)
}

func TestLoggerConfigConversion(t *testing.T) {
	c := Config{Log: &LogConfig{Level: "warn", File: "/tmp/x.log", MaxSizeMB: 42, Compress: true}}
	lc := c.LoggerConfig()
	require.Equal(t, "warn", lc.Level)
	require.Equal(t, "/tmp/x.log", lc.File)
	require.Equal(t, 42, lc.MaxSizeMB)
	require.True(t, lc.Compress)

	var bare Config
	require.Zero(t, bare.LoggerConfig())
}
