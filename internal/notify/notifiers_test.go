package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTelegramRequiresCredentials(t *testing.T) {
	if _, err := NewTelegram("", "chat"); err == nil {
		t.Fatal("expected error for missing bot token")
	}
	if _, err := NewTelegram("token", ""); err == nil {
		t.Fatal("expected error for missing chat id")
	}
}

func TestTelegramSend(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("token123", "chat456")
	require.NoError(t, err)
	tg.baseURL = srv.URL

	require.NoError(t, tg.Send(context.Background(), "alert text"))
	require.Equal(t, "/bottoken123/sendMessage", gotPath)
	require.Equal(t, "chat456", gotBody["chat_id"])
	require.Equal(t, "alert text", gotBody["text"])
}

func TestTelegramSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("t", "c")
	require.NoError(t, err)
	tg.baseURL = srv.URL

	err = tg.Send(context.Background(), "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "chat not found")
}

func TestTelegramSendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tg, err := NewTelegram("t", "c")
	require.NoError(t, err)
	tg.baseURL = srv.URL

	require.Error(t, tg.Send(context.Background(), "x"))
}

func TestNewWeChatRequiresKey(t *testing.T) {
	if _, err := NewWeChat(""); err == nil {
		t.Fatal("expected error for missing webhook key")
	}
}

func TestWeChatSend(t *testing.T) {
	var gotKey string
	var gotBody struct {
		MsgType string `json:"msgtype"`
		Text    struct {
			Content string `json:"content"`
		} `json:"text"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	defer srv.Close()

	wc, err := NewWeChat("key789")
	require.NoError(t, err)
	wc.baseURL = srv.URL

	require.NoError(t, wc.Send(context.Background(), "hello"))
	require.Equal(t, "key789", gotKey)
	require.Equal(t, "text", gotBody.MsgType)
	require.Equal(t, "hello", gotBody.Text.Content)
}

func TestWeChatSendErrCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errcode":93000,"errmsg":"invalid key"}`))
	}))
	defer srv.Close()

	wc, err := NewWeChat("bad")
	require.NoError(t, err)
	wc.baseURL = srv.URL

	err = wc.Send(context.Background(), "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid key")
}

func TestNewWebhookRequiresURL(t *testing.T) {
	if _, err := NewWebhook(""); err == nil {
		t.Fatal("expected error for missing url")
	}
}

func TestWebhookSend(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh, err := NewWebhook(srv.URL)
	require.NoError(t, err)

	require.NoError(t, wh.Send(context.Background(), "payload"))
	require.Equal(t, "payload", gotBody["text"])
	require.NotEmpty(t, gotBody["timestamp"])
}

func TestWebhookSendFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	wh, err := NewWebhook(srv.URL)
	require.NoError(t, err)
	require.Error(t, wh.Send(context.Background(), "x"))
}
