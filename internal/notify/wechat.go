package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const wechatAPIBase = "https://qyapi.weixin.qq.com"

// WeChat sends messages through an Enterprise WeChat group robot webhook.
type WeChat struct {
	client  *http.Client
	baseURL string
	key     string
}

func NewWeChat(webhookKey string) (*WeChat, error) {
	if webhookKey == "" {
		return nil, errors.New("wechat requires webhook_key")
	}
	return &WeChat{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: wechatAPIBase,
		key:     webhookKey,
	}, nil
}

func (w *WeChat) Send(ctx context.Context, text string) error {
	body, _ := json.Marshal(map[string]any{
		"msgtype": "text",
		"text":    map[string]string{"content": text},
	})
	u := fmt.Sprintf("%s/cgi-bin/webhook/send?key=%s", w.baseURL, w.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wechat status %d", resp.StatusCode)
	}
	var out struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("wechat response: %w", err)
	}
	if out.ErrCode != 0 {
		return fmt.Errorf("wechat errcode %d: %s", out.ErrCode, out.ErrMsg)
	}
	return nil
}
