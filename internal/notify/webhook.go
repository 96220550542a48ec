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

// Webhook POSTs the alert as JSON to an arbitrary HTTP endpoint. Any
// 2xx response counts as delivered.
type Webhook struct {
	client *http.Client
	url    string
}

func NewWebhook(url string) (*Webhook, error) {
	if url == "" {
		return nil, errors.New("webhook requires url")
	}
	return &Webhook{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}, nil
}

func (h *Webhook) Send(ctx context.Context, text string) error {
	body, _ := json.Marshal(map[string]string{
		"text":      text,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
