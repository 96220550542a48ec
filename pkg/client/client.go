package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Client provides HTTP client functionality to communicate with a vigil daemon
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Config holds client configuration
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Logger   *slog.Logger // Optional logger for client operations
	TLS      *TLSClientConfig
	Insecure bool // Skip TLS verification
}

// TLSClientConfig holds TLS configuration for client
type TLSClientConfig struct {
	Enabled    bool   // Enable TLS
	CACert     string // CA certificate file path
	ServerName string // Server name for verification
	SkipVerify bool   // Skip certificate verification
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080/api",
		Timeout: 10 * time.Second,
	}
}

// FeedRequest carries the feed parameters. TimeoutMs nil means "not
// provided": the daemon arms with its default or keeps the current
// threshold.
type FeedRequest struct {
	TimeoutMs *int64 `json:"timeout_ms,omitempty"`
	Info      string `json:"info,omitempty"`
}

// FeedResponse is the daemon's reply to a feed call.
type FeedResponse struct {
	OK      bool `json:"ok"`
	Running bool `json:"running"`
}

// StopResponse is the daemon's reply to a stop call.
type StopResponse struct {
	OK bool `json:"ok"`
}

// Status is the watchdog state as reported by the daemon.
type Status struct {
	Running         bool  `json:"running"`
	TimeoutOccurred bool  `json:"timeout_occurred"`
	TimeoutMs       int64 `json:"timeout_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a new vigil API client with TLS support
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:8080/api"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	transport := &http.Transport{}
	if config.TLS != nil && config.TLS.Enabled || config.Insecure {
		tlsConfig, err := setupClientTLS(config)
		if err != nil {
			config.Logger.Error("TLS setup failed", "error", err)
		} else {
			transport.TLSClientConfig = tlsConfig
		}
	}

	return &Client{
		baseURL: config.BaseURL,
		logger:  config.Logger,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
	}
}

// IsReachable checks if the daemon is running and reachable
func (c *Client) IsReachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		c.logger.Debug("Failed to create request for reachability check", "error", err)
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("Daemon unreachable", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	isReachable := resp.StatusCode != http.StatusNotFound
	c.logger.Debug("Daemon reachability check", "reachable", isReachable, "status", resp.StatusCode)
	return isReachable
}

// Feed signals liveness to the daemon's watchdog.
func (c *Client) Feed(ctx context.Context, req FeedRequest) (FeedResponse, error) {
	c.logger.Debug("Feeding watchdog", "info", req.Info)

	data, err := json.Marshal(req)
	if err != nil {
		return FeedResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	var out FeedResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/feed", data, &out); err != nil {
		return FeedResponse{}, err
	}
	return out, nil
}

// Stop disarms the daemon's watchdog. OK is false when it was already idle.
func (c *Client) Stop(ctx context.Context, info string) (StopResponse, error) {
	c.logger.Debug("Stopping watchdog", "info", info)

	data, err := json.Marshal(map[string]string{"info": info})
	if err != nil {
		return StopResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	var out StopResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/stop", data, &out); err != nil {
		return StopResponse{}, err
	}
	return out, nil
}

// Status fetches the current watchdog state.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var out Status
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/status", nil, &out); err != nil {
		return Status{}, err
	}
	return out, nil
}

// setupClientTLS configures TLS settings for HTTP client
func setupClientTLS(config Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{}

	if config.Insecure {
		tlsConfig.InsecureSkipVerify = true
		return tlsConfig, nil
	}

	if config.TLS != nil {
		if config.TLS.SkipVerify {
			tlsConfig.InsecureSkipVerify = true
		}
		if config.TLS.ServerName != "" {
			tlsConfig.ServerName = config.TLS.ServerName
		}
		if config.TLS.CACert != "" {
			if err := loadCACert(tlsConfig, config.TLS.CACert); err != nil {
				return nil, fmt.Errorf("failed to load CA certificate: %w", err)
			}
		}
	}

	return tlsConfig, nil
}

// loadCACert loads CA certificate from file and adds it to TLS config
func loadCACert(tlsConfig *tls.Config, caCertPath string) error {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return fmt.Errorf("failed to read CA certificate file: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return fmt.Errorf("failed to parse CA certificate")
	}

	tlsConfig.RootCAs = caCertPool
	return nil
}

// doJSON performs an HTTP request and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("HTTP request failed", "error", err, "url", url)
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			c.logger.Error("Failed to decode error response", "status", resp.StatusCode)
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		c.logger.Error("API request failed", "error", errResp.Error, "status", resp.StatusCode)
		return fmt.Errorf("API error: %s", errResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
