package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/loykin/vigil/pkg/client"
)

const defaultAPIUrl = "http://127.0.0.1:8080/api"

type command struct{}

func newAPIClient(apiUrl string, timeout time.Duration) *client.Client {
	if apiUrl == "" {
		apiUrl = defaultAPIUrl
	}
	return client.New(client.Config{BaseURL: apiUrl, Timeout: timeout})
}

// Feed signals liveness via the daemon API.
func (c command) Feed(f FeedFlags) error {
	api := newAPIClient(f.APIUrl, f.APITimeout)
	ctx, cancel := context.WithTimeout(context.Background(), f.APITimeout)
	defer cancel()

	if !api.IsReachable(ctx) {
		return fmt.Errorf("daemon not reachable - please start it first with 'vigil serve'")
	}

	req := client.FeedRequest{Info: f.Info}
	if f.TimeoutSet {
		if f.TimeoutMs < 0 {
			return fmt.Errorf("--timeout-ms must be >= 0")
		}
		t := f.TimeoutMs
		req.TimeoutMs = &t
	}
	resp, err := api.Feed(ctx, req)
	if err != nil {
		return err
	}
	printJSON(resp)
	return nil
}

// Stop disarms the watchdog via the daemon API.
func (c command) Stop(f StopFlags) error {
	api := newAPIClient(f.APIUrl, f.APITimeout)
	ctx, cancel := context.WithTimeout(context.Background(), f.APITimeout)
	defer cancel()

	if !api.IsReachable(ctx) {
		return fmt.Errorf("daemon not reachable - please start it first with 'vigil serve'")
	}

	resp, err := api.Stop(ctx, f.Info)
	if err != nil {
		return err
	}
	if !resp.OK {
		fmt.Println("watchdog was not running")
		return nil
	}
	printJSON(resp)
	return nil
}

// Status prints the watchdog state reported by the daemon API.
func (c command) Status(f StatusFlags) error {
	api := newAPIClient(f.APIUrl, f.APITimeout)
	ctx, cancel := context.WithTimeout(context.Background(), f.APITimeout)
	defer cancel()

	st, err := api.Status(ctx)
	if err != nil {
		return err
	}
	printJSON(st)
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
