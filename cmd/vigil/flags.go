package main

import "time"

const defaultAPITimeout = 10 * time.Second

// GlobalFlags holds minimal global/persistent flags for CLI commands
type GlobalFlags struct {
	ConfigPath string
}

// FeedFlags Flag structs to decouple cobra from logic for testing.
type FeedFlags struct {
	TimeoutMs  int64
	TimeoutSet bool // whether --timeout-ms was explicitly provided
	Info       string
	// Remote daemon connection
	APIUrl     string
	APITimeout time.Duration
}

type StopFlags struct {
	Info string
	// Remote daemon connection
	APIUrl     string
	APITimeout time.Duration
}

type StatusFlags struct {
	// Remote daemon connection
	APIUrl     string
	APITimeout time.Duration
}

type ServeFlags struct {
	ConfigPath string
}
