package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/loykin/vigil"
)

func runServeCommand(flags *ServeFlags, args []string) error {
	configPath := flags.ConfigPath
	if len(args) > 0 {
		configPath = args[0]
	}
	if configPath == "" {
		return fmt.Errorf("config file required for serve command. Use --config=config.toml or provide as argument")
	}

	cfg, err := vigil.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := cfg.LoggerConfig().New()
	slog.SetDefault(logger)

	// Router reads channel availability from config at dispatch time and
	// lazily builds channel handles.
	router := vigil.NewRouter(&cfg.Notify, cfg.Notify.Notifier)

	wd := vigil.New(router)
	if cfg.Watchdog.DefaultTimeoutMs > 0 {
		wd.SetDefaultTimeoutMs(cfg.Watchdog.DefaultTimeoutMs)
	}

	if cfg.History != nil && cfg.History.DSN != "" {
		sink, err := vigil.NewHistorySink(cfg.History.DSN)
		if err != nil {
			return fmt.Errorf("failed to create history sink: %w", err)
		}
		wd.SetHistorySink(sink)
		logger.Info("history sink enabled", "dsn", cfg.History.DSN)
	}

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		if err := vigil.RegisterMetricsDefault(); err != nil {
			logger.Warn("failed to register metrics", "error", err)
		}
		if cfg.Metrics.Listen != "" {
			go func() {
				if err := vigil.ServeMetrics(cfg.Metrics.Listen); err != nil {
					logger.Error("metrics server error", "error", err)
				}
			}()
		}
	}

	p := vigil.NewPoller(wd, cfg.Watchdog.PollInterval)
	if err := p.Start(); err != nil {
		return fmt.Errorf("failed to start poller: %w", err)
	}
	logger.Info("started expiry poller", "interval", cfg.Watchdog.PollInterval)

	if cfg.Server == nil {
		p.Stop()
		return fmt.Errorf("server must be configured to run serve command")
	}
	server, err := vigil.NewHTTPServer(cfg.Server.Listen, cfg.Server.BasePath, wd)
	if err != nil {
		p.Stop()
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	logger.Info("starting vigil server", "listen", cfg.Server.Listen, "base_path", cfg.Server.BasePath)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	p.Stop()
	return server.Close()
}
