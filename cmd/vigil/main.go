package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRoot creates the root command and wires all subcommands
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	feedFlags := &FeedFlags{}
	stopFlags := &StopFlags{}
	statusFlags := &StatusFlags{}
	serveFlags := &ServeFlags{}

	vigilCommand := command{}

	root := createRootCommand(globalFlags)
	root.AddCommand(
		createFeedCommand(vigilCommand, feedFlags),
		createStopCommand(vigilCommand, stopFlags),
		createStatusCommand(vigilCommand, statusFlags),
		createServeCommand(globalFlags, serveFlags),
	)
	return root
}

// createRootCommand creates the root command with minimal persistent flags
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "vigil",
		Short: "Liveness watchdog with multi-channel alert fallback",
		Long: `Vigil tracks whether a periodically-reporting workload is still
alive and raises an alert across configured notification channels
(telegram, wechat, webhook) when it stops reporting in time.

Examples:
  vigil serve --config=config.toml   # Start daemon
  vigil feed --info="batch job ok"   # Signal liveness
  vigil feed --timeout-ms=60000      # Signal liveness and update threshold
  vigil stop --info="maintenance"    # Disarm the watchdog
  vigil status                       # Show watchdog state`,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")

	return root
}

// createFeedCommand creates the feed subcommand
func createFeedCommand(vigilCommand command, feedFlags *FeedFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Signal liveness to the watchdog",
		Long: `Feed the daemon's watchdog. The first feed arms it; later feeds
reset its timer. When --timeout-ms is given the threshold is updated,
otherwise the current (or default) threshold is kept.

Examples:
  vigil feed
  vigil feed --timeout-ms=60000 --info="nightly sync"
  vigil feed --api-url=http://remote:8080/api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// only forward timeout-ms when the flag was set: "not provided"
			// and "provided" arm differently
			feedFlags.TimeoutSet = cmd.Flag("timeout-ms").Changed
			return vigilCommand.Feed(*feedFlags)
		},
	}

	cmd.Flags().Int64Var(&feedFlags.TimeoutMs, "timeout-ms", 0, "timeout threshold in milliseconds (updates threshold when set)")
	cmd.Flags().StringVar(&feedFlags.Info, "info", "", "free-form context echoed in alerts")
	cmd.Flags().StringVar(&feedFlags.APIUrl, "api-url", "", "daemon URL (e.g. http://host:8080/api)")
	cmd.Flags().DurationVar(&feedFlags.APITimeout, "api-timeout", defaultAPITimeout, "request timeout")

	return cmd
}

// createStopCommand creates the stop subcommand
func createStopCommand(vigilCommand command, stopFlags *StopFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Disarm the watchdog",
		Long: `Manually stop the daemon's watchdog. A stopped alert with the
given reason is sent through the notification channels.

Examples:
  vigil stop --info="planned maintenance"
  vigil stop --api-url=http://remote:8080/api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return vigilCommand.Stop(*stopFlags)
		},
	}

	cmd.Flags().StringVar(&stopFlags.Info, "info", "", "reason echoed in the stopped alert")
	cmd.Flags().StringVar(&stopFlags.APIUrl, "api-url", "", "daemon URL (e.g. http://host:8080/api)")
	cmd.Flags().DurationVar(&stopFlags.APITimeout, "api-timeout", defaultAPITimeout, "request timeout")

	return cmd
}

// createStatusCommand creates the status subcommand
func createStatusCommand(vigilCommand command, statusFlags *StatusFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show watchdog status",
		Long: `Show the daemon watchdog's state: armed/idle, whether a timeout
has been detected, and the configured threshold.

Examples:
  vigil status
  vigil status --api-url=http://remote:8080/api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return vigilCommand.Status(*statusFlags)
		},
	}

	cmd.Flags().StringVar(&statusFlags.APIUrl, "api-url", "", "daemon URL (e.g. http://host:8080/api)")
	cmd.Flags().DurationVar(&statusFlags.APITimeout, "api-timeout", defaultAPITimeout, "request timeout")

	return cmd
}

// createServeCommand creates the serve subcommand
func createServeCommand(globalFlags *GlobalFlags, serveFlags *ServeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [config.toml]",
		Short: "Start the vigil daemon",
		Long: `Start the vigil daemon: an HTTP API for feed/stop/status, the
periodic expiry poller, and optional metrics and history export.
All configuration is loaded from a TOML config file.

Examples:
  vigil serve config.toml
  vigil serve --config=config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			serveFlags.ConfigPath = globalFlags.ConfigPath
			return runServeCommand(serveFlags, args)
		},
	}

	return cmd
}
