package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivanmoreno/mirador/internal/api"
	"github.com/ivanmoreno/mirador/internal/banner"
	"github.com/ivanmoreno/mirador/internal/config"
	"github.com/ivanmoreno/mirador/internal/dashboard"
	"github.com/ivanmoreno/mirador/internal/demo"
	"github.com/ivanmoreno/mirador/internal/logging"
	"github.com/ivanmoreno/mirador/internal/watch"
)

var version = "0.1.0"

func main() {
	rootCmd := newRootCmd()

	rootCmd.AddCommand(
		newWatchCmd(),
		newDemoCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies the shared flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if interval, _ := cmd.Flags().GetInt("interval"); interval > 0 {
		cfg.Dashboard.RefreshInterval = interval
	}

	return cfg, cfg.Validate()
}

func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "config file path (default ~/.mirador/config.yaml)")
	cmd.Flags().String("api-url", "", "backend base URL (overrides config)")
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirador",
		Short: "Watchtower for your concierge agent",
		Long:  `Mirador is a terminal dashboard for a conversational concierge backend: live metrics, outcome and intent charts, and per-conversation transcripts, polled over the backend's read-only JSON API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// The TUI owns the terminal; log lines would corrupt it.
			logging.Suppress()

			return dashboard.Run(cfg, version)
		},
	}
	addSharedFlags(cmd)
	cmd.Flags().Int("interval", 0, "refresh interval in seconds (overrides config)")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the backend headless and log summary lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := logging.Init(cfg.Logging); err != nil {
				return err
			}

			schedule, _ := cmd.Flags().GetString("schedule")
			if schedule == "" {
				schedule = cfg.Watch.Schedule
			}

			banner.Startup(version, cfg.API.BaseURL)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch.Run(ctx, api.NewClient(cfg.API.BaseURL), schedule)
		},
	}
	addSharedFlags(cmd)
	cmd.Flags().String("schedule", "", `cron schedule (overrides config, e.g. "@every 30s")`)
	return cmd
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve a sample backend with generated conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Init(logging.DefaultConfig()); err != nil {
				return err
			}

			addr, _ := cmd.Flags().GetString("addr")
			seed, _ := cmd.Flags().GetInt64("seed")
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			fmt.Printf("Demo backend on http://%s — point mirador at it with --api-url\n", addr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return demo.Run(ctx, addr, seed, version)
		},
	}
	cmd.Flags().String("addr", "127.0.0.1:8000", "listen address")
	cmd.Flags().Int64("seed", 0, "dataset seed (0 = random)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show mirador version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mirador v%s\n", version)
		},
	}
}
