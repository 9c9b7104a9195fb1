package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/penwyp/go-research-monitor/internal/config"
	"github.com/penwyp/go-research-monitor/internal/data/client"
	"github.com/penwyp/go-research-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Service and config
	serverURL  string
	configPath string

	// Display related
	timezone string
	interval time.Duration

	// cfg is loaded once per invocation by the root PersistentPreRunE
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "go-research-monitor",
		Short: "Research tracking monitor",
		Long: `go-research-monitor is a command-line client for a research tracking service.

It lists past research runs, follows a running research until it completes, shows token
and search metrics, and exports finished reports.

Examples:
  go-research-monitor history                          # List research history
  go-research-monitor history --search "apple pie"     # Filter history by query
  go-research-monitor history --output json            # History as JSON
  go-research-monitor watch 42                         # Follow research 42 until it finishes
  go-research-monitor metrics 42 --output json         # Token and search metrics
  go-research-monitor export 42 --format pdf           # Write research_42.pdf
  go-research-monitor delete 42                        # Delete one research
  go-research-monitor clear --yes                      # Clear the whole history`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Research service base URL (default "+config.DefaultServerURL+")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (default "+config.DefaultConfigFile+")")

	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", 0,
		"Status refresh interval while watching (default 10s)")

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// setup loads the config file, applies flag overrides and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if serverURL != "" {
		loaded.ServerURL = serverURL
	}
	if timezone != "" {
		loaded.Timezone = timezone
	}
	if interval != 0 {
		loaded.Interval = interval
	}
	if debug {
		loaded.LogLevel = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logFile := config.ExpandPath(cfg.LogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(cfg.LogLevel, logFile, util.LogFormat(cfg.LogFormat), debug); err != nil {
		return err
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return err
	}

	util.LogDebug("Configuration loaded",
		util.F("command", cmd.Name()),
		util.F("server", cfg.ServerURL),
		util.F("interval", cfg.Interval.String()),
		util.F("timezone", cfg.Timezone))
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func newClient() *client.Client {
	return client.New(cfg.ServerURL, cfg.RequestTimeout)
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
