package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-orders/config"
)

type options struct {
	configPath   string
	verbose      bool
	headless     bool
	baseURL      string
	metricsAddr  string
	archivePath  string
	replay       string
	loginTimeout time.Duration

	level *slog.LevelVar
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orders",
		Short:         "Extracts order history and order details from the vendor portal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger, level := newLogger(opts.verbose)
			slog.SetDefault(logger)
			opts.level = level
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&opts.headless, "headless", false, "Run the browser without a window (requires an existing session)")
	flags.StringVar(&opts.baseURL, "base-url", "", "Portal base URL")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	flags.StringVar(&opts.archivePath, "archive", "", "bbolt file that extracted orders are archived to")
	flags.StringVar(&opts.replay, "replay", "", "Replay a captured order history page (path or URL) instead of opening a browser")
	flags.DurationVar(&opts.loginTimeout, "login-timeout", 0, "How long to wait for the login to complete")

	cmd.AddCommand(
		newHistoryCmd(opts),
		newOrderCmd(opts),
		newPOCmd(opts),
		newArchiveCmd(opts),
		newInstallCmd(),
	)
	return cmd
}

// load builds the configuration: defaults, then the config file, then
// ORDERS_* variables, then flags set on the command line.
func (o *options) load(cmd *cobra.Command, local func(*config.Config)) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = o.metricsAddr
	}
	if flags.Changed("archive") {
		cfg.ArchivePath = o.archivePath
	}
	if flags.Changed("headless") {
		cfg.Headless = o.headless
	}
	if flags.Changed("login-timeout") {
		cfg.LoginTimeout = o.loginTimeout
	}
	if o.verbose {
		cfg.Verbose = true
	}
	if local != nil {
		local(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Verbose && o.level != nil {
		o.level.Set(slog.LevelDebug)
	}
	return cfg, nil
}
