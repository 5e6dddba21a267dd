package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/pipeline"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Collect every order summary into CSV and/or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("output") {
					cfg.OutputFile = output
				}
				if cmd.Flags().Changed("format") {
					cfg.OutputFormat = strings.ToLower(format)
				}
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := openSession(ctx, cfg, opts.replay)
			if err != nil {
				return err
			}
			defer s.Close()

			writer, err := pipeline.NewWriter(cfg.OutputFormat, cfg.OutputFile)
			if err != nil {
				return fmt.Errorf("create writer: %w", err)
			}
			defer func() {
				if err := writer.Close(); err != nil {
					slog.Error("close writer", slog.Any("error", err))
				}
			}()

			p := pipeline.NewPipeline(ctx, writer, cfg)
			p.Start()
			if cfg.Verbose {
				p.StartMetricsReporting(10 * time.Second)
			}

			result, err := s.ext.History(ctx, s.page)
			if err != nil {
				p.Close()
				return fmt.Errorf("collect order history: %w", err)
			}
			if err := p.Process(result.Orders...); err != nil {
				p.Close()
				return fmt.Errorf("queue orders: %w", err)
			}
			if err := p.Close(); err != nil {
				return fmt.Errorf("pipeline shutdown: %w", err)
			}
			if err := writer.Validate(); err != nil {
				return fmt.Errorf("output validation: %w", err)
			}

			printOrders(result.Orders)
			printSummary(result, p.GetMetrics(), outputFiles(cfg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default from config: orders.csv)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv, json, or dual")
	return cmd
}

func outputFiles(cfg *config.Config) []string {
	if cfg.OutputFormat == "dual" {
		return []string{cfg.OutputFile, pipeline.JSONCompanion(cfg.OutputFile)}
	}
	return []string{cfg.OutputFile}
}
