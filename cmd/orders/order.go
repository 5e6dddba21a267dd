package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/parser"
	"github.com/aluiziolira/go-scrape-orders/pipeline"
	"github.com/aluiziolira/go-scrape-orders/scraper"
)

func newOrderCmd(opts *options) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:     "order <date>",
		Short:   `Extract the order placed on a date such as "February 22"`,
		Example: "  orders order February 22\n  orders order --replay capture/history.html \"January 19\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := strings.Join(args, " ")
			cfg, err := opts.load(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("output-dir") {
					cfg.OutputDir = outputDir
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

			detail, loc, err := s.ext.Detail(ctx, s.page, date)
			if err != nil {
				return err
			}
			if !loc.Found {
				printAvailable(loc.Available)
				return scraper.NotFoundError{Date: date, Available: loc.Available}
			}
			if err := parser.ValidateDetail(detail); err != nil {
				slog.Warn("order detail incomplete", slog.Any("error", err))
			}

			path := pipeline.DetailFilename(cfg.OutputDir, date)
			if err := pipeline.WriteDetail(path, detail); err != nil {
				return err
			}
			slog.Info("order detail written", slog.String("path", path))

			if cfg.ArchivePath != "" {
				if err := archiveDetail(cfg, detail); err != nil {
					return err
				}
			}

			printDetail(detail)
			fmt.Printf("\nSaved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the order JSON (default from config: .)")
	return cmd
}
