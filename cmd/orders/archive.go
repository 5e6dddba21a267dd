package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-orders/archive"
	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/models"
)

func newArchiveCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect archived order details",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List archived orders",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := openArchive(cmd, opts)
				if err != nil {
					return err
				}
				defer store.Close()

				details, err := store.List()
				if err != nil {
					return err
				}
				printArchive(details)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <order-number>",
			Short: "Print an archived order as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openArchive(cmd, opts)
				if err != nil {
					return err
				}
				defer store.Close()

				detail, err := store.Get(args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(detail)
			},
		},
	)
	return cmd
}

func openArchive(cmd *cobra.Command, opts *options) (*archive.Store, error) {
	cfg, err := opts.load(cmd, nil)
	if err != nil {
		return nil, err
	}
	return openConfiguredArchive(cfg)
}

func openConfiguredArchive(cfg *config.Config) (*archive.Store, error) {
	if cfg.ArchivePath == "" {
		return nil, fmt.Errorf("no archive configured; pass --archive or set ORDERS_ARCHIVE")
	}
	return archive.Open(cfg.ArchivePath)
}

func archiveDetail(cfg *config.Config, detail *models.OrderDetail) error {
	store, err := openConfiguredArchive(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(detail); err != nil {
		return err
	}
	slog.Info("order archived",
		slog.String("archive", cfg.ArchivePath),
		slog.String("order_number", models.Value(detail.OrderNumber)),
	)
	return nil
}
