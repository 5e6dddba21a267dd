package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-orders/catalog"
	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/models"
	"github.com/aluiziolira/go-scrape-orders/pipeline"
)

func newPOCmd(opts *options) *cobra.Command {
	var (
		catalogFile string
		out         string
		fromArchive bool
	)
	cmd := &cobra.Command{
		Use:   "po <order.json | order-number>",
		Short: "Build a purchase-order CSV from an extracted order",
		Long: "Matches every line item of an extracted order against the item catalog and writes\n" +
			"a purchase-order import. Unmatched items keep an empty Item # and are listed with\n" +
			"the closest catalog description.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("catalog") {
					cfg.Catalog.File = catalogFile
				}
			})
			if err != nil {
				return err
			}

			detail, err := loadDetail(cfg, args[0], fromArchive)
			if err != nil {
				return err
			}

			items, err := catalog.Load(cfg.Catalog.File)
			if err != nil {
				return err
			}
			matcher, err := catalog.NewMatcher(items, cfg.Catalog.MatchCache)
			if err != nil {
				return err
			}

			po, err := catalog.BuildPO(detail, matcher, cfg.Catalog, time.Now())
			if err != nil {
				return fmt.Errorf("build purchase order: %w", err)
			}

			path := out
			if path == "" {
				path = catalog.Filename(cfg.OutputDir, models.Value(detail.OrderNumber))
			}
			if err := catalog.WritePO(path, po); err != nil {
				return err
			}

			printPO(po)
			for _, line := range po.Unmatched() {
				slog.Warn("no catalog match; Item # left blank",
					slog.String("item", line.Source.Label()),
					slog.String("closest", line.Match.Suggestion),
					slog.Float64("similarity", line.Match.Similarity),
				)
			}
			fmt.Printf("\nWrote %d line(s) to %s\n", len(po.Lines), path)
			if n := len(po.Unmatched()); n > 0 {
				fmt.Printf("%d item(s) had no catalog match and will be created on PO import.\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogFile, "catalog", "", "Item catalog JSON (default from config: heartland_items.json)")
	cmd.Flags().StringVar(&out, "out", "", "Output CSV (default: po_<order#>.csv)")
	cmd.Flags().BoolVar(&fromArchive, "from-archive", false, "Treat the argument as an order number in the archive")
	return cmd
}

func loadDetail(cfg *config.Config, arg string, fromArchive bool) (*models.OrderDetail, error) {
	if !fromArchive {
		return pipeline.ReadDetail(arg)
	}
	store, err := openConfiguredArchive(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Get(arg)
}
