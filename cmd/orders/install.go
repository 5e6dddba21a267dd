package main

import (
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-orders/browser"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download the browser driver and Chromium",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return browser.Install()
		},
	}
}
