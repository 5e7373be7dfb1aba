// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convo/internal/scrape"
	"github.com/pdiddy/convo/pkg/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [source]",
	Short: "Extract responses from an HTML chat export",
	Long: `Scrape reads an HTML chat export, a local file or an http(s) URL, and
writes the text of every message whose data-message-author-role matches
--role. Without a source the first .html file in the current directory is
used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrape,
}

func runScrape(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	role, _ := cmd.Flags().GetString("role")
	cfg := types.ScrapeConfig{OutputPath: out, Role: role}
	if len(args) > 0 {
		cfg.Source = args[0]
	}

	s := &scrape.Scraper{Dir: "."}
	_, err := s.File(context.Background(), cfg, cmd.OutOrStdout())
	return err
}

func init() {
	scrapeCmd.Flags().StringP("output", "o", scrape.DefaultOutput, "output file")
	scrapeCmd.Flags().String("role", scrape.DefaultRole, "data-message-author-role value to collect")

	rootCmd.AddCommand(scrapeCmd)
}
