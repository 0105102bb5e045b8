/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/sitechat/internal/sitechat/config"
	"github.com/spf13/cobra"
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Register a website with the backend",
	Long: `Send a website URL to the backend's scrape endpoint so later questions
can be answered from it. Exactly one request is sent; there is no retry.

Example:
  sitechat scrape https://example.com
  sitechat ask "What is this site about?"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if !cfg.GetContract().ScrapeEnabled() {
			return fmt.Errorf("profile %q has no scrape endpoint", cfg.Profile)
		}

		sess := newSession(cfg)
		scrapeErr := sess.Scrape(cmd.Context(), args[0])
		printLastMessage(cmd, sess)
		if scrapeErr != nil {
			return fmt.Errorf("scrape request failed: %w", scrapeErr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolVar(&plainOutput, "plain", false, "Print the reply as plain text without markdown rendering")
}
