/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/longkey1/sitechat/internal/render"
	"github.com/longkey1/sitechat/internal/sitechat/config"
	"github.com/longkey1/sitechat/internal/sitechat/session"
	"github.com/spf13/cobra"
)

var (
	askURL      string
	plainOutput bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the backend a question",
	Long: `Send a question to the backend and print the answer.

If no question is provided as an argument, it is read from stdin.
Answers are rendered as markdown when stdout is a terminal; use --plain to disable.
With --url, the website is scraped first; if the scrape fails no question is sent.
Without --url the backend answers from whatever it has already scraped.

Examples:
  sitechat ask --url https://example.com "What is this site about?"
  echo "What is this site about?" | sitechat ask`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var question string
		if len(args) > 0 {
			question = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			question = strings.TrimSpace(string(input))
		}
		if strings.TrimSpace(question) == "" {
			return fmt.Errorf("question is empty")
		}

		sess := newSession(cfg)

		if askURL != "" {
			if !cfg.GetContract().ScrapeEnabled() {
				return fmt.Errorf("profile %q has no scrape endpoint", cfg.Profile)
			}
			if err := sess.Scrape(cmd.Context(), askURL); err != nil {
				printLastMessage(cmd, sess)
				return fmt.Errorf("scrape request failed: %w", err)
			}
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "Scraped: %s\n", sess.URL())
			}
		}

		askErr := sess.Ask(cmd.Context(), question)
		printLastMessage(cmd, sess)

		if saveSession || cfg.SaveSessions {
			archive, err := archiveSession(cfg, sess, sessionName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "\nSession saved: %s\n", archive.GetShortID())
		}

		if askErr != nil {
			return fmt.Errorf("ask request failed: %w", askErr)
		}
		return nil
	},
}

// printLastMessage prints the newest transcript entry to stdout, rendered as
// markdown when stdout is a terminal.
func printLastMessage(cmd *cobra.Command, sess *session.Session) {
	if msg, ok := sess.LastMessage(); ok {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, render.Answer(out, msg.Text, plainOutput))
	}
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askURL, "url", "u", "", "Scrape this website before asking")
	askCmd.Flags().BoolVar(&plainOutput, "plain", false, "Print the answer as plain text without markdown rendering")
	askCmd.Flags().BoolVar(&saveSession, "save", false, "Save the transcript after answering")
	askCmd.Flags().StringVar(&sessionName, "session-name", "", "Name for the saved session (optional)")
}
