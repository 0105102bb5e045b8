/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/longkey1/sitechat/internal/sitechat/config"
	"github.com/longkey1/sitechat/internal/sitechat/session"
	"github.com/longkey1/sitechat/internal/tui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	chatURL     string
	saveSession bool
	sessionName string
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat widget",
	Long: `Start the interactive chat widget.

Enter a website URL and press enter to scrape it, then ask questions about it.
The URL field is disabled once the site is scraped, and both fields are
disabled while a request is in flight.

With the "rag" profile there is nothing to scrape and questions can be asked right away.

Logs are discarded while the widget owns the terminal unless --log-file is set.
Use --save (or save_sessions = true) to keep the transcript after quitting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if logFile == "" {
			log.Logger = zerolog.Nop()
		}

		sess := newSession(cfg)
		contract := cfg.GetContract()

		m := tui.NewModel(cmd.Context(), sess, contract)
		if chatURL != "" {
			m.SetURL(chatURL)
		}

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, runErr := p.Run()
		return finishChat(cmd, cfg, sess, runErr)
	},
}

// finishChat archives the transcript when saving is requested. A program
// stopped by a signal still has its transcript saved before the error is
// returned.
func finishChat(cmd *cobra.Command, cfg *config.Config, sess *session.Session, runErr error) error {
	interrupted := errors.Is(runErr, tea.ErrProgramKilled) || errors.Is(runErr, tea.ErrInterrupted)
	if ctx := cmd.Context(); ctx != nil && ctx.Err() != nil {
		interrupted = true
	}
	if runErr != nil && !interrupted {
		return fmt.Errorf("running chat: %w", runErr)
	}

	if saveSession || cfg.SaveSessions {
		archive, err := archiveSession(cfg, sess, sessionName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Session saved: %s\n", archive.GetShortID())
		fmt.Fprintf(cmd.ErrOrStderr(), "Show it with:\n  sitechat sessions show %s\n", archive.GetShortID())
	}

	if runErr != nil {
		return fmt.Errorf("running chat: %w", runErr)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatURL, "url", "u", "", "Pre-fill the website URL")
	chatCmd.Flags().BoolVar(&saveSession, "save", false, "Save the transcript when the widget exits")
	chatCmd.Flags().StringVar(&sessionName, "session-name", "", "Name for the saved session (optional)")
}
