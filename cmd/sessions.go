package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/longkey1/sitechat/internal/render"
	"github.com/longkey1/sitechat/internal/sitechat"
	"github.com/longkey1/sitechat/internal/sitechat/config"
	"github.com/longkey1/sitechat/internal/sitechat/session"
	"github.com/spf13/cobra"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved sessions",
	Long: `Manage saved transcripts including listing, viewing, renaming and deleting them.

Transcripts are saved by 'sitechat chat --save' and 'sitechat ask --save',
or always when save_sessions = true.`,
}

// openStore returns the archive store for the configured session directory
func openStore() (*session.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return session.NewStore(cfg.SessionDir), nil
}

// sessionsListCmd represents the sessions list command
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved sessions",
	Long:  `List all saved sessions sorted by most recently updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store, err := openStore()
		if err != nil {
			return err
		}
		archives, err := store.List()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		if len(archives) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			fmt.Fprintln(out, "\nSave one with:")
			fmt.Fprintln(out, "  sitechat chat --save")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROFILE\tCREATED\tMESSAGES\tURL\tNAME")
		fmt.Fprintln(w, "--\t-------\t-------\t--------\t---\t----")

		for _, a := range archives {
			name := a.Name
			if name == "" {
				name = "-"
			}
			url := a.URL
			if url == "" {
				url = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				a.GetShortID(),
				a.Profile,
				a.CreatedAt.Format("2006-01-02"),
				a.MessageCount(),
				url,
				name,
			)
		}
		w.Flush()

		fmt.Fprintln(out, "\nUse 'sitechat sessions show <id>' to view a transcript.")
		return nil
	},
}

// sessionsShowCmd represents the sessions show command
var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved transcript",
	Long: `Show details and the full transcript of a saved session.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store, err := openStore()
		if err != nil {
			return err
		}
		a, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		fmt.Fprintf(out, "Session: %s\n", a.ID)
		if a.Name != "" {
			fmt.Fprintf(out, "Name: %s\n", a.Name)
		}
		fmt.Fprintf(out, "Profile: %s\n", a.Profile)
		fmt.Fprintf(out, "Backend: %s\n", a.BaseURL)
		if a.URL != "" {
			fmt.Fprintf(out, "URL: %s (scraped: %v)\n", a.URL, a.Scraped)
		}
		fmt.Fprintf(out, "Created: %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Updated: %s\n", a.UpdatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Messages: %d\n", a.MessageCount())
		fmt.Fprintln(out)

		if a.MessageCount() == 0 {
			fmt.Fprintln(out, "No messages in this session.")
			return nil
		}

		fmt.Fprintln(out, "Transcript:")
		fmt.Fprintln(out, "-----------")
		for i, msg := range a.Messages {
			label := "Bot"
			text := render.Answer(out, msg.Text, plainOutput)
			if msg.Sender == sitechat.SenderUser {
				label = "You"
				text = msg.Text
			}
			fmt.Fprintf(out, "\n[%d] %s:\n%s\n", i+1, label, text)
		}
		return nil
	},
}

// sessionsDeleteCmd represents the sessions delete command
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved session",
	Long: `Delete a saved session permanently.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.

Warning: This action cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store, err := openStore()
		if err != nil {
			return err
		}
		a, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		force, _ := cmd.Flags().GetBool("yes")
		if !force {
			fmt.Fprintf(out, "Are you sure you want to delete session %s? [y/N]: ", a.GetShortID())
			var response string
			fmt.Fscanln(cmd.InOrStdin(), &response)

			if response != "y" && response != "Y" {
				fmt.Fprintln(out, "Deletion cancelled.")
				return nil
			}
		}

		if err := store.Delete(a.ID); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}

		fmt.Fprintf(out, "Session %s deleted successfully.\n", a.GetShortID())
		return nil
	},
}

// sessionsRenameCmd represents the sessions rename command
var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a saved session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store, err := openStore()
		if err != nil {
			return err
		}
		a, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		a.Name = args[1]
		a.UpdatedAt = time.Now()
		if err := store.Save(a); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Fprintf(out, "Session %s renamed to %q.\n", a.GetShortID(), a.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)

	sessionsShowCmd.Flags().BoolVar(&plainOutput, "plain", false, "Print answers as plain text without markdown rendering")
	sessionsDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without confirmation")
}
