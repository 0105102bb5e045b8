package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/longkey1/sitechat/internal/sitechat/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, base_url, token, timeout, profile, scrape_path, ask_path, question_field, answer_field, raw_fallback, session_dir, save_sessions"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.
Endpoint paths and fields are shown as resolved from the profile and any explicit overrides.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  sitechat config               # Show all configuration
  sitechat config base_url      # Show only the backend address
  sitechat config profile       # Show only the endpoint profile
  sitechat config token         # Show only the (masked) token`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		contract := cfg.GetContract()

		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "base_url", "baseurl":
				fmt.Println(cfg.BaseURL)
			case "token":
				fmt.Println(maskToken(cfg.Token))
			case "timeout":
				fmt.Println(cfg.GetTimeout())
			case "profile":
				fmt.Println(cfg.Profile)
			case "scrape_path", "scrapepath":
				fmt.Println(contract.ScrapePath)
			case "ask_path", "askpath":
				fmt.Println(contract.AskPath)
			case "question_field", "questionfield":
				fmt.Println(contract.QuestionField)
			case "answer_field", "answerfield":
				fmt.Println(contract.AnswerField)
			case "raw_fallback", "rawfallback":
				fmt.Println(contract.RawFallback)
			case "session_dir", "sessiondir":
				fmt.Println(cfg.SessionDir)
			case "save_sessions", "savesessions":
				fmt.Println(cfg.SaveSessions)
			default:
				fmt.Fprintf(os.Stderr, "Available fields: %s\n", configFields)
				return fmt.Errorf("unknown field: %s", args[0])
			}
			return nil
		}

		scrapePath := contract.ScrapePath
		if !contract.ScrapeEnabled() {
			scrapePath = "(none)"
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("BaseURL: %s\n", cfg.BaseURL)
		fmt.Printf("Token: %s\n", maskToken(cfg.Token))
		fmt.Printf("Timeout: %s\n", cfg.GetTimeout())
		fmt.Printf("Profile: %s\n", cfg.Profile)
		fmt.Printf("ScrapePath: %s\n", scrapePath)
		fmt.Printf("AskPath: %s\n", contract.AskPath)
		fmt.Printf("QuestionField: %s\n", contract.QuestionField)
		fmt.Printf("AnswerField: %s\n", contract.AnswerField)
		fmt.Printf("RawFallback: %v\n", contract.RawFallback)
		fmt.Printf("SessionDir: %s\n", cfg.SessionDir)
		fmt.Printf("SaveSessions: %v\n", cfg.SaveSessions)
		return nil
	},
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
