/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/longkey1/sitechat/internal/sitechat/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string
	logFile  string

	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sitechat",
	Short: "Chat with a website through a question-answering backend",
	Long: `sitechat is a terminal client for a website question-answering backend.
Register a website with the backend (scrape), then ask questions about it.

Run 'sitechat chat' for the interactive widget, or use 'sitechat scrape' and
'sitechat ask' from scripts. Configure the backend with a TOML configuration file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(os.Stderr)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/sitechat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides --verbose")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

// setupLogging configures the global zerolog logger from the logging flags.
func setupLogging(stderr io.Writer) error {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if logLevel != "" {
		l, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		level = l
	}
	zerolog.SetGlobalLevel(level)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logCloser = f
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return nil
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	return nil
}

// initConfig reads in .env, the config files and ENV variables if set.
func initConfig() {
	// A missing .env is not an error
	_ = godotenv.Load()

	viper.SetEnvPrefix("SITECHAT")
	viper.AutomaticEnv()

	userConfigDir, err := config.UserConfigDir()
	cobra.CheckErr(err)

	viper.SetConfigType("toml")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		// System-wide config first (lower priority), then the user config merged on top
		viper.AddConfigPath("/etc/sitechat")
		viper.AddConfigPath("/usr/local/etc/sitechat")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			if verbose {
				fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
			}
		}

		userConfig := filepath.Join(userConfigDir, "config.toml")
		if _, err := os.Stat(userConfig); err == nil {
			viper.SetConfigFile(userConfig)
			if systemConfigLoaded {
				err = viper.MergeInConfig()
			} else {
				err = viper.ReadInConfig()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			}
		}
	}

	sessionDir, err := config.DefaultSessionDir(viper.GetViper())
	cobra.CheckErr(err)
	config.SetDefaults(viper.GetViper(), sessionDir)

	for _, key := range []string{"base_url", "token", "timeout", "profile", "session_dir", "save_sessions"} {
		_ = viper.BindEnv(key)
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "  SITECHAT_BASE_URL:", viper.GetString("base_url"))
		fmt.Fprintln(os.Stderr, "  SITECHAT_PROFILE:", viper.GetString("profile"))
		fmt.Fprintln(os.Stderr, "  SITECHAT_TIMEOUT:", viper.GetString("timeout"))
	}
}
