package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/longkey1/sitechat/internal/backend"
	"github.com/longkey1/sitechat/internal/sitechat"
	"github.com/spf13/viper"
)

// Config holds the configuration for the backend and the session archive
type Config struct {
	BaseURL       string `toml:"base_url" mapstructure:"base_url"`
	Token         string `toml:"token" mapstructure:"token"`     // Optional bearer token, "$VAR" or "${VAR}" reads the environment
	Timeout       string `toml:"timeout" mapstructure:"timeout"` // Duration string, e.g. "30s"
	Profile       string `toml:"profile" mapstructure:"profile"` // "api" or "rag"
	ScrapePath    string `toml:"scrape_path,omitempty" mapstructure:"scrape_path"`
	AskPath       string `toml:"ask_path,omitempty" mapstructure:"ask_path"`
	QuestionField string `toml:"question_field,omitempty" mapstructure:"question_field"`
	AnswerField   string `toml:"answer_field,omitempty" mapstructure:"answer_field"`
	RawFallback   bool   `toml:"raw_fallback" mapstructure:"raw_fallback"`
	SessionDir    string `toml:"session_dir" mapstructure:"session_dir"`
	SaveSessions  bool   `toml:"save_sessions" mapstructure:"save_sessions"`
}

var _ backend.Config = (*Config)(nil)

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(sessionDir string) *Config {
	return &Config{
		BaseURL:      backend.DefaultBaseURL,
		Token:        "",
		Timeout:      backend.DefaultTimeout.String(),
		Profile:      sitechat.ProfileAPI,
		RawFallback:  false,
		SessionDir:   sessionDir,
		SaveSessions: false,
	}
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper, sessionDir string) {
	d := NewDefaultConfig(sessionDir)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("token", d.Token)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("profile", d.Profile)
	v.SetDefault("scrape_path", "")
	v.SetDefault("ask_path", "")
	v.SetDefault("question_field", "")
	v.SetDefault("answer_field", "")
	v.SetDefault("raw_fallback", d.RawFallback)
	v.SetDefault("session_dir", d.SessionDir)
	v.SetDefault("save_sessions", d.SaveSessions)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom loads configuration from v, expands environment references
// and validates the result.
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.BaseURL = expandEnvVar(config.BaseURL)
	config.Token = expandEnvVar(config.Token)

	if config.SessionDir != "" {
		absPath, err := ResolvePath(v, config.SessionDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving session directory path '%s': %w", config.SessionDir, err)
		}
		config.SessionDir = absPath
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the backend address, timeout and profile are usable
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is not configured. Set it in config file (base_url) or environment variable (SITECHAT_BASE_URL)")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL: %q", c.BaseURL)
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be positive (got %s)", c.Timeout)
		}
	}
	if _, err := sitechat.LookupProfile(c.Profile); err != nil {
		return err
	}
	return nil
}

// GetBaseURL returns the backend address
func (c *Config) GetBaseURL() string {
	return c.BaseURL
}

// GetToken returns the bearer token, empty when unset
func (c *Config) GetToken() string {
	return c.Token
}

// GetTimeout returns the request timeout, falling back to the default
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return backend.DefaultTimeout
	}
	return d
}

// GetContract returns the profile's contract with explicit overrides applied
func (c *Config) GetContract() sitechat.Contract {
	contract, err := sitechat.LookupProfile(c.Profile)
	if err != nil {
		contract, _ = sitechat.LookupProfile(sitechat.ProfileAPI)
	}
	if c.ScrapePath != "" {
		contract.ScrapePath = c.ScrapePath
	}
	if c.AskPath != "" {
		contract.AskPath = c.AskPath
	}
	if c.QuestionField != "" {
		contract.QuestionField = c.QuestionField
	}
	if c.AnswerField != "" {
		contract.AnswerField = c.AnswerField
	}
	if c.RawFallback {
		contract.RawFallback = true
	}
	return contract
}
