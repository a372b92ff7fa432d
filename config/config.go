// Package config loads credentials from the environment and tunables
// from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredentials is returned when required environment variables
// are unset. The message lists every missing variable by name.
var ErrMissingCredentials = errors.New("missing required environment variables")

// requiredEnvVars are the credential variables a run cannot start without.
var requiredEnvVars = []string{
	"REDDIT_CLIENT_ID",
	"REDDIT_CLIENT_SECRET",
	"REDDIT_USERNAME",
	"REDDIT_PASSWORD",
	"GEMINI_API_KEY",
}

// Config holds all application configuration. Credentials come from the
// environment only; the YAML file carries tunables.
type Config struct {
	RedditClientID     string `yaml:"-"`
	RedditClientSecret string `yaml:"-"`
	RedditUsername     string `yaml:"-"`
	RedditPassword     string `yaml:"-"`
	GeminiAPIKey       string `yaml:"-"`

	RedditUserAgent  string `yaml:"reddit_user_agent"`
	GeminiModel      string `yaml:"gemini_model"`
	MaxPosts         int    `yaml:"max_posts"`
	MaxComments      int    `yaml:"max_comments"`
	OutputDir        string `yaml:"output_dir"`
	FetchTimeoutSecs int    `yaml:"fetch_timeout_secs"`
	LLMTimeoutSecs   int    `yaml:"llm_timeout_secs"`
	RetryAttempts    int    `yaml:"retry_attempts"`
	RetryDelaySecs   int    `yaml:"retry_delay_secs"`
	LogLevel         string `yaml:"log_level"`
}

// Load reads configuration: the optional .env file, the optional YAML
// tunables file at path, environment credentials, then defaults and
// validation. A missing tunables file means defaults; a malformed one is
// an error.
func Load(path string) (*Config, error) {
	// Missing .env is fine; credentials may already be in the
	// environment. godotenv never overrides variables that are set.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Path returns the config file path from environment or default.
func Path() string {
	if path := os.Getenv("REDDIT_PERSONA_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

// MissingVars returns the required credential variables not set in the
// environment, after loading the optional .env file.
func MissingVars() []string {
	_ = godotenv.Load()

	var missing []string
	for _, name := range requiredEnvVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// FetchTimeout returns the Reddit HTTP client timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// LLMTimeout returns the Gemini HTTP client timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSecs) * time.Second
}

// RetryDelay returns the pause between generation attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySecs) * time.Second
}

func applyDefaults(cfg *Config) {
	if cfg.RedditUserAgent == "" {
		cfg.RedditUserAgent = "reddit-persona/1.0"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-1.5-flash"
	}
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = 50
	}
	if cfg.MaxComments <= 0 {
		cfg.MaxComments = 100
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.FetchTimeoutSecs <= 0 {
		cfg.FetchTimeoutSecs = 30
	}
	if cfg.LLMTimeoutSecs <= 0 {
		cfg.LLMTimeoutSecs = 60
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelaySecs <= 0 {
		cfg.RetryDelaySecs = 2
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if v := os.Getenv("REDDIT_CLIENT_ID"); v != "" {
		cfg.RedditClientID = v
	}
	if v := os.Getenv("REDDIT_CLIENT_SECRET"); v != "" {
		cfg.RedditClientSecret = v
	}
	if v := os.Getenv("REDDIT_USERNAME"); v != "" {
		cfg.RedditUsername = v
	}
	if v := os.Getenv("REDDIT_PASSWORD"); v != "" {
		cfg.RedditPassword = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		cfg.RedditUserAgent = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
}

func validate(cfg *Config) error {
	var missing []string
	if cfg.RedditClientID == "" {
		missing = append(missing, "REDDIT_CLIENT_ID")
	}
	if cfg.RedditClientSecret == "" {
		missing = append(missing, "REDDIT_CLIENT_SECRET")
	}
	if cfg.RedditUsername == "" {
		missing = append(missing, "REDDIT_USERNAME")
	}
	if cfg.RedditPassword == "" {
		missing = append(missing, "REDDIT_PASSWORD")
	}
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}
