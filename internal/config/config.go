package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIURL is the public AniList GraphQL endpoint
const DefaultAPIURL = "https://graphql.anilist.co"

// Config holds all application configuration
type Config struct {
	// AniList
	ClientID  string // OAuth client id for the implicit grant
	UserName  string // Whose lists are read
	APIURL    string
	RateLimit int // Requests per minute allowed by the client-side limiter

	// HTTP
	RequestTimeout time.Duration

	// Local redirect receiver used by `login`
	CallbackPort string

	// Paths
	CredentialsFile string // $CONFIG_DIR/credentials.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("ANILIST_API_URL", DefaultAPIURL)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 90)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("CALLBACK_PORT", "8765")
	v.SetDefault("LOG_LEVEL", "info")

	configDir := v.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "rakuroku")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		ClientID:  v.GetString("ANILIST_CLIENT_ID"),
		UserName:  v.GetString("ANILIST_USERNAME"),
		APIURL:    v.GetString("ANILIST_API_URL"),
		RateLimit: v.GetInt("RATE_LIMIT_PER_MINUTE"),

		RequestTimeout: time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,

		CallbackPort: v.GetString("CALLBACK_PORT"),

		CredentialsFile: filepath.Join(configDir, "credentials.db"),

		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would make every request fail
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("ANILIST_API_URL must not be empty")
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// RequireUserName is checked by commands that read a user's lists
func (c *Config) RequireUserName() error {
	if c.UserName == "" {
		return fmt.Errorf("ANILIST_USERNAME is required")
	}
	return nil
}

// RequireClientID is checked by the login command
func (c *Config) RequireClientID() error {
	if c.ClientID == "" {
		return fmt.Errorf("ANILIST_CLIENT_ID is required")
	}
	return nil
}
