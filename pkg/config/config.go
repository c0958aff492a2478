package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultHandle is the account the tool tracks. One tool instance
	// syncs exactly one account.
	DefaultHandle = "archillect"

	// DefaultDatasetPath is where the merged dataset is written.
	DefaultDatasetPath = "tweets.json"
)

// Config holds all configuration options for the tweet sync tool
type Config struct {
	// Twitter API credentials and target account
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// API request settings
	API APIConfig `yaml:"api" json:"api"`

	// Dataset persistence settings
	Dataset DatasetConfig `yaml:"dataset" json:"dataset"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds the credential and the tracked account handle
type TwitterConfig struct {
	BearerToken string `yaml:"bearer_token" json:"bearer_token"`
	Handle      string `yaml:"handle" json:"handle"`
}

// APIConfig holds request-level settings for the Twitter API v2 client
type APIConfig struct {
	BaseURL  string        `yaml:"base_url" json:"base_url"`
	PageSize int           `yaml:"page_size" json:"page_size"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// DatasetConfig holds dataset file settings
type DatasetConfig struct {
	Path string `yaml:"path" json:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			Handle: DefaultHandle,
		},
		API: APIConfig{
			BaseURL:  "https://api.twitter.com",
			PageSize: 100,
			Timeout:  30 * time.Second,
		},
		Dataset: DatasetConfig{
			Path: DefaultDatasetPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// Credential: the tool-specific variable wins, the conventional
	// TWITTER_BEARER_TOKEN is honored as well
	if token := os.Getenv("TWEETSYNC_BEARER_TOKEN"); token != "" {
		c.Twitter.BearerToken = token
	} else if token := os.Getenv("TWITTER_BEARER_TOKEN"); token != "" {
		c.Twitter.BearerToken = token
	}

	if handle := os.Getenv("TWEETSYNC_HANDLE"); handle != "" {
		c.Twitter.Handle = handle
	}
	if path := os.Getenv("TWEETSYNC_DATASET"); path != "" {
		c.Dataset.Path = path
	}
	if logLevel := os.Getenv("TWEETSYNC_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".tweetsync.yaml",
		".tweetsync.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "tweetsync", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "tweetsync", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".tweetsync.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. The bearer token is
// deliberately not validated here: it may still be resolved from the
// system keyring after config loading.
func (c *Config) Validate() error {
	var errs []error

	if c.Twitter.Handle == "" {
		errs = append(errs, errors.New("account handle is required"))
	}

	if c.API.PageSize <= 0 || c.API.PageSize > 100 {
		errs = append(errs, errors.New("page size must be between 1 and 100"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("API timeout must be positive"))
	}
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}

	if c.Dataset.Path == "" {
		errs = append(errs, errors.New("dataset path is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["bearer-token"].(string); ok && token != "" {
		c.Twitter.BearerToken = token
	}
	if handle, ok := flags["handle"].(string); ok && handle != "" {
		c.Twitter.Handle = handle
	}
	if path, ok := flags["dataset"].(string); ok && path != "" {
		c.Dataset.Path = path
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults.
// godotenv never overrides variables already set in the process environment,
// so pre-set configuration always wins over the .env file.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tweetsync.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
