package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Provider sources
const (
	SourceFixtures = "fixtures"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port           string        `yaml:"port"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	Providers struct {
		// Matches is one of fixtures, http or postgres
		Matches string `yaml:"matches"`
		// Users serves credits and friends: fixtures or http
		Users        string `yaml:"users"`
		FixturesPath string `yaml:"fixtures_path"`
		SocialAPI    struct {
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"social_api"`
	} `yaml:"providers"`

	FormationsFile string `yaml:"formations_file"`

	Observers struct {
		Journal struct {
			Enabled       bool   `yaml:"enabled"`
			NotifyChannel string `yaml:"notify_channel"`
		} `yaml:"journal"`
		NATS struct {
			Enabled       bool   `yaml:"enabled"`
			URL           string `yaml:"url"`
			StreamName    string `yaml:"stream_name"`
			SubjectPrefix string `yaml:"subject_prefix"`
		} `yaml:"nats"`
	} `yaml:"observers"`
}

func defaultConfig() *Config {
	var config Config
	config.Server.Port = "8080"
	config.Server.AllowedOrigins = []string{"*"}
	config.Server.ReadTimeout = 10 * time.Second
	config.Server.WriteTimeout = 10 * time.Second
	config.Providers.Matches = SourceFixtures
	config.Providers.Users = SourceFixtures
	config.Providers.FixturesPath = "config/fixtures.yaml"
	config.Providers.SocialAPI.Timeout = 10 * time.Second
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// loadConfig reads the YAML config over the defaults. An empty path keeps
// the defaults. PORT, JOURNAL_ENABLED and NATS_ENABLED override the file.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.Observers.Journal.Enabled = getEnvAsBool("JOURNAL_ENABLED", config.Observers.Journal.Enabled)
	config.Observers.NATS.Enabled = getEnvAsBool("NATS_ENABLED", config.Observers.NATS.Enabled)
	config.Observers.NATS.URL = getEnv("NATS_URL", config.Observers.NATS.URL)

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Providers.Matches {
	case SourceFixtures, SourceHTTP, SourcePostgres:
	default:
		return fmt.Errorf("unknown matches provider %q", c.Providers.Matches)
	}
	switch c.Providers.Users {
	case SourceFixtures, SourceHTTP:
	default:
		return fmt.Errorf("unknown users provider %q", c.Providers.Users)
	}
	if (c.Providers.Matches == SourceHTTP || c.Providers.Users == SourceHTTP) && c.Providers.SocialAPI.BaseURL == "" {
		return fmt.Errorf("providers.social_api.base_url is required for the http provider")
	}
	return nil
}

// needsDatabase reports whether any component talks to Postgres
func (c *Config) needsDatabase() bool {
	return c.Providers.Matches == SourcePostgres || c.Observers.Journal.Enabled
}

// setupLogging configures the global logger from LOG_LEVEL and LOG_FORMAT
func setupLogging() {
	if strings.EqualFold(getEnv("LOG_FORMAT", "console"), "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
