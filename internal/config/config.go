package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

const (
	// DefaultChannelsURL is the public channel directory.
	DefaultChannelsURL = "https://gist.githubusercontent.com/BitBOY21/b0b95de46a230d88f98aea8304c30d3c/raw/channels.json"
	DefaultDatabaseURL = "tvstreams.db"
	DefaultServerPort  = "8080"
	DefaultUserAgent   = "TvStreams/1.0"
	DefaultTimeout     = 30 * time.Second
)

// ErrInvalidChannelsURL is returned when the directory URL is not an absolute http(s) URL.
var ErrInvalidChannelsURL = errors.New("channels url must be an absolute http(s) URL")

// Config holds application configuration.
type Config struct {
	ChannelsURL        string        `yaml:"channels_url" env:"CHANNELS_URL"`
	DatabaseURL        string        `yaml:"database_url" env:"DATABASE_URL"`
	RedisURL           string        `yaml:"redis_url" env:"REDIS_URL"`
	ServerPort         string        `yaml:"server_port" env:"SERVER_PORT"`
	UserAgent          string        `yaml:"user_agent" env:"FETCHER_USER_AGENT"`
	Timeout            time.Duration `yaml:"timeout" env:"FETCHER_TIMEOUT"`
	RefreshInterval    time.Duration `yaml:"refresh_interval" env:"REFRESH_INTERVAL"`
	PlaylistExportPath string        `yaml:"playlist_export_path" env:"PLAYLIST_EXPORT_PATH"`
	LogLevel           string        `yaml:"log_level" env:"LOG_LEVEL"`
}

// Load builds config from environment variables.
// If CHANNELS_URL is not set, Load first applies .env.local and .env from
// the working directory and the executable's directory. Every variable is
// optional; unset or invalid values keep their defaults.
func Load() (*Config, error) {
	if os.Getenv("CHANNELS_URL") == "" {
		loadEnvFiles(envDirs())
	}
	c := &Config{
		ChannelsURL:        os.Getenv("CHANNELS_URL"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		ServerPort:         os.Getenv("SERVER_PORT"),
		UserAgent:          os.Getenv("FETCHER_USER_AGENT"),
		Timeout:            parseDuration(os.Getenv("FETCHER_TIMEOUT"), 0),
		RefreshInterval:    parseDuration(os.Getenv("REFRESH_INTERVAL"), 0),
		PlaylistExportPath: os.Getenv("PLAYLIST_EXPORT_PATH"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks fields that have no usable default.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ChannelsURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidChannelsURL, c.ChannelsURL)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ChannelsURL == "" {
		c.ChannelsURL = DefaultChannelsURL
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = DefaultDatabaseURL
	}
	if c.ServerPort == "" {
		c.ServerPort = DefaultServerPort
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0
	}
}

// parseDuration returns def when s is empty or not a valid duration.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
