package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	ChannelsURL        string `yaml:"channels_url"`
	DatabaseURL        string `yaml:"database_url"`
	RedisURL           string `yaml:"redis_url"`
	ServerPort         string `yaml:"server_port"`
	UserAgent          string `yaml:"user_agent"`
	Timeout            string `yaml:"timeout"`
	RefreshInterval    string `yaml:"refresh_interval"`
	PlaylistExportPath string `yaml:"playlist_export_path"`
	LogLevel           string `yaml:"log_level"`
}

// LoadFromFile loads config from a YAML file. Durations are Go duration
// strings ("30s", "15m"); missing keys take the same defaults as Load.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c := &Config{
		ChannelsURL:        f.ChannelsURL,
		DatabaseURL:        f.DatabaseURL,
		RedisURL:           f.RedisURL,
		ServerPort:         f.ServerPort,
		UserAgent:          f.UserAgent,
		Timeout:            parseDuration(f.Timeout, 0),
		RefreshInterval:    parseDuration(f.RefreshInterval, 0),
		PlaylistExportPath: f.PlaylistExportPath,
		LogLevel:           f.LogLevel,
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
