// Package config loads the monitor configuration from a YAML file with defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "~/.go-research-monitor/config.yaml"
	DefaultLogFile    = "~/.go-research-monitor/logs/app.log"
	DefaultServerURL  = "http://localhost:5000"
	DefaultInterval   = 10 * time.Second
)

// Config contains every setting the commands read
type Config struct {
	// Research service
	ServerURL      string        `yaml:"server_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Polling
	Interval time.Duration `yaml:"interval"`

	// Display settings
	Timezone      string `yaml:"timezone"`
	HistoryOutput string `yaml:"history_output"`
	HistorySort   string `yaml:"history_sort"`

	// Export
	ExportDir    string `yaml:"export_dir"`
	ExportFormat string `yaml:"export_format"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file"`
	LogFormat string `yaml:"log_format"`
}

// Load reads path, or the default config file when path is empty. A missing default file
// is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	path = ExpandPath(path)

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate fills unset fields with defaults and rejects values that cannot work
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server_url must be an http(s) URL, got %q", c.ServerURL)
	}

	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}

	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}

	if c.HistoryOutput == "" {
		c.HistoryOutput = "table"
	}
	if c.HistorySort == "" {
		c.HistorySort = "created"
	}
	if c.ExportFormat == "" {
		c.ExportFormat = "md"
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// ExpandPath resolves a leading ~/ and makes path absolute
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
