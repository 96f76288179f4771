// Package config provides YAML-based configuration loading for Gatehouse.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Gatehouse configuration, loaded from
// gatehouse.yaml with optional environment overrides from .env.
type Config struct {
	API       APIConfig       `yaml:"api"`
	StateDir  string          `yaml:"state_dir"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Notify    NotifyConfig    `yaml:"notify"`
	Digest    DigestConfig    `yaml:"digest"`
	Shows     []string        `yaml:"shows"`
}

// APIConfig holds the connection settings for the ticketing backend.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DashboardConfig controls the local web dashboard.
type DashboardConfig struct {
	Port        int `yaml:"port"`
	PollSeconds int `yaml:"poll_seconds"`
}

// NotifyConfig selects and configures the notification channel.
type NotifyConfig struct {
	Channel string        `yaml:"channel"` // terminal, slack, discord
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack delivery settings.
type SlackConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// DiscordConfig holds Discord delivery settings.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// DigestConfig schedules the daily sales digest.
type DigestConfig struct {
	Cron string `yaml:"cron"` // 5-field cron expression
}

// DefaultShows is the show catalog seeded when the config lists none.
var DefaultShows = []string{
	"Heritage Walk",
	"Light Show",
	"Night Museum",
	"Sculpture Court",
}

// Load reads a YAML config file from path and returns a validated
// Config. A .env file next to the config, when present, is loaded first
// so GATEHOUSE_* variables can override file values.
func Load(path string) (*Config, error) {
	godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides file values with GATEHOUSE_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("GATEHOUSE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("GATEHOUSE_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("GATEHOUSE_SLACK_BOT_TOKEN"); v != "" {
		c.Notify.Slack.BotToken = v
	}
	if v := os.Getenv("GATEHOUSE_DISCORD_BOT_TOKEN"); v != "" {
		c.Notify.Discord.BotToken = v
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 15
	}
	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			c.StateDir = filepath.Join(home, ".gatehouse")
		} else {
			c.StateDir = ".gatehouse"
		}
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Dashboard.PollSeconds == 0 {
		c.Dashboard.PollSeconds = 3
	}
	if c.Notify.Channel == "" {
		c.Notify.Channel = "terminal"
	}
	if c.Digest.Cron == "" {
		c.Digest.Cron = "0 18 * * *"
	}
	if len(c.Shows) == 0 {
		c.Shows = append([]string(nil), DefaultShows...)
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.API.BaseURL == "" {
		errs = append(errs, "api.base_url is required")
	}
	switch c.Notify.Channel {
	case "terminal", "slack", "discord":
	default:
		errs = append(errs, fmt.Sprintf("notify.channel %q is not one of terminal, slack, discord", c.Notify.Channel))
	}
	if c.Notify.Channel == "slack" && (c.Notify.Slack.BotToken == "" || c.Notify.Slack.ChannelID == "") {
		errs = append(errs, "notify.slack.bot_token and notify.slack.channel_id are required for the slack channel")
	}
	if c.Notify.Channel == "discord" && (c.Notify.Discord.BotToken == "" || c.Notify.Discord.ChannelID == "") {
		errs = append(errs, "notify.discord.bot_token and notify.discord.channel_id are required for the discord channel")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// StatePath returns the location of the local state database.
func (c *Config) StatePath() string {
	return filepath.Join(c.StateDir, "state.db")
}
