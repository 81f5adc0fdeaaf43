package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Fliff       FliffConfig       `yaml:"fliff"`
	Geolocation GeolocationConfig `yaml:"geolocation"`
	Thresholds  ThresholdsConfig  `yaml:"thresholds"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	GitHub      GitHubConfig      `yaml:"github"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Logging     LoggingConfig     `yaml:"logging"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
}

type FliffConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type GeolocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type ThresholdsConfig struct {
	GoalBalance float64 `yaml:"goal_balance"`
	MinBet      float64 `yaml:"min_bet"`
	MinPayout   float64 `yaml:"min_payout"`
	MaxPayout   float64 `yaml:"max_payout"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type GitHubConfig struct {
	Token        string `yaml:"token"`
	Repository   string `yaml:"repository"`
	WorkflowFile string `yaml:"workflow_file"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type LoggingConfig struct {
	File string `yaml:"file"`
}

type ScreenshotsConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads the YAML config, applies environment overrides for secrets and
// fills in defaults. The result is not validated; call Validate before use.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvOverrides()
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FLIFF_USERNAME"); v != "" {
		c.Fliff.Username = v
	}
	if v := os.Getenv("FLIFF_PASSWORD"); v != "" {
		c.Fliff.Password = v
	}
	if v := os.Getenv("GEOLOCATION_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Geolocation.Latitude = lat
		}
	}
	if v := os.Getenv("GEOLOCATION_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Geolocation.Longitude = lon
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("GITHUB_REPOSITORY"); v != "" {
		c.GitHub.Repository = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
}

func (c *Config) applyDefaults() {
	if c.Fliff.BaseURL == "" {
		c.Fliff.BaseURL = "https://fliff.com"
	}
	if c.Geolocation.Latitude == 0 && c.Geolocation.Longitude == 0 {
		c.Geolocation.Latitude = 40.7128
		c.Geolocation.Longitude = -74.0060
	}
	if c.Thresholds.GoalBalance == 0 {
		c.Thresholds.GoalBalance = 10.00
	}
	if c.Thresholds.MinBet == 0 {
		c.Thresholds.MinBet = 1.80
	}
	if c.Thresholds.MinPayout == 0 {
		c.Thresholds.MinPayout = 50.00
	}
	if c.Thresholds.MaxPayout == 0 {
		c.Thresholds.MaxPayout = 100.00
	}
	if c.GitHub.WorkflowFile == "" {
		c.GitHub.WorkflowFile = "main.yml"
	}
	if c.Screenshots.Dir == "" {
		c.Screenshots.Dir = "screenshots"
	}
}

// Validate checks that every required external value is present. Called once at
// startup so missing credentials fail fast instead of at first use.
func (c *Config) Validate() error {
	var missing []string

	if c.Fliff.Username == "" {
		missing = append(missing, "fliff.username (FLIFF_USERNAME)")
	}
	if c.Fliff.Password == "" {
		missing = append(missing, "fliff.password (FLIFF_PASSWORD)")
	}
	if c.Telegram.BotToken == "" {
		missing = append(missing, "telegram.bot_token (TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.ChatID == 0 {
		missing = append(missing, "telegram.chat_id (TELEGRAM_CHAT_ID)")
	}
	if c.GitHub.Token == "" {
		missing = append(missing, "github.token (GITHUB_TOKEN)")
	}
	if c.GitHub.Repository == "" {
		missing = append(missing, "github.repository (GITHUB_REPOSITORY)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config values: %s", strings.Join(missing, ", "))
	}
	if c.Thresholds.MinPayout >= c.Thresholds.MaxPayout {
		return fmt.Errorf("thresholds.min_payout (%.2f) must be less than thresholds.max_payout (%.2f)",
			c.Thresholds.MinPayout, c.Thresholds.MaxPayout)
	}
	return nil
}
