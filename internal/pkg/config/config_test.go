package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "fliff:\n  username: user\n  password: pass\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Fliff.BaseURL != "https://fliff.com" {
		t.Errorf("BaseURL = %q, want default", cfg.Fliff.BaseURL)
	}
	if cfg.Geolocation.Latitude != 40.7128 || cfg.Geolocation.Longitude != -74.0060 {
		t.Errorf("Geolocation = %v/%v, want New York defaults", cfg.Geolocation.Latitude, cfg.Geolocation.Longitude)
	}
	if cfg.Thresholds.GoalBalance != 10.00 || cfg.Thresholds.MinBet != 1.80 {
		t.Errorf("Thresholds = %+v, want goal 10.00 min bet 1.80", cfg.Thresholds)
	}
	if cfg.Thresholds.MinPayout != 50.00 || cfg.Thresholds.MaxPayout != 100.00 {
		t.Errorf("Payout band = [%v,%v], want [50,100]", cfg.Thresholds.MinPayout, cfg.Thresholds.MaxPayout)
	}
	if cfg.GitHub.WorkflowFile != "main.yml" {
		t.Errorf("WorkflowFile = %q, want main.yml", cfg.GitHub.WorkflowFile)
	}
	if cfg.Screenshots.Dir != "screenshots" {
		t.Errorf("Screenshots.Dir = %q, want screenshots", cfg.Screenshots.Dir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FLIFF_USERNAME", "env-user")
	t.Setenv("FLIFF_PASSWORD", "env-pass")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("GITHUB_REPOSITORY", "owner/repo")
	t.Setenv("GEOLOCATION_LATITUDE", "34.0522")
	t.Setenv("GEOLOCATION_LONGITUDE", "-118.2437")

	path := writeConfig(t, "fliff:\n  username: file-user\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Fliff.Username != "env-user" {
		t.Errorf("Username = %q, want env override", cfg.Fliff.Username)
	}
	if cfg.Telegram.ChatID != 12345 {
		t.Errorf("ChatID = %d, want 12345", cfg.Telegram.ChatID)
	}
	if cfg.Geolocation.Latitude != 34.0522 {
		t.Errorf("Latitude = %v, want 34.0522", cfg.Geolocation.Latitude)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil with all env values set", err)
	}
}

func TestValidateMissingValues(t *testing.T) {
	for _, key := range []string{"FLIFF_USERNAME", "FLIFF_PASSWORD", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "GITHUB_TOKEN", "GITHUB_REPOSITORY"} {
		t.Setenv(key, "")
	}
	path := writeConfig(t, "fliff:\n  base_url: https://fliff.com\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	err = cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error for missing credentials")
	}
	for _, want := range []string{"FLIFF_USERNAME", "FLIFF_PASSWORD", "TELEGRAM_BOT_TOKEN", "GITHUB_TOKEN"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %s", err, want)
		}
	}
}

func TestValidatePayoutBand(t *testing.T) {
	path := writeConfig(t, `
fliff:
  username: u
  password: p
telegram:
  bot_token: t
  chat_id: 1
github:
  token: t
  repository: o/r
thresholds:
  min_payout: 100.0
  max_payout: 50.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error for inverted payout band")
	}
}
