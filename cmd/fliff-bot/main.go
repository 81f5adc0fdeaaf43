package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ducky705/AutoFliff/internal/automator"
	"github.com/Ducky705/AutoFliff/internal/notify"
	"github.com/Ducky705/AutoFliff/internal/orchestrator"
	pkgconfig "github.com/Ducky705/AutoFliff/internal/pkg/config"
	"github.com/Ducky705/AutoFliff/internal/pkg/logging"
	"github.com/Ducky705/AutoFliff/internal/pkg/storage"
	"github.com/Ducky705/AutoFliff/internal/workflow"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("Bot execution interrupted")
			os.Exit(0)
		}
		slog.Error("Fatal error in bot execution", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseFlags()

	slog.Info("Loading config", "path", configPath)
	cfg, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := logging.SetupLogger(&cfg.Logging, "fliff-bot"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	auto, err := automator.New(automator.Config{
		BaseURL:       cfg.Fliff.BaseURL,
		Username:      cfg.Fliff.Username,
		Password:      cfg.Fliff.Password,
		Latitude:      cfg.Geolocation.Latitude,
		Longitude:     cfg.Geolocation.Longitude,
		ScreenshotDir: cfg.Screenshots.Dir,
	})
	if err != nil {
		return fmt.Errorf("failed to create automator: %w", err)
	}

	notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return fmt.Errorf("failed to create telegram notifier: %w", err)
	}

	wf, err := workflow.NewManager(cfg.GitHub.Token, cfg.GitHub.Repository, cfg.GitHub.WorkflowFile)
	if err != nil {
		return fmt.Errorf("failed to create workflow manager: %w", err)
	}

	var runs storage.RunStorage
	if cfg.Postgres.DSN != "" {
		pg, err := storage.NewPostgresRunStorage(&cfg.Postgres)
		if err != nil {
			slog.Warn("Run history disabled, failed to connect to postgres", "error", err)
		} else {
			runs = pg
			defer pg.Close()
		}
	}

	o := orchestrator.New(auto, notifier, wf, runs, orchestrator.Thresholds{
		GoalBalance: cfg.Thresholds.GoalBalance,
		MinBet:      cfg.Thresholds.MinBet,
		MinPayout:   cfg.Thresholds.MinPayout,
		MaxPayout:   cfg.Thresholds.MaxPayout,
	})

	return o.Run(ctx)
}

func parseFlags() string {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	var configPath string
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.Parse()
	return configPath
}
