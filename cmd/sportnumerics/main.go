package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/sportnumerics/sportnumerics/internal/api/numerics"
	"github.com/sportnumerics/sportnumerics/internal/bot"
	"github.com/sportnumerics/sportnumerics/internal/config"
	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/scheduler"
	"github.com/sportnumerics/sportnumerics/internal/service"
	"github.com/sportnumerics/sportnumerics/internal/source"
	"github.com/sportnumerics/sportnumerics/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	origin, err := source.New(ctx, cfg.Data)
	if err != nil {
		return err
	}
	clock := clockwork.NewRealClock()
	cached := source.NewCachedSource(origin, cfg.Data.CacheTTL, clock)

	location, err := time.LoadLocation(cfg.Scheduler.Location)
	if err != nil {
		slog.Error("Failed to load location", "location", cfg.Scheduler.Location, "error", err)
		location = time.UTC
	}

	numericsAPI := numerics.NewAPI(numerics.NewClient(cached))
	statsService := service.NewStatsService(numericsAPI, league.NewSeasons(cfg.League), clock, location)

	var health web.HealthCheck
	if s3Source, ok := origin.(*source.S3Source); ok {
		health = web.HealthCheck{Bucket: s3Source.Bucket(), Check: cached.Check}
	}

	var sendMessage func(string) error
	if cfg.TelegramBot.Enabled() {
		telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, statsService)
		if err != nil {
			return err
		}
		sendMessage = telegramBot.SendMessage

		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	} else {
		slog.Info("Telegram bot disabled, TELEGRAM_TOKEN not set")
	}

	sched, err := scheduler.NewScheduler(cfg.Scheduler, statsService, cached.Purge, sendMessage)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	server := &http.Server{
		Addr: ":" + cfg.HTTP.Port,
		Handler: web.NewServer(web.Dependencies{
			Stats:  statsService,
			Health: health,
			Build:  cfg.Build,
			Clock:  clock,
		}).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "addr", server.Addr, "environment", cfg.Build.Environment, "git_sha", cfg.Build.GitSHA)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
