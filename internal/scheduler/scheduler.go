package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"github.com/sportnumerics/sportnumerics/internal/config"
	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/service"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

const (
	digestTeams = 10
	jobTimeout  = 2 * time.Minute
)

type Scheduler struct {
	s            gocron.Scheduler
	cfg          config.Scheduler
	statsService *service.StatsService
	purge        func()
	sendMessage  func(string) error
}

// NewScheduler prepares the cache warm-up and weekly digest jobs. purge
// and sendMessage may be nil; without sendMessage no digest is posted.
func NewScheduler(cfg config.Scheduler, statsService *service.StatsService, purge func(), sendMessage func(string) error, opts ...gocron.SchedulerOption) (*Scheduler, error) {
	if _, err := cron.ParseStandard(cfg.RefreshCron); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshCron, err)
	}

	location, err := time.LoadLocation(cfg.Location)
	if err != nil {
		slog.Error("Failed to load location", "location", cfg.Location, "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(append([]gocron.SchedulerOption{gocron.WithLocation(location)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:            s,
		cfg:          cfg,
		statsService: statsService,
		purge:        purge,
		sendMessage:  sendMessage,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	// Cache warm-up, also run once at startup
	_, err = s.s.NewJob(
		gocron.CronJob(s.cfg.RefreshCron, false),
		gocron.NewTask(s.warmUp),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create warm-up job: %w", err)
	}

	// Weekly rankings - Monday 7:30 local
	if s.sendMessage != nil {
		_, err = s.s.NewJob(
			gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
			gocron.NewTask(s.sendDigest),
		)
		if err != nil {
			return fmt.Errorf("failed to create digest job: %w", err)
		}
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// warmUp loads the current season's rankings for every division so the
// first page views are served from cache.
func (s *Scheduler) warmUp() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if s.purge != nil {
		s.purge()
	}

	year, err := s.statsService.LatestYear(ctx)
	if err != nil {
		slog.Error("Failed to resolve current season", "error", err)
		return
	}

	warmed := 0
	for _, d := range league.Divisions() {
		_, err := s.statsService.GetRankedTeams(ctx, year, d.ID)
		if errors.Is(err, source.ErrNotFound) {
			continue
		}
		if err != nil {
			slog.Error("Failed to warm division", "year", year, "division", d.ID, "error", err)
			continue
		}
		warmed++
	}
	if _, err := s.statsService.GetRankedPlayers(ctx, year, service.PlayerFilter{}); err != nil && !errors.Is(err, source.ErrNotFound) {
		slog.Error("Failed to warm player ratings", "year", year, "error", err)
	}
	slog.Info("Cache warmed", "year", year, "divisions", warmed)
}

func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.statsService.GetWeeklyDigest(ctx, s.cfg.DigestDivisions, digestTeams)
	if err != nil {
		slog.Error("Failed to get weekly digest", "error", err)
		return
	}
	if err := s.sendMessage(report); err != nil {
		slog.Error("Failed to send weekly digest", "error", err)
	}
}
