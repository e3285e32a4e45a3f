package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/sportnumerics/sportnumerics/internal/api/numerics"
	"github.com/sportnumerics/sportnumerics/internal/config"
	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/service"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

type recordingSource struct {
	mu      sync.Mutex
	objects map[string]string
	reads   []string
}

func (r *recordingSource) Get(_ context.Context, key string) (source.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads = append(r.reads, key)
	body, ok := r.objects[key]
	if !ok {
		return source.Object{}, source.ErrNotFound
	}
	return source.Object{Body: []byte(body)}, nil
}

func (r *recordingSource) List(_ context.Context, _ string) ([]string, error) {
	return []string{"2024"}, nil
}

func (r *recordingSource) read(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.reads {
		if k == key {
			return true
		}
	}
	return false
}

func newTestStats() (*service.StatsService, *recordingSource) {
	src := &recordingSource{objects: map[string]string{
		"2024/ncaa-teams.json":     `[{"id":"t1","name":"Johns Hopkins","div":"ml1"}]`,
		"2024/team-ratings.json":   `[{"team":"t1","offense":12,"defense":2,"overall":10,"group":"ncaa"}]`,
		"2024/player-ratings.json": `[]`,
	}}
	seasons := league.NewSeasons(config.League{Years: []string{"2024"}})
	return service.NewStatsService(numerics.NewAPI(numerics.NewClient(src)), seasons, clockwork.NewFakeClock(), time.UTC), src
}

func testConfig() config.Scheduler {
	return config.Scheduler{
		RefreshCron:     "*/10 * * * *",
		DigestDivisions: []string{"ml1", "mcla1"},
		Location:        "America/Chicago",
	}
}

func TestNewSchedulerRejectsBadCron(t *testing.T) {
	stats, _ := newTestStats()
	cfg := testConfig()
	cfg.RefreshCron = "every ten minutes"

	if _, err := NewScheduler(cfg, stats, nil, nil); err == nil {
		t.Fatalf("expected invalid cron to be rejected")
	}
}

func TestStartRegistersJobs(t *testing.T) {
	stats, _ := newTestStats()

	withDigest, err := NewScheduler(testConfig(), stats, nil, func(string) error { return nil }, gocron.WithClock(clockwork.NewFakeClock()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := withDigest.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer withDigest.Stop()
	if n := len(withDigest.s.Jobs()); n != 2 {
		t.Fatalf("expected warm-up and digest jobs, got %d", n)
	}

	warmOnly, err := NewScheduler(testConfig(), stats, nil, nil, gocron.WithClock(clockwork.NewFakeClock()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := warmOnly.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer warmOnly.Stop()
	if n := len(warmOnly.s.Jobs()); n != 1 {
		t.Fatalf("expected only the warm-up job without a bot, got %d", n)
	}
}

func TestWarmUpLoadsCurrentSeason(t *testing.T) {
	stats, src := newTestStats()
	purged := 0
	s, err := NewScheduler(testConfig(), stats, func() { purged++ }, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.warmUp()

	if purged != 1 {
		t.Fatalf("expected cache purge, got %d", purged)
	}
	for _, key := range []string{"2024/ncaa-teams.json", "2024/mcla-teams.json", "2024/team-ratings.json", "2024/player-ratings.json"} {
		if !src.read(key) {
			t.Fatalf("expected %s to be read", key)
		}
	}
}

func TestSendDigest(t *testing.T) {
	stats, _ := newTestStats()
	var sent []string
	s, err := NewScheduler(testConfig(), stats, nil, func(text string) error {
		sent = append(sent, text)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.sendDigest()

	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	if !strings.Contains(sent[0], "Weekly Rankings (2024)") || !strings.Contains(sent[0], "1. *Johns Hopkins*") {
		t.Fatalf("unexpected digest: %s", sent[0])
	}
	if strings.Contains(sent[0], "MCLA") {
		t.Fatalf("division without data should be skipped: %s", sent[0])
	}
}

func TestSendDigestLogsSendFailure(t *testing.T) {
	stats, _ := newTestStats()
	calls := 0
	s, err := NewScheduler(testConfig(), stats, nil, func(string) error {
		calls++
		return errors.New("chat ID not set")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.sendDigest()

	if calls != 1 {
		t.Fatalf("expected a send attempt, got %d", calls)
	}
}
