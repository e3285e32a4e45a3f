package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sportnumerics/sportnumerics/internal/models"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

func TestUpcomingGamesWindowAndProjections(t *testing.T) {
	s := newTestService(t, fixture)

	upcoming, err := s.UpcomingGames(context.Background(), "2024", "ml1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(upcoming.Days) != 3 {
		t.Fatalf("expected 3 days, got %d: %+v", len(upcoming.Days), upcoming.Days)
	}

	today := upcoming.Days[0]
	if today.Key != "2024-03-01" || !today.Today || len(today.Games) != 1 {
		t.Fatalf("unexpected first day: %+v", today)
	}
	tonight := today.Games[0]
	if tonight.Kickoff != "7:00PM" {
		t.Fatalf("unexpected kickoff: %q", tonight.Kickoff)
	}
	if tonight.HomeRank != models.RankOf(2) || tonight.AwayRank.Valid {
		t.Fatalf("unexpected ranks: home=%v away=%v", tonight.HomeRank, tonight.AwayRank)
	}
	if tonight.State != models.NoResultNoPrediction {
		t.Fatalf("expected no projection with an unrated team, got %v", tonight.State)
	}

	tomorrow := upcoming.Days[1]
	if tomorrow.Today || len(tomorrow.Games) != 1 {
		t.Fatalf("expected only the home-division game: %+v", tomorrow)
	}
	projected := tomorrow.Games[0]
	if projected.State != models.PredictionOnly || *projected.Prediction != (models.Prediction{PointsFor: 8, PointsAgainst: 7}) {
		t.Fatalf("unexpected away-first projection: %+v", projected)
	}

	played := upcoming.Days[2].Games[0]
	if played.State != models.ResultOnly || played.Prediction != nil {
		t.Fatalf("expected result to win over projection: %+v", played)
	}
	if played.Game.Result.HomeScore != 14 || played.Game.Result.AwayScore != 4 {
		t.Fatalf("unexpected result: %+v", played.Game.Result)
	}
}

func TestUpcomingGamesWithoutGameFile(t *testing.T) {
	src := mapSource{}
	for k, v := range fixture {
		if k != "2024/games.json" {
			src[k] = v
		}
	}
	s := newTestService(t, src)

	if _, err := s.UpcomingGames(context.Background(), "2024", "ml1"); !errors.Is(err, source.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// gatedSource holds back games.json until team ratings have been
// requested, so a sequential read of the two never completes.
type gatedSource struct {
	mapSource
	once        sync.Once
	ratingsRead chan struct{}
}

func (g *gatedSource) Get(ctx context.Context, key string) (source.Object, error) {
	switch key {
	case "2024/team-ratings.json":
		g.once.Do(func() { close(g.ratingsRead) })
	case "2024/games.json":
		select {
		case <-g.ratingsRead:
		case <-time.After(time.Second):
			return source.Object{}, errors.New("games read before ratings were requested")
		}
	}
	return g.mapSource.Get(ctx, key)
}

func TestUpcomingGamesFetchesConcurrently(t *testing.T) {
	s := newTestService(t, &gatedSource{mapSource: fixture, ratingsRead: make(chan struct{})})

	upcoming, err := s.UpcomingGames(context.Background(), "2024", "ml1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(upcoming.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(upcoming.Days))
	}
}

func TestParseGameDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	got, ok := parseGameDate("2024-03-02T02:00:00Z", loc)
	if !ok || dayKey(got) != "2024-03-01" {
		t.Fatalf("expected UTC timestamp to fall on the previous local day, got %v", got)
	}

	got, ok = parseGameDate("2024-03-02", loc)
	if !ok || dayKey(got) != "2024-03-02" || got.Location() != loc {
		t.Fatalf("expected bare date in local zone, got %v", got)
	}

	if _, ok := parseGameDate("soon", loc); ok {
		t.Fatalf("expected unparseable date to be rejected")
	}

	if kickoff("2024-03-02", loc) != "" || kickoff("2024-03-02T00:00:00", loc) != "" {
		t.Fatalf("expected no kickoff without a time of day")
	}
}

func TestDayLabel(t *testing.T) {
	day := models.UpcomingDay{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Today: true}
	if got := DayLabel(day); got != "Today - Saturday, Mar 2, 2024" {
		t.Fatalf("unexpected label: %q", got)
	}
}
