package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/sportnumerics/sportnumerics/internal/api/numerics"
	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/models"
	"github.com/sportnumerics/sportnumerics/internal/ratings"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

type StatsService struct {
	api      *numerics.API
	seasons  *league.Seasons
	clock    clockwork.Clock
	location *time.Location
}

func NewStatsService(api *numerics.API, seasons *league.Seasons, clock clockwork.Clock, location *time.Location) *StatsService {
	if location == nil {
		location = time.UTC
	}
	return &StatsService{api: api, seasons: seasons, clock: clock, location: location}
}

// PlayerFilter narrows the players that are ranked together. Empty
// fields do not filter.
type PlayerFilter struct {
	Team string
	Div  string
}

// GetRankedTeams joins the division's roster with the season's team
// ratings and ranks the result by overall rating. Teams without a rating
// stay in the map unranked.
func (s *StatsService) GetRankedTeams(ctx context.Context, year, div string) (map[string]models.RankedTeam, error) {
	teams, err := s.SortedTeams(ctx, year, div)
	if err != nil {
		return nil, err
	}
	return ratings.TeamMap(teams), nil
}

// SortedTeams is GetRankedTeams ordered by rank.
func (s *StatsService) SortedTeams(ctx context.Context, year, div string) ([]models.RankedTeam, error) {
	division, err := s.seasons.CheckDivision(year, div)
	if err != nil {
		return nil, err
	}

	var (
		roster models.Data[[]models.Team]
		rated  models.Data[map[string]models.TeamRating]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.api.GetTeams(gctx, year, division)
		return err
	})
	g.Go(func() error {
		var err error
		rated, err = s.api.GetTeamRatings(gctx, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	teams := make([]models.RankedTeam, 0, len(roster.Body))
	for _, t := range roster.Body {
		if t.Div != div {
			continue
		}
		team := models.RankedTeam{Team: t}
		if r, ok := rated.Body[t.ID]; ok {
			team.Rating = &r
		}
		teams = append(teams, team)
	}
	return dedupeTeams(ratings.RankTeams(teams)), nil
}

// GetRankedPlayers ranks the season's player ratings by points within the
// filtered subset.
func (s *StatsService) GetRankedPlayers(ctx context.Context, year string, filter PlayerFilter) (map[string]models.RankedPlayer, error) {
	players, err := s.SortedPlayers(ctx, year, filter)
	if err != nil {
		return nil, err
	}
	return ratings.PlayerMap(players), nil
}

func (s *StatsService) SortedPlayers(ctx context.Context, year string, filter PlayerFilter) ([]models.RankedPlayer, error) {
	var (
		inDivision map[string]bool
		players    models.Data[[]models.PlayerRating]
	)
	g, gctx := errgroup.WithContext(ctx)
	if filter.Div != "" {
		division, err := s.seasons.CheckDivision(year, filter.Div)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			roster, err := s.api.GetTeams(gctx, year, division)
			if err != nil {
				return err
			}
			inDivision = make(map[string]bool, len(roster.Body))
			for _, t := range roster.Body {
				inDivision[t.ID] = t.Div == filter.Div
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		players, err = s.api.GetPlayerRatings(gctx, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := make([]models.PlayerRating, 0, len(players.Body))
	for _, p := range players.Body {
		if filter.Div != "" && !inDivision[p.Team.ID] {
			continue
		}
		if filter.Team != "" && p.Team.ID != filter.Team {
			continue
		}
		filtered = append(filtered, p)
	}
	return dedupePlayers(ratings.RankPlayers(filtered)), nil
}

// AllRankedTeams merges every division's ranked teams for the season.
// Divisions without data are skipped. Ranks are divisional.
func (s *StatsService) AllRankedTeams(ctx context.Context, year string) (map[string]models.RankedTeam, error) {
	var (
		mu  sync.Mutex
		all = make(map[string]models.RankedTeam)
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, d := range league.Divisions() {
		g.Go(func() error {
			teams, err := s.SortedTeams(gctx, year, d.ID)
			if errors.Is(err, source.ErrNotFound) {
				slog.Debug("No data for division", "year", year, "division", d.ID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("ranking %s: %w", d.ID, err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, t := range teams {
				all[t.ID] = t
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

// Years returns the configured seasons that have data.
func (s *StatsService) Years(ctx context.Context) ([]models.Year, error) {
	return s.seasons.Available(ctx, s.api.Client().Source())
}

func (s *StatsService) LatestYear(ctx context.Context) (string, error) {
	y, err := s.seasons.Latest(ctx, s.api.Client().Source())
	if err != nil {
		return "", err
	}
	return y.ID, nil
}

// dedupeTeams keeps the last record for a repeated id, in the position of
// the last occurrence, so the slice agrees with the keyed view.
func dedupeTeams(teams []models.RankedTeam) []models.RankedTeam {
	return dedupe(teams, func(t models.RankedTeam) string { return t.ID })
}

func dedupePlayers(players []models.RankedPlayer) []models.RankedPlayer {
	return dedupe(players, func(p models.RankedPlayer) string { return p.ID })
}

func dedupe[T any](items []T, id func(T) string) []T {
	last := make(map[string]int, len(items))
	for i, item := range items {
		last[id(item)] = i
	}
	if len(last) == len(items) {
		return items
	}
	out := make([]T, 0, len(last))
	for i, item := range items {
		if last[id(item)] == i {
			out = append(out, item)
		}
	}
	return out
}
