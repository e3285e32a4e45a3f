package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/models"
	"github.com/sportnumerics/sportnumerics/internal/ratings"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

const (
	teamPagePlayers = 20
	teamNameMatch   = 0.6
)

// ErrMissingParameter is returned when a lookup is given nothing to look up.
var ErrMissingParameter = errors.New("missing parameter")

func (s *StatsService) TeamPage(ctx context.Context, year, teamID string) (models.TeamPage, error) {
	schedule, err := s.api.GetSchedule(ctx, year, teamID)
	if err != nil {
		return models.TeamPage{}, err
	}
	division, err := s.seasons.CheckDivision(year, schedule.Body.Team.Div)
	if err != nil {
		return models.TeamPage{}, err
	}

	var (
		divisional map[string]models.RankedTeam
		all        map[string]models.RankedTeam
		players    []models.RankedPlayer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		divisional, err = s.GetRankedTeams(gctx, year, division.ID)
		return err
	})
	g.Go(func() error {
		var err error
		all, err = s.AllRankedTeams(gctx, year)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.SortedPlayers(gctx, year, PlayerFilter{Team: teamID})
		if errors.Is(err, source.ErrNotFound) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return models.TeamPage{}, err
	}

	page := models.TeamPage{
		Year:         year,
		Division:     division,
		Team:         schedule.Body.Team,
		Players:      top(players, teamPagePlayers),
		LastModified: schedule.LastModified,
	}
	var ranked *models.RankedTeam
	if t, ok := divisional[teamID]; ok {
		ranked = &t
		page.Rank = t.Rank
		page.Rating = t.Rating
	}
	page.Schedule = ratings.EnrichSchedule(ranked, schedule.Body.Games, divisional, all)
	return page, nil
}

func (s *StatsService) PlayerPage(ctx context.Context, year, playerID string) (models.PlayerPage, error) {
	stats, err := s.api.GetPlayerStats(ctx, year, playerID)
	if err != nil {
		return models.PlayerPage{}, err
	}

	divisional := map[string]models.RankedTeam{}
	if div := stats.Body.Team.Div; div != "" {
		divisional, err = s.GetRankedTeams(ctx, year, div)
		if err != nil && !errors.Is(err, source.ErrNotFound) {
			return models.PlayerPage{}, err
		}
	}
	all, err := s.AllRankedTeams(ctx, year)
	if err != nil {
		return models.PlayerPage{}, err
	}

	return models.PlayerPage{
		Year:         year,
		Player:       stats.Body,
		TeamRank:     all[stats.Body.Team.ID].Rank,
		Games:        ratings.EnrichStatLines(stats.Body.Stats, divisional, all),
		LastModified: stats.LastModified,
	}, nil
}

func (s *StatsService) GamePage(ctx context.Context, year, gameID string) (models.GamePage, error) {
	game, err := s.api.GetGame(ctx, year, gameID)
	if err != nil {
		return models.GamePage{}, err
	}
	all, err := s.AllRankedTeams(ctx, year)
	if err != nil {
		return models.GamePage{}, err
	}
	return models.GamePage{
		Year:         year,
		Game:         game.Body,
		HomeRank:     all[game.Body.HomeTeam.ID].Rank,
		AwayRank:     all[game.Body.AwayTeam.ID].Rank,
		LastModified: game.LastModified,
	}, nil
}

func (s *StatsService) DivisionTeams(ctx context.Context, year, div string) (models.DivisionTeams, error) {
	division, err := s.seasons.CheckDivision(year, div)
	if err != nil {
		return models.DivisionTeams{}, err
	}
	teams, err := s.SortedTeams(ctx, year, div)
	if err != nil {
		return models.DivisionTeams{}, err
	}
	return models.DivisionTeams{Year: year, Division: division, Teams: teams}, nil
}

// DivisionPlayers returns the division's top players. A limit of zero or
// less returns every player.
func (s *StatsService) DivisionPlayers(ctx context.Context, year, div string, limit int) (models.DivisionPlayers, error) {
	division, err := s.seasons.CheckDivision(year, div)
	if err != nil {
		return models.DivisionPlayers{}, err
	}

	var (
		players []models.RankedPlayer
		teams   map[string]models.RankedTeam
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.SortedPlayers(gctx, year, PlayerFilter{Div: div})
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.GetRankedTeams(gctx, year, div)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DivisionPlayers{}, err
	}

	return models.DivisionPlayers{
		Year:     year,
		Division: division,
		Players:  top(players, limit),
		Teams:    teams,
	}, nil
}

// YearOverview lists the top teams of every division with data for the
// season, in registry order.
func (s *StatsService) YearOverview(ctx context.Context, year string, perDivision int) (models.YearOverview, error) {
	divisions := league.Divisions()
	results := make([]models.DivisionTeams, len(divisions))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range divisions {
		g.Go(func() error {
			teams, err := s.SortedTeams(gctx, year, d.ID)
			if errors.Is(err, source.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("ranking %s: %w", d.ID, err)
			}
			results[i] = models.DivisionTeams{Year: year, Division: d, Teams: top(teams, perDivision)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.YearOverview{}, err
	}

	overview := models.YearOverview{Year: year}
	for _, r := range results {
		if len(r.Teams) > 0 {
			overview.Divisions = append(overview.Divisions, r)
		}
	}
	return overview, nil
}

// Matchup projects a hypothetical game between two teams from any
// divisions.
func (s *StatsService) Matchup(ctx context.Context, year, teamID, opponentID string) (models.Matchup, error) {
	all, err := s.AllRankedTeams(ctx, year)
	if err != nil {
		return models.Matchup{}, err
	}
	team, ok := all[teamID]
	if !ok {
		return models.Matchup{}, fmt.Errorf("team %q: %w", teamID, source.ErrNotFound)
	}
	opponent, ok := all[opponentID]
	if !ok {
		return models.Matchup{}, fmt.Errorf("team %q: %w", opponentID, source.ErrNotFound)
	}

	m := models.Matchup{Year: year, Team: team, Opponent: opponent}
	if p, ok := ratings.PredictTeams(team, opponent); ok {
		m.Prediction = &p
	}
	return m, nil
}

type teamMatch struct {
	team       models.RankedTeam
	similarity float64
	contains   bool
}

// SearchTeams returns the season's teams whose name is close to query,
// best match first.
func (s *StatsService) SearchTeams(ctx context.Context, year, query string) ([]models.RankedTeam, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingParameter
	}
	all, err := s.AllRankedTeams(ctx, year)
	if err != nil {
		return nil, err
	}

	var matches []teamMatch
	for _, t := range all {
		name := strings.ToLower(t.Name)
		distance := fuzzy.LevenshteinDistance(strings.ToLower(query), name)
		maxLen := float64(max(len(query), len(name)))
		similarity := 1 - float64(distance)/maxLen
		contains := fuzzy.MatchNormalizedFold(query, t.Name)

		if similarity > teamNameMatch || contains {
			matches = append(matches, teamMatch{team: t, similarity: similarity, contains: contains})
		}
	}

	slices.SortFunc(matches, func(a, b teamMatch) int {
		if a.contains != b.contains {
			if a.contains {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.similarity, a.similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.team.ID, b.team.ID)
	})
	out := make([]models.RankedTeam, len(matches))
	for i, m := range matches {
		out[i] = m.team
	}
	return out, nil
}

// FindTeam returns the single best name match for query.
func (s *StatsService) FindTeam(ctx context.Context, year, query string) (models.RankedTeam, error) {
	teams, err := s.SearchTeams(ctx, year, query)
	if err != nil {
		return models.RankedTeam{}, err
	}
	if len(teams) == 0 {
		return models.RankedTeam{}, fmt.Errorf("team matching %q: %w", query, source.ErrNotFound)
	}
	return teams[0], nil
}

// DivisionQuery names one entity whose division is wanted. The first
// non-empty field is used.
type DivisionQuery struct {
	Team   string
	Player string
	Game   string
}

// DivisionOf resolves the division id of a team, a player's team or a
// game's home team.
func (s *StatsService) DivisionOf(ctx context.Context, year string, q DivisionQuery) (string, error) {
	switch {
	case q.Team != "":
		schedule, err := s.api.GetSchedule(ctx, year, q.Team)
		if err != nil {
			return "", err
		}
		return schedule.Body.Team.Div, nil
	case q.Player != "":
		stats, err := s.api.GetPlayerStats(ctx, year, q.Player)
		if err != nil {
			return "", err
		}
		schedule, err := s.api.GetSchedule(ctx, year, stats.Body.Team.ID)
		if err != nil {
			return "", err
		}
		return schedule.Body.Team.Div, nil
	case q.Game != "":
		game, err := s.api.GetGame(ctx, year, q.Game)
		if err != nil {
			return "", err
		}
		return game.Body.HomeTeam.Div, nil
	default:
		return "", fmt.Errorf("team, player or game: %w", ErrMissingParameter)
	}
}

func top[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
