package numerics

import (
	"context"
	"fmt"

	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) Client() *Client {
	return a.client
}

// GetTeams returns the vendor roster holding the division's teams in file
// order. The roster spans every division of that vendor.
func (a *API) GetTeams(ctx context.Context, year string, division models.Division) (models.Data[[]models.Team], error) {
	var teams []models.Team
	modified, err := a.client.Get(ctx, league.RosterKey(year, division), &teams)
	if err != nil {
		return models.Data[[]models.Team]{}, fmt.Errorf("fetching teams: %w", err)
	}
	return models.Data[[]models.Team]{Body: teams, LastModified: modified}, nil
}

// GetTeamRatings returns the season's team ratings keyed by team id.
func (a *API) GetTeamRatings(ctx context.Context, year string) (models.Data[map[string]models.TeamRating], error) {
	var ratings []models.TeamRating
	modified, err := a.client.Get(ctx, fmt.Sprintf("%s/team-ratings.json", year), &ratings)
	if err != nil {
		return models.Data[map[string]models.TeamRating]{}, fmt.Errorf("fetching team ratings: %w", err)
	}

	byTeam := make(map[string]models.TeamRating, len(ratings))
	for _, r := range ratings {
		byTeam[r.Team] = r
	}
	return models.Data[map[string]models.TeamRating]{Body: byTeam, LastModified: modified}, nil
}

// GetPlayerRatings returns the season's player ratings in file order.
func (a *API) GetPlayerRatings(ctx context.Context, year string) (models.Data[[]models.PlayerRating], error) {
	var ratings []models.PlayerRating
	modified, err := a.client.Get(ctx, fmt.Sprintf("%s/player-ratings.json", year), &ratings)
	if err != nil {
		return models.Data[[]models.PlayerRating]{}, fmt.Errorf("fetching player ratings: %w", err)
	}
	return models.Data[[]models.PlayerRating]{Body: ratings, LastModified: modified}, nil
}

func (a *API) GetSchedule(ctx context.Context, year, team string) (models.Data[models.TeamSchedule], error) {
	var schedule models.TeamSchedule
	modified, err := a.client.Get(ctx, fmt.Sprintf("%s/schedules/%s.json", year, team), &schedule)
	if err != nil {
		return models.Data[models.TeamSchedule]{}, fmt.Errorf("fetching schedule for %s: %w", team, err)
	}
	return models.Data[models.TeamSchedule]{Body: schedule, LastModified: modified}, nil
}

func (a *API) GetPlayerStats(ctx context.Context, year, player string) (models.Data[models.PlayerStats], error) {
	var stats models.PlayerStats
	modified, err := a.client.Get(ctx, fmt.Sprintf("%s/players/%s.json", year, player), &stats)
	if err != nil {
		return models.Data[models.PlayerStats]{}, fmt.Errorf("fetching player %s: %w", player, err)
	}
	return models.Data[models.PlayerStats]{Body: stats, LastModified: modified}, nil
}

func (a *API) GetGame(ctx context.Context, year, game string) (models.Data[models.Game], error) {
	var g models.Game
	modified, err := a.client.Get(ctx, fmt.Sprintf("%s/games/%s.json", year, game), &g)
	if err != nil {
		return models.Data[models.Game]{}, fmt.Errorf("fetching game %s: %w", game, err)
	}
	return models.Data[models.Game]{Body: g, LastModified: modified}, nil
}

// GetGames returns the season's game list grouped by date key.
func (a *API) GetGames(ctx context.Context, year string) (models.Data[models.GamesByDate], error) {
	var games models.GamesByDate
	modified, err := a.client.Get(ctx, fmt.Sprintf("%s/games.json", year), &games)
	if err != nil {
		return models.Data[models.GamesByDate]{}, fmt.Errorf("fetching games: %w", err)
	}
	return models.Data[models.GamesByDate]{Body: games, LastModified: modified}, nil
}
