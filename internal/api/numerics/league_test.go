package numerics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

type mapSource map[string]string

func (m mapSource) Get(_ context.Context, key string) (source.Object, error) {
	body, ok := m[key]
	if !ok {
		return source.Object{}, source.ErrNotFound
	}
	return source.Object{Body: []byte(body), LastModified: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (m mapSource) List(_ context.Context, _ string) ([]string, error) {
	return nil, source.ErrNotFound
}

func TestGetTeamsKeepsFileOrder(t *testing.T) {
	api := NewAPI(NewClient(mapSource{
		"2024/mcla-teams.json": `[{"id":"a","name":"A","div":"mcla1"},{"id":"b","name":"B","div":"mcla2"}]`,
	}))
	div, _ := league.Division("mcla1")

	teams, err := api.GetTeams(context.Background(), "2024", div)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(teams.Body) != 2 || teams.Body[0].ID != "a" || teams.Body[1].Div != "mcla2" {
		t.Fatalf("unexpected teams: %+v", teams.Body)
	}
	if teams.LastModified.IsZero() {
		t.Fatalf("expected last modified to be carried")
	}
}

func TestGetTeamRatingsKeysByTeam(t *testing.T) {
	api := NewAPI(NewClient(mapSource{
		"2024/team-ratings.json": `[{"team":"a","offense":10.5,"defense":2,"overall":12.5,"group":"ncaa"}]`,
	}))

	ratings, err := api.GetTeamRatings(context.Background(), "2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := ratings.Body["a"]
	if r.Offense != 10.5 || r.Overall == nil || *r.Overall != 12.5 || r.Group != "ncaa" {
		t.Fatalf("unexpected rating: %+v", r)
	}
}

func TestGetScheduleOptionalFields(t *testing.T) {
	api := NewAPI(NewClient(mapSource{
		"2024/schedules/a.json": `{"team":{"id":"a","name":"A","div":"ml1"},"games":[
			{"id":"g1","opponent":{"id":"b","name":"B"},"home":true,"date":"2024-02-01","result":{"points_for":10,"points_against":8}},
			{"opponent":{"id":"c","name":"C"},"home":false,"date":"2024-05-01"}]}`,
	}))

	schedule, err := api.GetSchedule(context.Background(), "2024", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	games := schedule.Body.Games
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0].Result == nil || games[0].Result.PointsFor != 10 {
		t.Fatalf("expected result on first game: %+v", games[0])
	}
	if games[1].Result != nil || games[1].ID != "" {
		t.Fatalf("expected unplayed second game: %+v", games[1])
	}
}

func TestGetGamesAcceptsResultSpellings(t *testing.T) {
	api := NewAPI(NewClient(mapSource{
		"2024/games.json": `{"2024-03-02":[
			{"homeTeamId":"a","awayTeamId":"b","result":{"homeScore":5,"awayScore":3}},
			{"homeTeamId":"c","awayTeamId":"d","result":{"home_score":7,"away_score":9}},
			{"homeTeamId":"e","awayTeamId":"f","result":{"points_for":1,"points_against":2}}]}`,
	}))

	games, err := api.GetGames(context.Background(), "2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	day := games.Body["2024-03-02"]
	if day[0].Result.HomeScore != 5 || day[0].Result.AwayScore != 3 {
		t.Fatalf("unexpected camelCase result: %+v", day[0].Result)
	}
	if day[1].Result.HomeScore != 7 || day[1].Result.AwayScore != 9 {
		t.Fatalf("unexpected snake_case result: %+v", day[1].Result)
	}
	if day[2].Result.HomeScore != 1 || day[2].Result.AwayScore != 2 {
		t.Fatalf("unexpected schedule-style result: %+v", day[2].Result)
	}
}

func TestMissingFileIsNotFound(t *testing.T) {
	api := NewAPI(NewClient(mapSource{}))

	_, err := api.GetPlayerRatings(context.Background(), "1999")
	if !errors.Is(err, source.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDecodeErrorIsNotNotFound(t *testing.T) {
	api := NewAPI(NewClient(mapSource{"2024/games/x.json": `{`}))

	_, err := api.GetGame(context.Background(), "2024", "x")
	if err == nil || errors.Is(err, source.ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestGetTeamRatingsMissingOverall(t *testing.T) {
	api := NewAPI(NewClient(mapSource{
		"2024/team-ratings.json": `[{"team":"a","offense":4,"defense":1}]`,
	}))

	ratings, err := api.GetTeamRatings(context.Background(), "2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r := ratings.Body["a"]; r.Overall != nil {
		t.Fatalf("expected absent overall to stay absent, got %v", *r.Overall)
	}
}
