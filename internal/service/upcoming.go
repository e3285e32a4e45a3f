package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sportnumerics/sportnumerics/internal/models"
	"github.com/sportnumerics/sportnumerics/internal/ratings"
)

const upcomingWindow = 14 * 24 * time.Hour

var gameDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// UpcomingGames lists the division's home games from today through the
// next two weeks, grouped by local day. Games with a result carry it;
// the others carry a projection from the away team's point of view when
// the two ratings are comparable.
func (s *StatsService) UpcomingGames(ctx context.Context, year, div string) (models.UpcomingGames, error) {
	division, err := s.seasons.CheckDivision(year, div)
	if err != nil {
		return models.UpcomingGames{}, err
	}

	var (
		games  models.Data[models.GamesByDate]
		rated  models.Data[map[string]models.TeamRating]
		ranked map[string]models.RankedTeam
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		games, err = s.api.GetGames(gctx, year)
		return err
	})
	g.Go(func() error {
		var err error
		rated, err = s.api.GetTeamRatings(gctx, year)
		return err
	})
	g.Go(func() error {
		var err error
		ranked, err = s.GetRankedTeams(gctx, year, div)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.UpcomingGames{}, err
	}

	now := s.clock.Now().In(s.location)
	todayKey := dayKey(now)
	cutoffKey := dayKey(now.Add(upcomingWindow))

	var rows []models.UpcomingRow
	for dateKey, list := range games.Body {
		day, ok := parseGameDate(dateKey, s.location)
		if !ok {
			continue
		}
		key := dayKey(day)
		if key < todayKey || key > cutoffKey {
			continue
		}
		for _, game := range list {
			if game.HomeDiv != div {
				continue
			}
			rows = append(rows, s.upcomingRow(game, day, key, rated.Body, ranked))
		}
	}

	slices.SortStableFunc(rows, func(a, b models.UpcomingRow) int {
		if c := cmp.Compare(a.DayKey, b.DayKey); c != 0 {
			return c
		}
		return a.When.Compare(b.When)
	})

	out := models.UpcomingGames{Year: year, Division: division}
	for _, row := range rows {
		if n := len(out.Days); n > 0 && out.Days[n-1].Key == row.DayKey {
			out.Days[n-1].Games = append(out.Days[n-1].Games, row)
			continue
		}
		out.Days = append(out.Days, models.UpcomingDay{
			Key:   row.DayKey,
			Date:  row.When,
			Today: row.DayKey == todayKey,
			Games: []models.UpcomingRow{row},
		})
	}
	return out, nil
}

func (s *StatsService) upcomingRow(game models.UpcomingGame, day time.Time, key string, rated map[string]models.TeamRating, ranked map[string]models.RankedTeam) models.UpcomingRow {
	row := models.UpcomingRow{
		Game:     game,
		When:     day,
		DayKey:   key,
		HomeRank: ranked[game.HomeTeamID].Rank,
		AwayRank: ranked[game.AwayTeamID].Rank,
	}
	if when, ok := parseGameDate(game.Date, s.location); ok && dayKey(when) == key {
		row.When = when
	}
	if game.Source == "mcla" {
		row.Kickoff = kickoff(game.Date, s.location)
	}

	if game.Result != nil {
		row.State = models.ResultOnly
		return row
	}
	away, awayOK := rated[game.AwayTeamID]
	home, homeOK := rated[game.HomeTeamID]
	if !awayOK || !homeOK {
		return row
	}
	if p, ok := ratings.Predict(&away, &home); ok {
		row.Prediction = &p
		row.State = models.PredictionOnly
	}
	return row
}

// parseGameDate reads a timestamp or a bare date. Values without a zone
// are taken as local to loc.
func parseGameDate(value string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), true
	}
	for _, layout := range gameDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// kickoff is the local start time, or empty when the date carries no
// usable time of day.
func kickoff(value string, loc *time.Location) string {
	t, ok := parseGameDate(value, loc)
	if !ok || len(value) <= len(time.DateOnly) {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 {
		return ""
	}
	return t.Format(time.Kitchen)
}

// DayLabel renders a day heading such as "Today - Saturday, Mar 2, 2024".
func DayLabel(day models.UpcomingDay) string {
	label := fmt.Sprintf("%s, %s", day.Date.Weekday(), day.Date.Format("Jan 2, 2006"))
	if day.Today {
		return "Today - " + label
	}
	return label
}
