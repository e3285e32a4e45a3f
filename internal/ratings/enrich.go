package ratings

import "github.com/sportnumerics/sportnumerics/internal/models"

// ResolveOpponent looks an opponent up in the team's own division first
// and then across every division.
func ResolveOpponent(summary models.TeamSummary, divisional, all map[string]models.RankedTeam) models.Opponent {
	if t, ok := divisional[summary.ID]; ok {
		return models.Opponent{Summary: summary, Team: &t, KnownOpponent: true, Divisional: true}
	}
	if t, ok := all[summary.ID]; ok {
		return models.Opponent{Summary: summary, Team: &t, KnownOpponent: true}
	}
	return models.Opponent{Summary: summary}
}

// EnrichSchedule annotates each game with its resolved opponent and, for
// games without a result, a projected score. A recorded result always
// wins over a projection. team may be nil when the team is not on a
// ranked roster, in which case nothing is projected.
func EnrichSchedule(team *models.RankedTeam, games []models.ScheduleGame, divisional, all map[string]models.RankedTeam) []models.ScheduleRow {
	rows := make([]models.ScheduleRow, len(games))
	for i, g := range games {
		row := models.ScheduleRow{
			ID:       g.ID,
			Date:     g.Date,
			Home:     g.Home,
			Opponent: ResolveOpponent(g.Opponent, divisional, all),
		}
		switch {
		case g.Result != nil:
			result := *g.Result
			row.Result = &result
			row.State = models.ResultOnly
		case team != nil && row.Opponent.Team != nil:
			if p, ok := PredictTeams(*team, *row.Opponent.Team); ok {
				row.Prediction = &p
				row.State = models.PredictionOnly
			}
		}
		rows[i] = row
	}
	return rows
}

// EnrichStatLines resolves the opponent of each line in a player's game log.
func EnrichStatLines(lines []models.StatLine, divisional, all map[string]models.RankedTeam) []models.StatLineRow {
	rows := make([]models.StatLineRow, len(lines))
	for i, l := range lines {
		rows[i] = models.StatLineRow{
			StatLine: l,
			Opponent: ResolveOpponent(l.Opponent, divisional, all),
		}
	}
	return rows
}
