package ratings

import (
	"testing"

	"github.com/sportnumerics/sportnumerics/internal/models"
)

func rankedTeam(id, div string, rank int, rating *models.TeamRating) models.RankedTeam {
	t := models.RankedTeam{Team: models.Team{ID: id, Name: id, Div: div}, Rating: rating}
	if rank > 0 {
		t.Rank = models.RankOf(rank)
	}
	return t
}

func TestEnrichScheduleResolvesOpponents(t *testing.T) {
	self := rankedTeam("self", "ml1", 1, &models.TeamRating{Offense: 12, Defense: 3, Group: "ncaa"})
	divisional := map[string]models.RankedTeam{
		"self": self,
		"div":  rankedTeam("div", "ml1", 2, &models.TeamRating{Offense: 9, Defense: 4, Group: "ncaa"}),
	}
	all := map[string]models.RankedTeam{
		"self":  self,
		"div":   divisional["div"],
		"other": rankedTeam("other", "ml2", 1, &models.TeamRating{Offense: 9, Defense: 4, Group: "ncaa2"}),
	}
	games := []models.ScheduleGame{
		{Opponent: models.TeamSummary{ID: "div", Name: "Div"}, Date: "2024-03-01"},
		{Opponent: models.TeamSummary{ID: "other", Name: "Other"}, Date: "2024-03-02"},
		{Opponent: models.TeamSummary{ID: "nobody", Name: "Nobody"}, Date: "2024-03-03"},
	}

	rows := EnrichSchedule(&self, games, divisional, all)

	if o := rows[0].Opponent; !o.KnownOpponent || !o.Divisional || o.Rank().Value != 2 {
		t.Fatalf("expected divisional opponent ranked 2, got %+v", o)
	}
	if o := rows[1].Opponent; !o.KnownOpponent || o.Divisional {
		t.Fatalf("expected known cross-division opponent, got %+v", o)
	}
	if o := rows[2].Opponent; o.KnownOpponent || o.Divisional || o.Team != nil {
		t.Fatalf("expected unknown opponent, got %+v", o)
	}
	if rows[2].Opponent.Summary.Name != "Nobody" {
		t.Fatalf("expected bare summary to be kept")
	}
}

func TestEnrichScheduleResultTakesPrecedence(t *testing.T) {
	self := rankedTeam("self", "ml1", 1, &models.TeamRating{Offense: 12, Defense: 3, Group: "ncaa"})
	opp := rankedTeam("opp", "ml1", 2, &models.TeamRating{Offense: 9, Defense: 4, Group: "ncaa"})
	divisional := map[string]models.RankedTeam{"self": self, "opp": opp}
	games := []models.ScheduleGame{
		{ID: "g1", Opponent: models.TeamSummary{ID: "opp"}, Result: &models.ScheduleResult{PointsFor: 3, PointsAgainst: 4}},
		{Opponent: models.TeamSummary{ID: "opp"}},
	}

	rows := EnrichSchedule(&self, games, divisional, divisional)

	if rows[0].State != models.ResultOnly || rows[0].Prediction != nil || rows[0].Result == nil {
		t.Fatalf("played game should show only its result: %+v", rows[0])
	}
	if rows[1].State != models.PredictionOnly || rows[1].Prediction == nil || rows[1].Result != nil {
		t.Fatalf("unplayed comparable game should show one projection: %+v", rows[1])
	}
	if p := *rows[1].Prediction; p.PointsFor != 8 || p.PointsAgainst != 6 {
		t.Fatalf("expected 8-6, got %d-%d", p.PointsFor, p.PointsAgainst)
	}
}

func TestEnrichScheduleNoPredictionAcrossGroups(t *testing.T) {
	self := rankedTeam("self", "ml1", 1, &models.TeamRating{Offense: 12, Defense: 3, Group: "ncaa"})
	all := map[string]models.RankedTeam{
		"other":   rankedTeam("other", "mcla1", 1, &models.TeamRating{Offense: 9, Defense: 4, Group: "mcla"}),
		"unrated": rankedTeam("unrated", "ml1", 0, nil),
	}
	games := []models.ScheduleGame{
		{Opponent: models.TeamSummary{ID: "other"}},
		{Opponent: models.TeamSummary{ID: "unrated"}},
		{Opponent: models.TeamSummary{ID: "missing"}},
	}

	rows := EnrichSchedule(&self, games, nil, all)

	for i, row := range rows {
		if row.State != models.NoResultNoPrediction || row.Prediction != nil {
			t.Fatalf("row %d: expected no prediction, got %+v", i, row)
		}
	}
}

func TestEnrichScheduleWithoutTeam(t *testing.T) {
	opp := rankedTeam("opp", "ml1", 1, &models.TeamRating{Offense: 9, Defense: 4, Group: "ncaa"})
	rows := EnrichSchedule(nil, []models.ScheduleGame{{Opponent: models.TeamSummary{ID: "opp"}}}, map[string]models.RankedTeam{"opp": opp}, nil)

	if rows[0].State != models.NoResultNoPrediction {
		t.Fatalf("expected no prediction for unknown team, got %v", rows[0].State)
	}
	if !rows[0].Opponent.Divisional {
		t.Fatalf("expected opponent still resolved")
	}
}

func TestEnrichStatLines(t *testing.T) {
	divisional := map[string]models.RankedTeam{"opp": rankedTeam("opp", "ml1", 4, &models.TeamRating{Group: "ncaa"})}
	lines := []models.StatLine{
		{GameID: "g1", Opponent: models.TeamSummary{ID: "opp"}, G: 2},
		{GameID: "g2", Opponent: models.TeamSummary{ID: "x", Name: "X"}, A: 1},
	}

	rows := EnrichStatLines(lines, divisional, nil)

	if !rows[0].Opponent.KnownOpponent || rows[0].Opponent.Rank().Value != 4 || rows[0].G != 2 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Opponent.KnownOpponent || rows[1].A != 1 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}
