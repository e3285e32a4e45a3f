package ratings

import (
	"testing"

	"github.com/sportnumerics/sportnumerics/internal/models"
)

func TestPredictOffenseMinusDefense(t *testing.T) {
	a := &models.TeamRating{Team: "A", Offense: 30, Defense: 10, Group: "D1"}
	b := &models.TeamRating{Team: "B", Offense: 22, Defense: 15, Group: "D1"}

	p, ok := Predict(a, b)
	if !ok {
		t.Fatalf("expected a prediction")
	}
	if p.PointsFor != 15 || p.PointsAgainst != 12 {
		t.Fatalf("expected 15-12, got %d-%d", p.PointsFor, p.PointsAgainst)
	}
}

func TestPredictRequiresSameNonEmptyGroup(t *testing.T) {
	cases := []struct {
		name   string
		ga, gb string
	}{
		{"different", "D1", "D2"},
		{"left empty", "", "D1"},
		{"right empty", "D1", ""},
		{"both empty", "", ""},
	}
	for _, c := range cases {
		a := &models.TeamRating{Offense: 10, Defense: 5, Group: c.ga}
		b := &models.TeamRating{Offense: 10, Defense: 5, Group: c.gb}
		if _, ok := Predict(a, b); ok {
			t.Fatalf("%s: expected no prediction", c.name)
		}
	}
}

func TestPredictNilRating(t *testing.T) {
	a := &models.TeamRating{Group: "D1"}
	if _, ok := Predict(a, nil); ok {
		t.Fatalf("expected no prediction for missing rating")
	}
	if _, ok := PredictTeams(models.RankedTeam{}, models.RankedTeam{Rating: a}); ok {
		t.Fatalf("expected no prediction for unrated team")
	}
}

func TestPredictClampsAtZero(t *testing.T) {
	a := &models.TeamRating{Offense: 2, Defense: 20, Group: "g"}
	b := &models.TeamRating{Offense: 25, Defense: 9, Group: "g"}

	p, ok := Predict(a, b)
	if !ok {
		t.Fatalf("expected a prediction")
	}
	if p.PointsFor != 0 {
		t.Fatalf("expected negative projection clamped to 0, got %d", p.PointsFor)
	}
	if p.PointsAgainst != 5 {
		t.Fatalf("expected 5, got %d", p.PointsAgainst)
	}
}

func TestPredictRoundsHalfUp(t *testing.T) {
	a := &models.TeamRating{Offense: 14.5, Defense: 0.5, Group: "g"}
	b := &models.TeamRating{Offense: 10, Defense: 0, Group: "g"}

	p, _ := Predict(a, b)
	if p.PointsFor != 15 {
		t.Fatalf("expected 14.5 to round to 15, got %d", p.PointsFor)
	}
	if p.PointsAgainst != 10 {
		t.Fatalf("expected 9.5 to round to 10, got %d", p.PointsAgainst)
	}

	a = &models.TeamRating{Offense: 0, Defense: 0, Group: "g"}
	b = &models.TeamRating{Offense: 0, Defense: 0.5, Group: "g"}
	p, _ = Predict(a, b)
	if p.PointsFor != 0 {
		t.Fatalf("expected -0.5 to floor at 0, got %d", p.PointsFor)
	}
}

func TestPredictIsSymmetric(t *testing.T) {
	ratings := []*models.TeamRating{
		{Offense: 12.3, Defense: 4.4, Group: "g"},
		{Offense: 8.7, Defense: 9.9, Group: "g"},
		{Offense: 1, Defense: 15, Group: "g"},
		{Offense: 20.5, Defense: -2.5, Group: "g"},
	}
	for _, a := range ratings {
		for _, b := range ratings {
			ab, ok1 := Predict(a, b)
			ba, ok2 := Predict(b, a)
			if !ok1 || !ok2 {
				t.Fatalf("expected predictions for comparable pair")
			}
			if ab != ba.Swap() {
				t.Fatalf("asymmetric prediction: %+v vs %+v", ab, ba)
			}
			if ab.PointsFor < 0 || ab.PointsAgainst < 0 {
				t.Fatalf("negative prediction: %+v", ab)
			}
		}
	}
}
