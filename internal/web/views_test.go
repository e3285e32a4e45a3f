package web

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/sportnumerics/sportnumerics/internal/models"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestExternalLinksAreSanitized(t *testing.T) {
	const evil = "javascript:alert(1)"
	pages := map[string]templ.Component{
		"team": TeamPage(models.TeamPage{
			Year: "2024",
			Team: models.Team{ID: "t1", Name: "Johns Hopkins", Schedule: models.Location{URL: evil}},
		}),
		"player": PlayerPage(models.PlayerPage{
			Year:   "2024",
			Player: models.PlayerStats{ID: "p1", Name: "One", ExternalLink: evil},
		}),
		"game": GamePage(models.GamePage{
			Year: "2024",
			Game: models.Game{ID: "g1", ExternalLink: evil},
		}),
	}

	for name, page := range pages {
		body := renderString(t, page)
		if strings.Contains(body, "javascript:") {
			t.Fatalf("%s page rendered an unsafe link: %s", name, body)
		}
		if !strings.Contains(body, "about:invalid#TemplFailedSanitizationURL") {
			t.Fatalf("%s page did not replace the unsafe link: %s", name, body)
		}
	}
}

func TestExternalLinkKeptWhenSafe(t *testing.T) {
	body := renderString(t, GamePage(models.GamePage{
		Year: "2024",
		Game: models.Game{ID: "g1", ExternalLink: "https://stats.example.org/box?g=1&h=2"},
	}))

	if !strings.Contains(body, `href="https://stats.example.org/box?g=1&amp;h=2"`) {
		t.Fatalf("expected escaped external link, got %s", body)
	}
}

func TestTeamLinkEscapesNamesAndPaths(t *testing.T) {
	body := renderString(t, teamLink("2024", models.TeamSummary{ID: "a b", Name: "<Loyola>"}, models.RankOf(3), true))

	want := `<small>3</small> <a href="/2024/teams/a%20b">&lt;Loyola&gt;</a>`
	if body != want {
		t.Fatalf("expected %s, got %s", want, body)
	}

	body = renderString(t, teamLink("2024", models.TeamSummary{Name: "Elsewhere"}, models.Rank{}, false))
	if body != "Elsewhere" {
		t.Fatalf("expected plain name, got %s", body)
	}
}

func TestUpcomingRowScores(t *testing.T) {
	row := models.UpcomingRow{
		Game:       models.UpcomingGame{AwayTeamID: "t1", AwayTeam: "Johns Hopkins", HomeTeamID: "t4", HomeTeam: "Hofstra"},
		Kickoff:    "7:00PM",
		State:      models.PredictionOnly,
		Prediction: &models.Prediction{PointsFor: 8, PointsAgainst: 7},
	}

	body := renderString(t, upcomingRow("2024", row))
	for _, want := range []string{"<td>7:00PM</td>", "Johns Hopkins</a> @ ", "<em>8-7<sup>*</sup></em>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in %s", want, body)
		}
	}
}
