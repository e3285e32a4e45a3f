package web

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sportnumerics/sportnumerics/internal/models"
)

// path joins escaped segments into a site-relative URL path.
func path(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString("/")
		b.WriteString(url.PathEscape(part))
	}
	return b.String()
}

func decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func optionalDecimal(v *float64) string {
	if v == nil {
		return ""
	}
	return decimal(*v)
}

func score(a, b int) string {
	return fmt.Sprintf("%d-%d", a, b)
}

func kickoffLabel(kickoff string) string {
	if kickoff == "" {
		return "-"
	}
	return kickoff
}

func versus(away, home string) string {
	return away + " @ " + home
}

func outcome(r models.ScheduleResult) string {
	switch {
	case r.PointsFor > r.PointsAgainst:
		return "W"
	case r.PointsFor < r.PointsAgainst:
		return "L"
	default:
		return "T"
	}
}

func faceOffs(f *models.FaceOffResults) string {
	if f == nil {
		return ""
	}
	return score(f.Won, f.Lost)
}

// played reports whether the player shows up in the game's box score.
func played(line models.StatLineRow) bool {
	return line.G > 0 || line.A > 0 || line.GB > 0
}

type profileField struct {
	Label string
	Value string
}

// profile lists the non-empty biographical fields of a player.
func profile(p models.PlayerStats) []profileField {
	number := ""
	if p.Number != 0 {
		number = strconv.Itoa(p.Number)
	}
	var fields []profileField
	for _, f := range []profileField{
		{"Jersey Number", number},
		{"Position", p.Position},
		{"High School", p.HighSchool},
		{"Hometown", p.Hometown},
		{"Class", p.ClassYear},
		{"Eligibility", p.Eligibility},
		{"Height", p.Height},
		{"Weight", p.Weight},
	} {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func singleTeam(page models.TeamPage) map[string]models.RankedTeam {
	return map[string]models.RankedTeam{page.Team.ID: {Team: page.Team, Rank: page.Rank}}
}
