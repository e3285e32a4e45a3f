// Package league holds the static division and season registries.
package league

import (
	"fmt"

	"github.com/sportnumerics/sportnumerics/internal/models"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

// ErrNotFound is returned for unknown divisions and seasons. It matches
// source.ErrNotFound so one check covers both.
var ErrNotFound = fmt.Errorf("league: %w", source.ErrNotFound)

var divisions = []models.Division{
	{Name: "NCAA Mens Division I", ID: "ml1", Sport: "ml", Source: "ncaa", Div: "1"},
	{Name: "NCAA Mens Division II", ID: "ml2", Sport: "ml", Source: "ncaa", Div: "2"},
	{Name: "NCAA Mens Division III", ID: "ml3", Sport: "ml", Source: "ncaa", Div: "3"},
	{Name: "NCAA Womens Division I", ID: "wl1", Sport: "wl", Source: "ncaa", Div: "1"},
	{Name: "NCAA Womens Division II", ID: "wl2", Sport: "wl", Source: "ncaa", Div: "2"},
	{Name: "NCAA Womens Division III", ID: "wl3", Sport: "wl", Source: "ncaa", Div: "3"},
	{Name: "MCLA Division I", ID: "mcla1", Sport: "ml", Source: "mcla", Div: "1"},
	{Name: "MCLA Division II", ID: "mcla2", Sport: "ml", Source: "mcla", Div: "2"},
	{Name: "MCLA Division III", ID: "mcla3", Sport: "ml", Source: "mcla", Div: "3"},
}

// Divisions returns a copy of every division in display order.
func Divisions() []models.Division {
	out := make([]models.Division, len(divisions))
	copy(out, divisions)
	return out
}

func Division(id string) (models.Division, error) {
	for _, d := range divisions {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Division{}, fmt.Errorf("division %q: %w", id, ErrNotFound)
}

// RosterKey is the data file holding the roster for the division's vendor.
func RosterKey(year string, d models.Division) string {
	return fmt.Sprintf("%s/%s-teams.json", year, d.Source)
}
