package league

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sportnumerics/sportnumerics/internal/config"
	"github.com/sportnumerics/sportnumerics/internal/models"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

// Seasons is the configured list of candidate seasons. It is built once
// at startup and never mutated.
type Seasons struct {
	years []models.Year
}

func NewSeasons(cfg config.League) *Seasons {
	years := make([]models.Year, 0, len(cfg.Years))
	for _, id := range cfg.Years {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		years = append(years, models.Year{ID: id, Unavailable: strings.Fields(cfg.Unavailable[id])})
	}
	return &Seasons{years: years}
}

func (s *Seasons) Candidates() []models.Year {
	return slices.Clone(s.years)
}

// Available returns the candidate seasons that have a directory in src,
// in candidate order.
func (s *Seasons) Available(ctx context.Context, src source.Source) ([]models.Year, error) {
	present, err := src.List(ctx, "")
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing seasons: %w", err)
	}

	var out []models.Year
	for _, y := range s.years {
		if slices.Contains(present, y.ID) {
			out = append(out, y)
		}
	}
	return out, nil
}

// Latest returns the most recent available season.
func (s *Seasons) Latest(ctx context.Context, src source.Source) (models.Year, error) {
	years, err := s.Available(ctx, src)
	if err != nil {
		return models.Year{}, err
	}
	if len(years) == 0 {
		return models.Year{}, fmt.Errorf("no seasons: %w", ErrNotFound)
	}
	return years[0], nil
}

// CheckDivision fails with ErrNotFound when the division is unknown or
// flagged as having no data for the season.
func (s *Seasons) CheckDivision(year, div string) (models.Division, error) {
	d, err := Division(div)
	if err != nil {
		return models.Division{}, err
	}
	for _, y := range s.years {
		if y.ID == year && slices.Contains(y.Unavailable, div) {
			return models.Division{}, fmt.Errorf("division %q unavailable in %s: %w", div, year, ErrNotFound)
		}
	}
	return d, nil
}
