package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/models"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

const teamReportGames = 5

func (s *StatsService) resolveYear(ctx context.Context, year string) (string, error) {
	if year != "" {
		return year, nil
	}
	latest, err := s.LatestYear(ctx)
	if err != nil {
		return "", fmt.Errorf("error resolving current season: %w", err)
	}
	return latest, nil
}

func (s *StatsService) GetDivisions() string {
	var sb strings.Builder
	sb.WriteString("📚 *Divisions*\n\n")
	for _, d := range league.Divisions() {
		sb.WriteString(fmt.Sprintf("`%s` %s\n", d.ID, d.Name))
	}
	return sb.String()
}

func (s *StatsService) GetTopTeams(ctx context.Context, year, div string, n int) (string, error) {
	year, err := s.resolveYear(ctx, year)
	if err != nil {
		return "", err
	}
	page, err := s.DivisionTeams(ctx, year, div)
	if err != nil {
		return "", fmt.Errorf("error fetching teams: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 *%s Top %d (%s)*\n\n", page.Division.Name, n, year))
	writeTeams(&sb, top(page.Teams, n))
	return sb.String(), nil
}

func writeTeams(sb *strings.Builder, teams []models.RankedTeam) {
	if len(teams) == 0 || !teams[0].Rank.Valid {
		sb.WriteString("No ratings available yet.\n")
		return
	}
	for _, t := range teams {
		if !t.Rank.Valid {
			break
		}
		sb.WriteString(fmt.Sprintf("%d. *%s*", t.Rank.Value, escape(t.Name)))
		sb.WriteString(fmt.Sprintf(" (%.2f)\n", *t.Rating.Overall))
	}
}

func (s *StatsService) GetTopPlayers(ctx context.Context, year, div string, n int) (string, error) {
	year, err := s.resolveYear(ctx, year)
	if err != nil {
		return "", err
	}
	page, err := s.DivisionPlayers(ctx, year, div, n)
	if err != nil {
		return "", fmt.Errorf("error fetching players: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🥍 *%s Top Players (%s)*\n\n", page.Division.Name, year))
	if len(page.Players) == 0 {
		sb.WriteString("No player ratings available yet.")
		return sb.String(), nil
	}
	for _, p := range page.Players {
		sb.WriteString(fmt.Sprintf("%s. *%s* - %s\n", p.Rank, escape(p.Name), escape(p.Team.Name)))
		sb.WriteString(fmt.Sprintf("   %.2f pts (%.2f G, %.2f A)\n", p.Points, p.Goals, p.Assists))
	}
	return sb.String(), nil
}

// GetTeamReport finds a team by name and summarises its recent results
// and next projected games.
func (s *StatsService) GetTeamReport(ctx context.Context, year, name string) (string, error) {
	year, err := s.resolveYear(ctx, year)
	if err != nil {
		return "", err
	}
	team, err := s.FindTeam(ctx, year, name)
	if errors.Is(err, source.ErrNotFound) {
		return fmt.Sprintf("🔍 No team found matching '%s'.", escape(name)), nil
	}
	if err != nil {
		return "", fmt.Errorf("error searching teams: %w", err)
	}
	page, err := s.TeamPage(ctx, year, team.ID)
	if err != nil {
		return "", fmt.Errorf("error fetching team: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s* (%s)\n", escape(page.Team.Name), page.Division.Name))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	if page.Rating != nil {
		sb.WriteString(fmt.Sprintf("Rank: #%s\n", page.Rank))
		sb.WriteString(fmt.Sprintf("Offense: %.2f  Defense: %.2f\n", page.Rating.Offense, page.Rating.Defense))
	} else {
		sb.WriteString("Unrated\n")
	}

	var played, upcoming []models.ScheduleRow
	for _, row := range page.Schedule {
		if row.State == models.ResultOnly {
			played = append(played, row)
		} else {
			upcoming = append(upcoming, row)
		}
	}
	if len(played) > teamReportGames {
		played = played[len(played)-teamReportGames:]
	}

	sb.WriteString("\n*Results:*\n")
	if len(played) == 0 {
		sb.WriteString("None yet\n")
	}
	for _, row := range played {
		sb.WriteString(fmt.Sprintf("%s %s %s %d-%d\n", row.Date, vs(row), opponentLabel(row.Opponent),
			row.Result.PointsFor, row.Result.PointsAgainst))
	}

	sb.WriteString("\n*Upcoming:*\n")
	if len(upcoming) == 0 {
		sb.WriteString("No games remaining\n")
	}
	for _, row := range top(upcoming, teamReportGames) {
		sb.WriteString(fmt.Sprintf("%s %s %s", row.Date, vs(row), opponentLabel(row.Opponent)))
		if row.Prediction != nil {
			sb.WriteString(fmt.Sprintf(" (Projected: %d-%d)", row.Prediction.PointsFor, row.Prediction.PointsAgainst))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// GetMatchupReport projects a game between two teams found by name.
func (s *StatsService) GetMatchupReport(ctx context.Context, year, nameA, nameB string) (string, error) {
	year, err := s.resolveYear(ctx, year)
	if err != nil {
		return "", err
	}
	a, err := s.FindTeam(ctx, year, nameA)
	if errors.Is(err, source.ErrNotFound) {
		return fmt.Sprintf("🔍 No team found matching '%s'.", escape(nameA)), nil
	}
	if err != nil {
		return "", fmt.Errorf("error searching teams: %w", err)
	}
	b, err := s.FindTeam(ctx, year, nameB)
	if errors.Is(err, source.ErrNotFound) {
		return fmt.Sprintf("🔍 No team found matching '%s'.", escape(nameB)), nil
	}
	if err != nil {
		return "", fmt.Errorf("error searching teams: %w", err)
	}

	m, err := s.Matchup(ctx, year, a.ID, b.ID)
	if err != nil {
		return "", fmt.Errorf("error projecting matchup: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🥍 *%s* vs *%s*\n\n", teamLabel(m.Team), teamLabel(m.Opponent)))
	if m.Prediction == nil {
		sb.WriteString("These teams are rated on different scales, so no projection is available.")
		return sb.String(), nil
	}
	sb.WriteString(fmt.Sprintf("Projected: %d - %d", m.Prediction.PointsFor, m.Prediction.PointsAgainst))
	return sb.String(), nil
}

// GetWeeklyDigest reports the top n teams of each division for the
// current season. Divisions without data are left out.
func (s *StatsService) GetWeeklyDigest(ctx context.Context, divs []string, n int) (string, error) {
	year, err := s.resolveYear(ctx, "")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Weekly Rankings (%s)*\n", year))
	for _, div := range divs {
		page, err := s.DivisionTeams(ctx, year, strings.TrimSpace(div))
		if errors.Is(err, source.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("error fetching %s teams: %w", div, err)
		}
		sb.WriteString(fmt.Sprintf("\n*%s*\n", page.Division.Name))
		writeTeams(&sb, top(page.Teams, n))
	}
	return sb.String(), nil
}

func vs(row models.ScheduleRow) string {
	if row.Home {
		return "vs"
	}
	return "@"
}

func opponentLabel(o models.Opponent) string {
	if o.Team != nil {
		return teamLabel(*o.Team)
	}
	return escape(o.Summary.Name)
}

func teamLabel(t models.RankedTeam) string {
	if t.Rank.Valid {
		return fmt.Sprintf("#%d %s", t.Rank.Value, escape(t.Name))
	}
	return escape(t.Name)
}

func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}
