package service

import (
	"context"
	"strings"
	"testing"
)

func TestGetTopTeams(t *testing.T) {
	s := newTestService(t, fixture)

	report, err := s.GetTopTeams(context.Background(), "", "ml1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(report, "NCAA Mens Division I Top 10 (2024)") {
		t.Fatalf("missing heading: %s", report)
	}
	if !strings.Contains(report, "1. *Johns Hopkins* (10.00)") || !strings.Contains(report, "2. *Hofstra*") {
		t.Fatalf("missing ranked teams: %s", report)
	}
	if strings.Contains(report, "Loyola") {
		t.Fatalf("unranked team should not be listed: %s", report)
	}
}

func TestGetTopPlayers(t *testing.T) {
	s := newTestService(t, fixture)

	report, err := s.GetTopPlayers(context.Background(), "2024", "ml1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Index(report, "Two") > strings.Index(report, "One") {
		t.Fatalf("expected players in rank order: %s", report)
	}
}

func TestGetTeamReport(t *testing.T) {
	s := newTestService(t, fixture)
	ctx := context.Background()

	report, err := s.GetTeamReport(ctx, "2024", "hopkins")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"*Johns Hopkins*", "Rank: #1", "2024-02-10 vs Loyola 11-9", "@ #1 Adelphi (Projected: 9-6)", "vs Elsewhere"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}

	report, err = s.GetTeamReport(ctx, "2024", "zzzzzzzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(report, "No team found") {
		t.Fatalf("expected not found message: %s", report)
	}
}

func TestGetMatchupReport(t *testing.T) {
	s := newTestService(t, fixture)
	ctx := context.Background()

	report, err := s.GetMatchupReport(ctx, "2024", "hopkins", "adelphi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(report, "Projected: 9 - 6") {
		t.Fatalf("unexpected report: %s", report)
	}

	report, err = s.GetMatchupReport(ctx, "2024", "hopkins", "chapman")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(report, "no projection") {
		t.Fatalf("expected no projection across groups: %s", report)
	}
}

func TestGetWeeklyDigest(t *testing.T) {
	s := newTestService(t, fixture)

	report, err := s.GetWeeklyDigest(context.Background(), []string{"ml1", "ml3", "mcla1"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(report, "*NCAA Mens Division I*") || !strings.Contains(report, "*MCLA Division I*") {
		t.Fatalf("missing divisions: %s", report)
	}
	if !strings.Contains(report, "No ratings available yet.") {
		t.Fatalf("expected empty division note: %s", report)
	}
}
