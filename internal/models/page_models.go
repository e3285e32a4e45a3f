package models

import "time"

type TeamPage struct {
	Year         string         `json:"year"`
	Division     Division       `json:"division"`
	Team         Team           `json:"team"`
	Rank         Rank           `json:"rank"`
	Rating       *TeamRating    `json:"rating"`
	Schedule     []ScheduleRow  `json:"schedule"`
	Players      []RankedPlayer `json:"players"`
	LastModified time.Time      `json:"last_modified"`
}

type PlayerPage struct {
	Year         string        `json:"year"`
	Player       PlayerStats   `json:"player"`
	TeamRank     Rank          `json:"team_rank"`
	Games        []StatLineRow `json:"games"`
	LastModified time.Time     `json:"last_modified"`
}

type GamePage struct {
	Year         string    `json:"year"`
	Game         Game      `json:"game"`
	HomeRank     Rank      `json:"home_rank"`
	AwayRank     Rank      `json:"away_rank"`
	LastModified time.Time `json:"last_modified"`
}

type DivisionTeams struct {
	Year     string       `json:"year"`
	Division Division     `json:"division"`
	Teams    []RankedTeam `json:"teams"`
}

type DivisionPlayers struct {
	Year     string         `json:"year"`
	Division Division       `json:"division"`
	Players  []RankedPlayer `json:"players"`
	// Teams holds the division's ranked teams so player rows can show
	// their team's rank.
	Teams map[string]RankedTeam `json:"-"`
}

type YearOverview struct {
	Year      string          `json:"year"`
	Divisions []DivisionTeams `json:"divisions"`
}

type UpcomingDay struct {
	Key   string        `json:"key"`
	Date  time.Time     `json:"date"`
	Today bool          `json:"today"`
	Games []UpcomingRow `json:"games"`
}

type UpcomingGames struct {
	Year     string        `json:"year"`
	Division Division      `json:"division"`
	Days     []UpcomingDay `json:"days"`
}

// Matchup is a hypothetical game between two teams. Prediction is from
// Team's point of view and nil when the teams cannot be compared.
type Matchup struct {
	Year       string      `json:"year"`
	Team       RankedTeam  `json:"team"`
	Opponent   RankedTeam  `json:"opponent"`
	Prediction *Prediction `json:"prediction"`
}
