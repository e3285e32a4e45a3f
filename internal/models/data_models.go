package models

import (
	"encoding/json"
	"time"
)

type Team struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Div      string   `json:"div"`
	Sport    string   `json:"sport"`
	Source   string   `json:"source"`
	Schedule Location `json:"schedule"`
}

type Location struct {
	URL string `json:"url"`
}

type TeamSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Div  string `json:"div,omitempty"`
}

type TeamRating struct {
	Team    string   `json:"team"`
	Offense float64  `json:"offense"`
	Defense float64  `json:"defense"`
	Overall *float64 `json:"overall"`
	Group   string   `json:"group,omitempty"`
}

type PlayerRating struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Team    TeamSummary `json:"team"`
	Points  float64     `json:"points"`
	Goals   float64     `json:"goals"`
	Assists float64     `json:"assists"`
}

type TeamSchedule struct {
	Team  Team           `json:"team"`
	Games []ScheduleGame `json:"games"`
}

type ScheduleGame struct {
	ID       string          `json:"id,omitempty"`
	Opponent TeamSummary     `json:"opponent"`
	Home     bool            `json:"home"`
	Date     string          `json:"date"`
	Details  *Location       `json:"details,omitempty"`
	Result   *ScheduleResult `json:"result,omitempty"`
}

type ScheduleResult struct {
	PointsFor     int `json:"points_for"`
	PointsAgainst int `json:"points_against"`
}

type PlayerStats struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	ExternalLink string      `json:"external_link,omitempty"`
	Team         TeamSummary `json:"team"`
	Number       int         `json:"number,omitempty"`
	Position     string      `json:"position,omitempty"`
	ClassYear    string      `json:"class_year,omitempty"`
	Eligibility  string      `json:"eligibility,omitempty"`
	Height       string      `json:"height,omitempty"`
	Weight       string      `json:"weight,omitempty"`
	HighSchool   string      `json:"high_school,omitempty"`
	Hometown     string      `json:"hometown,omitempty"`
	Stats        []StatLine  `json:"stats"`
}

type StatLine struct {
	GameID   string          `json:"game_id"`
	Date     string          `json:"date"`
	Opponent TeamSummary     `json:"opponent"`
	G        int             `json:"g"`
	A        int             `json:"a"`
	GB       int             `json:"gb"`
	FaceOffs *FaceOffResults `json:"face_offs,omitempty"`
}

type Game struct {
	ID           string         `json:"id"`
	Date         string         `json:"date"`
	ExternalLink string         `json:"external_link,omitempty"`
	HomeTeam     TeamSummary    `json:"home_team"`
	AwayTeam     TeamSummary    `json:"away_team"`
	Result       GameResult     `json:"result"`
	HomeStats    []GameStatLine `json:"home_stats"`
	AwayStats    []GameStatLine `json:"away_stats"`
}

type GameResult struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

type GameStatLine struct {
	Number   int             `json:"number,omitempty"`
	Player   PlayerSummary   `json:"player"`
	Position string          `json:"position,omitempty"`
	FaceOffs *FaceOffResults `json:"face_offs,omitempty"`
	GB       int             `json:"gb"`
	G        int             `json:"g"`
	A        int             `json:"a"`
}

type PlayerSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ExternalLink string `json:"external_link,omitempty"`
}

type FaceOffResults struct {
	Won  int `json:"won"`
	Lost int `json:"lost"`
}

type UpcomingGame struct {
	Date       string          `json:"date"`
	HomeTeam   string          `json:"homeTeam"`
	HomeTeamID string          `json:"homeTeamId"`
	AwayTeam   string          `json:"awayTeam"`
	AwayTeamID string          `json:"awayTeamId"`
	HomeDiv    string          `json:"homeDiv,omitempty"`
	Sport      string          `json:"sport,omitempty"`
	Source     string          `json:"source,omitempty"`
	Result     *UpcomingResult `json:"result,omitempty"`
}

// UpcomingResult accepts the camelCase, snake_case and schedule-style
// (home perspective) spellings found in games.json.
type UpcomingResult struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

func (r *UpcomingResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		HomeScore     *int `json:"homeScore"`
		AwayScore     *int `json:"awayScore"`
		HomeScoreS    *int `json:"home_score"`
		AwayScoreS    *int `json:"away_score"`
		PointsFor     *int `json:"points_for"`
		PointsAgainst *int `json:"points_against"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.HomeScore = firstInt(raw.HomeScore, raw.HomeScoreS, raw.PointsFor)
	r.AwayScore = firstInt(raw.AwayScore, raw.AwayScoreS, raw.PointsAgainst)
	return nil
}

func firstInt(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

type GamesByDate map[string][]UpcomingGame

// Data pairs a decoded file body with the time it was last written upstream.
type Data[T any] struct {
	Body         T
	LastModified time.Time
}
