package models

import (
	"encoding/json"
	"strconv"
	"time"
)

type Division struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Sport  string `json:"sport"`
	Source string `json:"source"`
	Div    string `json:"div"`
}

type Year struct {
	ID          string   `json:"id"`
	Unavailable []string `json:"unavailable,omitempty"`
}

// Rank is a 1-based position within a ranked set. The zero value means
// the entity is present but unranked.
type Rank struct {
	Value int
	Valid bool
}

func RankOf(position int) Rank {
	return Rank{Value: position, Valid: true}
}

// Top reports whether the rank is within the first n positions.
func (r Rank) Top(n int) bool {
	return r.Valid && r.Value <= n
}

func (r Rank) String() string {
	if !r.Valid {
		return ""
	}
	return strconv.Itoa(r.Value)
}

func (r Rank) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(r.Value)), nil
}

func (r *Rank) UnmarshalJSON(data []byte) error {
	var v *int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*r = Rank{}
		return nil
	}
	*r = RankOf(*v)
	return nil
}

// RankedTeam is a roster team joined with its rating. Rating is nil when
// the team has no rating yet.
type RankedTeam struct {
	Team
	Rating *TeamRating `json:"rating"`
	Rank   Rank        `json:"rank"`
}

func (t RankedTeam) Summary() TeamSummary {
	return TeamSummary{ID: t.ID, Name: t.Name, Div: t.Div}
}

type RankedPlayer struct {
	PlayerRating
	Rank Rank `json:"rank"`
}

type Prediction struct {
	PointsFor     int `json:"points_for"`
	PointsAgainst int `json:"points_against"`
}

// Swap returns the prediction from the opponent's point of view.
func (p Prediction) Swap() Prediction {
	return Prediction{PointsFor: p.PointsAgainst, PointsAgainst: p.PointsFor}
}

type ResultState int

const (
	NoResultNoPrediction ResultState = iota
	PredictionOnly
	ResultOnly
)

func (s ResultState) String() string {
	switch s {
	case PredictionOnly:
		return "prediction"
	case ResultOnly:
		return "result"
	default:
		return "none"
	}
}

func (s ResultState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Opponent is a schedule opponent resolved against the ranked rosters.
// Team is nil when the opponent is not on any known roster.
type Opponent struct {
	Summary       TeamSummary `json:"summary"`
	Team          *RankedTeam `json:"team,omitempty"`
	KnownOpponent bool        `json:"known_opponent"`
	Divisional    bool        `json:"divisional"`
}

func (o Opponent) Rank() Rank {
	if o.Team == nil {
		return Rank{}
	}
	return o.Team.Rank
}

type ScheduleRow struct {
	ID         string          `json:"id,omitempty"`
	Date       string          `json:"date"`
	Home       bool            `json:"home"`
	Opponent   Opponent        `json:"opponent"`
	State      ResultState     `json:"state"`
	Result     *ScheduleResult `json:"result,omitempty"`
	Prediction *Prediction     `json:"prediction,omitempty"`
}

type StatLineRow struct {
	StatLine
	Opponent Opponent `json:"opponent"`
}

type UpcomingRow struct {
	Game       UpcomingGame `json:"game"`
	When       time.Time    `json:"when"`
	DayKey     string       `json:"day"`
	Kickoff    string       `json:"kickoff,omitempty"`
	HomeRank   Rank         `json:"home_rank"`
	AwayRank   Rank         `json:"away_rank"`
	State      ResultState  `json:"state"`
	Prediction *Prediction  `json:"prediction,omitempty"`
}
