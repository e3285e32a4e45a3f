package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/service"
)

type errorBody struct {
	Error string `json:"error"`
}

type bucketHealth struct {
	Bucket     string `json:"bucket"`
	Accessible bool   `json:"accessible"`
	Error      string `json:"error,omitempty"`
}

type healthBody struct {
	OK          bool          `json:"ok"`
	Timestamp   time.Time     `json:"timestamp"`
	GitSHA      string        `json:"gitSha"`
	BuildTime   string        `json:"buildTime"`
	Environment string        `json:"environment"`
	S3          *bucketHealth `json:"s3,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	logFailure(r, status, err)
	switch status {
	case http.StatusNotFound:
		writeJSON(w, status, errorBody{Error: notFoundMessage})
	case http.StatusBadRequest:
		writeJSON(w, status, errorBody{Error: err.Error()})
	default:
		writeJSON(w, status, errorBody{Error: internalErrorText})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := healthBody{
		OK:          true,
		Timestamp:   s.clock.Now().UTC(),
		GitSHA:      s.build.GitSHA,
		BuildTime:   s.build.BuildTime,
		Environment: s.build.Environment,
	}
	if s.health.Bucket != "" && s.health.Check != nil {
		body.S3 = &bucketHealth{Bucket: s.health.Bucket, Accessible: true}
		if err := s.health.Check(r.Context()); err != nil {
			body.OK = false
			body.S3.Accessible = false
			body.S3.Error = err.Error()
		}
	}

	status := http.StatusOK
	if !body.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, body)
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.stats.Years(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if years == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, years)
}

func (s *Server) handleDivisions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, league.Divisions())
}

func (s *Server) handleDivision(w http.ResponseWriter, r *http.Request) {
	d, err := league.Division(mux.Vars(r)["div"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	div := r.URL.Query().Get("div")
	if div == "" {
		s.writeError(w, r, fmt.Errorf("div: %w", service.ErrMissingParameter))
		return
	}
	teams, err := s.stats.GetRankedTeams(r.Context(), mux.Vars(r)["year"], div)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.stats.TeamPage(r.Context(), vars["year"], vars["team"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	players, err := s.stats.GetRankedPlayers(r.Context(), mux.Vars(r)["year"], service.PlayerFilter{
		Team: q.Get("team"),
		Div:  q.Get("div"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.stats.PlayerPage(r.Context(), vars["year"], vars["player"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.stats.GamePage(r.Context(), vars["year"], vars["game"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleDivisionOf(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	div, err := s.stats.DivisionOf(r.Context(), mux.Vars(r)["year"], service.DivisionQuery{
		Team:   q.Get("team"),
		Player: q.Get("player"),
		Game:   q.Get("game"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, div)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, b := q.Get("a"), q.Get("b")
	if a == "" || b == "" {
		s.writeError(w, r, fmt.Errorf("a and b: %w", service.ErrMissingParameter))
		return
	}
	m, err := s.stats.Matchup(r.Context(), mux.Vars(r)["year"], a, b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	teams, err := s.stats.SearchTeams(r.Context(), mux.Vars(r)["year"], r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if teams == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	upcoming, err := s.stats.UpcomingGames(r.Context(), vars["year"], vars["div"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upcoming)
}
