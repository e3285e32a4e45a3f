package web

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/models"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	templ.Handler(c).ServeHTTP(w, r)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	logFailure(r, status, err)
	page := ErrorPage()
	if status != http.StatusInternalServerError {
		page = NotFoundPage()
	}
	templ.Handler(page, templ.WithStatus(status)).ServeHTTP(w, r)
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	year, err := s.stats.LatestYear(r.Context())
	if errors.Is(err, source.ErrNotFound) {
		render(w, r, HomePage(models.YearOverview{}))
		return
	}
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderYear(w, r, year)
}

func (s *Server) handleYearPage(w http.ResponseWriter, r *http.Request) {
	s.renderYear(w, r, mux.Vars(r)["year"])
}

func (s *Server) renderYear(w http.ResponseWriter, r *http.Request, year string) {
	overview, err := s.stats.YearOverview(r.Context(), year, overviewTeams)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render(w, r, HomePage(overview))
}

func (s *Server) handleDivisionTeamsPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.stats.DivisionTeams(r.Context(), vars["year"], vars["div"])
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render(w, r, DivisionTeamsPage(page))
}

func (s *Server) handleDivisionPlayersPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.stats.DivisionPlayers(r.Context(), vars["year"], vars["div"], divisionPlayers)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render(w, r, DivisionPlayersPage(page))
}

func (s *Server) handleUpcomingPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.stats.UpcomingGames(r.Context(), vars["year"], vars["div"])
	// A known division without season data still gets a page.
	if errors.Is(err, source.ErrNotFound) && !errors.Is(err, league.ErrNotFound) {
		render(w, r, NoGamesPage(vars["year"]))
		return
	}
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render(w, r, UpcomingGamesPage(page))
}

func (s *Server) handleTeamPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.stats.TeamPage(r.Context(), vars["year"], vars["team"])
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render(w, r, TeamPage(page))
}

func (s *Server) handlePlayerPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.stats.PlayerPage(r.Context(), vars["year"], vars["player"])
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render(w, r, PlayerPage(page))
}

func (s *Server) handleGamePage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.stats.GamePage(r.Context(), vars["year"], vars["game"])
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render(w, r, GamePage(page))
}
