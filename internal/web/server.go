// Package web serves the statistics pages and the JSON API.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"

	"github.com/sportnumerics/sportnumerics/internal/config"
	"github.com/sportnumerics/sportnumerics/internal/service"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

const (
	yearPattern       = "{year:[0-9]{4}}"
	overviewTeams     = 5
	divisionPlayers   = 200
	requestIDHeader   = "X-Request-Id"
	notFoundMessage   = "No data available"
	internalErrorText = "Something went wrong"
)

type requestIDKey struct{}

// HealthCheck reports whether the backing bucket is reachable. A zero
// value means there is no bucket to check.
type HealthCheck struct {
	Bucket string
	Check  func(ctx context.Context) error
}

type Dependencies struct {
	Stats  *service.StatsService
	Health HealthCheck
	Build  config.Build
	Clock  clockwork.Clock
}

type Server struct {
	stats  *service.StatsService
	health HealthCheck
	build  config.Build
	clock  clockwork.Clock
}

func NewServer(deps Dependencies) *Server {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Server{
		stats:  deps.Stats,
		health: deps.Health,
		build:  deps.Build,
		clock:  clock,
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/years", s.handleYears).Methods(http.MethodGet)
	api.HandleFunc("/divs", s.handleDivisions).Methods(http.MethodGet)
	api.HandleFunc("/divs/{div}", s.handleDivision).Methods(http.MethodGet)
	api.HandleFunc("/"+yearPattern+"/teams", s.handleTeams).Methods(http.MethodGet)
	api.HandleFunc("/"+yearPattern+"/teams/{team}", s.handleTeam).Methods(http.MethodGet)
	api.HandleFunc("/"+yearPattern+"/players", s.handlePlayers).Methods(http.MethodGet)
	api.HandleFunc("/"+yearPattern+"/players/{player}", s.handlePlayer).Methods(http.MethodGet)
	api.HandleFunc("/"+yearPattern+"/games/{game}", s.handleGame).Methods(http.MethodGet)
	api.HandleFunc("/"+yearPattern+"/div", s.handleDivisionOf).Methods(http.MethodGet)
	api.HandleFunc("/"+yearPattern+"/predict", s.handlePredict).Methods(http.MethodGet)
	api.HandleFunc("/"+yearPattern+"/search", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/"+yearPattern+"/{div}/games", s.handleUpcoming).Methods(http.MethodGet)
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFoundMessage})
	})

	r.HandleFunc("/", s.handleHomePage).Methods(http.MethodGet)
	r.Handle("/about", templ.Handler(AboutPage())).Methods(http.MethodGet)
	r.HandleFunc("/"+yearPattern, s.handleYearPage).Methods(http.MethodGet)
	r.HandleFunc("/"+yearPattern+"/teams/{team}", s.handleTeamPage).Methods(http.MethodGet)
	r.HandleFunc("/"+yearPattern+"/players/{player}", s.handlePlayerPage).Methods(http.MethodGet)
	r.HandleFunc("/"+yearPattern+"/games/{game}", s.handleGamePage).Methods(http.MethodGet)
	r.HandleFunc("/"+yearPattern+"/{div}/teams", s.handleDivisionTeamsPage).Methods(http.MethodGet)
	r.HandleFunc("/"+yearPattern+"/{div}/players", s.handleDivisionPlayersPage).Methods(http.MethodGet)
	r.HandleFunc("/"+yearPattern+"/{div}/games", s.handleUpcomingPage).Methods(http.MethodGet)
	r.NotFoundHandler = templ.Handler(NotFoundPage(), templ.WithStatus(http.StatusNotFound))

	return r
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", requestID(r.Context()),
		)
	})
}

// errorStatus maps a lookup failure to its response status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, source.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMissingParameter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func logFailure(r *http.Request, status int, err error) {
	if status == http.StatusInternalServerError {
		slog.Error("Error handling request", "path", r.URL.Path, "request_id", requestID(r.Context()), "error", err)
	}
}
