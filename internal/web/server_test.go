package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sportnumerics/sportnumerics/internal/api/numerics"
	"github.com/sportnumerics/sportnumerics/internal/config"
	"github.com/sportnumerics/sportnumerics/internal/league"
	"github.com/sportnumerics/sportnumerics/internal/service"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

type mapSource map[string]string

func (m mapSource) Get(_ context.Context, key string) (source.Object, error) {
	body, ok := m[key]
	if !ok {
		return source.Object{}, source.ErrNotFound
	}
	return source.Object{Body: []byte(body)}, nil
}

func (m mapSource) List(_ context.Context, _ string) ([]string, error) {
	return []string{"2024"}, nil
}

type failingSource struct{}

func (failingSource) Get(context.Context, string) (source.Object, error) {
	return source.Object{}, errors.New("connection reset")
}

func (failingSource) List(context.Context, string) ([]string, error) {
	return nil, errors.New("connection reset")
}

var fixture = mapSource{
	"2024/ncaa-teams.json": `[
		{"id":"t1","name":"Johns Hopkins","div":"ml1"},
		{"id":"t2","name":"Loyola <MD>","div":"ml1"},
		{"id":"t3","name":"Adelphi","div":"ml2"}]`,
	"2024/team-ratings.json": `[
		{"team":"t1","offense":12,"defense":2,"overall":10,"group":"ncaa"},
		{"team":"t3","offense":8,"defense":3,"overall":5,"group":"ncaa"}]`,
	"2024/player-ratings.json": `[{"id":"p1","name":"One","team":{"id":"t1","name":"Johns Hopkins"},"points":3}]`,
	"2024/schedules/t1.json": `{"team":{"id":"t1","name":"Johns Hopkins","div":"ml1"},"games":[
		{"id":"g1","opponent":{"id":"t2","name":"Loyola <MD>"},"home":true,"date":"2024-02-10","result":{"points_for":11,"points_against":9}},
		{"opponent":{"id":"t3","name":"Adelphi"},"home":false,"date":"2024-03-09"}]}`,
}

func newTestServer(t *testing.T, src source.Source, health HealthCheck) http.Handler {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC))
	seasons := league.NewSeasons(config.League{Years: []string{"2024"}})
	stats := service.NewStatsService(numerics.NewAPI(numerics.NewClient(src)), seasons, clock, time.UTC)
	return NewServer(Dependencies{
		Stats:  stats,
		Health: health,
		Build:  config.Build{GitSHA: "abc123", BuildTime: "now", Environment: "test"},
		Clock:  clock,
	}).Router()
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, string(body)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{})

	res, body := get(t, h, "/api/health")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var health healthBody
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !health.OK || health.GitSHA != "abc123" || health.S3 != nil {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestHealthBucketUnreachable(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{
		Bucket: "stats",
		Check:  func(context.Context) error { return errors.New("access denied") },
	})

	res, body := get(t, h, "/api/health")
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.StatusCode)
	}
	if !strings.Contains(body, `"accessible":false`) || !strings.Contains(body, "access denied") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{})

	res, _ := get(t, h, "/api/divs")
	if _, err := uuid.Parse(res.Header.Get(requestIDHeader)); err != nil {
		t.Fatalf("expected generated request id, got %q", res.Header.Get(requestIDHeader))
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/divs", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get(requestIDHeader) != id {
		t.Fatalf("expected incoming request id to be kept")
	}
}

func TestAPIDivisions(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{})

	_, body := get(t, h, "/api/divs")
	var divs []map[string]string
	if err := json.Unmarshal([]byte(body), &divs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(divs) != 9 {
		t.Fatalf("expected 9 divisions, got %d", len(divs))
	}

	res, body := get(t, h, "/api/divs/zz")
	if res.StatusCode != http.StatusNotFound || !strings.Contains(body, "No data available") {
		t.Fatalf("expected 404, got %d %s", res.StatusCode, body)
	}
}

func TestAPITeams(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{})

	res, body := get(t, h, "/api/2024/teams?div=ml1")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", res.StatusCode, body)
	}
	var teams map[string]struct {
		Name   string `json:"name"`
		Rank   *int   `json:"rank"`
		Rating *struct {
			Overall float64 `json:"overall"`
		} `json:"rating"`
	}
	if err := json.Unmarshal([]byte(body), &teams); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if teams["t1"].Rank == nil || *teams["t1"].Rank != 1 || teams["t1"].Rating.Overall != 10 {
		t.Fatalf("unexpected t1: %+v", teams["t1"])
	}
	if teams["t2"].Rank != nil || teams["t2"].Rating != nil {
		t.Fatalf("expected t2 unranked: %+v", teams["t2"])
	}

	res, _ = get(t, h, "/api/2024/teams")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without div, got %d", res.StatusCode)
	}

	res, _ = get(t, h, "/api/2024/teams?div=zz")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown div, got %d", res.StatusCode)
	}
}

func TestAPIDivisionOfAndPredict(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{})

	_, body := get(t, h, "/api/2024/div?team=t1")
	if strings.TrimSpace(body) != `"ml1"` {
		t.Fatalf("unexpected division: %s", body)
	}

	res, _ := get(t, h, "/api/2024/div")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}

	_, body = get(t, h, "/api/2024/predict?a=t1&b=t3")
	if !strings.Contains(body, `"prediction":{"points_for":9,"points_against":6}`) {
		t.Fatalf("unexpected prediction: %s", body)
	}
}

func TestAPIInternalError(t *testing.T) {
	h := newTestServer(t, failingSource{}, HealthCheck{})

	res, body := get(t, h, "/api/2024/teams?div=ml1")
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.StatusCode)
	}
	if strings.Contains(body, "connection reset") {
		t.Fatalf("internal error leaked: %s", body)
	}
}

func TestTeamPageRenders(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{})

	res, body := get(t, h, "/2024/teams/t1")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	for _, want := range []string{"Johns Hopkins (2024)", "Loyola &lt;MD&gt;", "W 11-9", "<em>9-6<sup>*</sup></em>", `href="/2024/players/p1"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if strings.Contains(body, "<MD>") {
		t.Fatalf("team name not escaped")
	}
}

func TestPagesNotFound(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{})

	for _, target := range []string{"/2024/teams/nope", "/2024/zz/teams", "/nowhere/at/all/here"} {
		res, body := get(t, h, target)
		if res.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, res.StatusCode)
		}
		if !strings.Contains(body, "No data available") {
			t.Fatalf("%s: missing not found message", target)
		}
	}
}

func TestUpcomingPageWithoutGames(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{})

	res, body := get(t, h, "/2024/ml1/games")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if !strings.Contains(body, "No games data available") {
		t.Fatalf("expected missing data notice")
	}
}

func TestHomeAndDivisionPages(t *testing.T) {
	h := newTestServer(t, fixture, HealthCheck{})

	res, body := get(t, h, "/")
	if res.StatusCode != http.StatusOK || !strings.Contains(body, "NCAA Mens Division I") {
		t.Fatalf("unexpected home page: %d", res.StatusCode)
	}

	res, body = get(t, h, "/2024/ml1/players")
	if res.StatusCode != http.StatusOK || !strings.Contains(body, "One") {
		t.Fatalf("unexpected players page: %d", res.StatusCode)
	}

	res, _ = get(t, h, "/about")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected about page, got %d", res.StatusCode)
	}
}
