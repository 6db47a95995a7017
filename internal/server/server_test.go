package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jyotish-labs/dashactl/internal/config"
	"github.com/jyotish-labs/dashactl/internal/testutil/testlog"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, err := New(config.DefaultServerConfig())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	out := map[string]any{}
	if len(rr.Body.Bytes()) > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", rr.Body.String(), err)
		}
	}
	return rr, out
}

func TestHealthAndReady(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	rr, out := do(t, s, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK || out["status"] != "ok" {
		t.Fatalf("health: %d %v", rr.Code, out)
	}
	rr, out = do(t, s, http.MethodGet, "/ready", nil)
	if rr.Code != http.StatusOK || out["ready"] != true {
		t.Fatalf("ready: %d %v", rr.Code, out)
	}
}

func TestCreateChartAndQueryActive(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	rr, out := do(t, s, http.MethodPost, "/charts", map[string]any{
		"longitude": 13.0,
		"birth":     "1990-06-15T04:30:00Z",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("create chart: %d %v", rr.Code, out)
	}
	if out["start_lord"] != "Ketu" {
		t.Fatalf("start lord %v, want Ketu", out["start_lord"])
	}
	mahas, ok := out["mahadashas"].([]any)
	if !ok || len(mahas) != 9 {
		t.Fatalf("expected 9 mahadashas, got %v", out["mahadashas"])
	}
	id, ok := out["chart_id"].(string)
	if !ok || id == "" {
		t.Fatalf("missing chart id in %v", out)
	}

	rr, out = do(t, s, http.MethodGet, "/charts/"+id+"/active?at=1990-06-15T04:30:00Z", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("active: %d %v", rr.Code, out)
	}
	path, ok := out["path"].([]any)
	if !ok || len(path) != 3 {
		t.Fatalf("expected depth-3 path, got %v", out["path"])
	}
	first := path[0].(map[string]any)
	if first["lord"] != "Ketu" {
		t.Fatalf("active mahadasha %v, want Ketu", first["lord"])
	}
}

func TestChartSurvivesEviction(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultServerConfig()
	cfg.CacheSize = 1
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	_, first := do(t, s, http.MethodPost, "/charts", map[string]any{
		"longitude": 13.0, "birth": "1990-06-15T04:30:00Z",
	})
	id := first["chart_id"].(string)

	// Force the only cache slot to another chart, then query the first id:
	// it must be rebuilt deterministically from the id alone.
	do(t, s, http.MethodPost, "/charts", map[string]any{
		"longitude": 200.0, "birth": "1985-01-01T00:00:00Z",
	})

	rr, out := do(t, s, http.MethodGet, "/charts/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("summary after eviction: %d %v", rr.Code, out)
	}
	if out["start_lord"] != "Ketu" || out["chart_id"] != id {
		t.Fatalf("rebuilt chart differs: %v", out)
	}
}

func TestUpcomingExtendsPastCycle(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	_, out := do(t, s, http.MethodPost, "/charts", map[string]any{
		"longitude": 0.0, "birth": "1990-06-15T04:30:00Z",
	})
	id := out["chart_id"].(string)

	rr, out := do(t, s, http.MethodGet, "/charts/"+id+"/upcoming?from=1990-06-15T04:30:00Z&count=10&depth=1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("upcoming: %d %v", rr.Code, out)
	}
	periods := out["periods"].([]any)
	if len(periods) != 10 {
		t.Fatalf("got %d periods, want 10", len(periods))
	}
	ninth := periods[8].(map[string]any)
	tenth := periods[9].(map[string]any)
	if ninth["lord"] != "Mercury" || tenth["lord"] != "Ketu" {
		t.Fatalf("cycle continuation wrong: %v then %v", ninth["lord"], tenth["lord"])
	}
	if tenth["start"] != ninth["end"] {
		t.Fatalf("second cycle does not abut the first: %v vs %v", tenth["start"], ninth["end"])
	}
}

func TestBadInputsRejected(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	rr, _ := do(t, s, http.MethodPost, "/charts", map[string]any{"birth": "1990-06-15"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing longitude accepted: %d", rr.Code)
	}
	rr, _ = do(t, s, http.MethodPost, "/charts", map[string]any{"longitude": 5.0})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing birth accepted: %d", rr.Code)
	}
	rr, _ = do(t, s, http.MethodPost, "/charts", map[string]any{
		"longitude": 5.0, "birth": "not a time",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("junk birth accepted: %d", rr.Code)
	}
	rr, _ = do(t, s, http.MethodPost, "/charts", map[string]any{
		"longitude": 5.0, "birth": "1990-06-15T04:30:00Z", "depth": 99,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("absurd depth accepted: %d", rr.Code)
	}

	rr, _ = do(t, s, http.MethodGet, "/charts/garbage/active", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("garbage chart id: %d", rr.Code)
	}
}

func TestActiveOutsideSpanIs404(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	_, out := do(t, s, http.MethodPost, "/charts", map[string]any{
		"longitude": 0.0, "birth": "1990-06-15T04:30:00Z",
	})
	id := out["chart_id"].(string)

	rr, _ := do(t, s, http.MethodGet, "/charts/"+id+"/active?at=1910-01-01T00:00:00Z", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("pre-anchor instant: %d, want 404", rr.Code)
	}
}

func TestChartIDRoundTrip(t *testing.T) {
	testlog.Start(t)

	birth := time.Date(1962, time.March, 3, 23, 59, 59, 123456789, time.UTC)
	id := chartID(211.875, birth, 4)
	lon, got, depth, err := parseChartID(id)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if lon != 211.875 || !got.Equal(birth) || depth != 4 {
		t.Fatalf("round trip gave %v %v %d", lon, got, depth)
	}

	neg := chartID(math.Pi, time.Date(1921, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	lon, got, depth, err = parseChartID(neg)
	if err != nil {
		t.Fatalf("parse pre-epoch: %v", err)
	}
	if lon != math.Pi || got.Year() != 1921 || depth != 2 {
		t.Fatalf("pre-epoch round trip gave %v %v %d", lon, got, depth)
	}

	if _, _, _, err := parseChartID("nonsense"); err == nil {
		t.Fatalf("expected error for malformed id")
	}
}
