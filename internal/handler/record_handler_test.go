package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"MarketForge/internal/middleware"
	"MarketForge/internal/model"
	"MarketForge/internal/repository"
	"MarketForge/internal/service"
	"MarketForge/pkg/json"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return setupRouterWith(t, middleware.NewIPRateLimiter(1000, 1000))
}

func setupRouterWith(t *testing.T, clients *middleware.IPRateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := repository.NewSQLiteRepository(filepath.Join(t.TempDir(), "api.db"), 100)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []*model.SyntheticRecord{
		{ID: 1, Market: "sp500", Symbol: "AAPL", Sector: "Information Technology", Exchange: "NASDAQ", ObservationDate: date, StockPrice: 180, Year: 2024},
		{ID: 2, Market: "sp500", Symbol: "KO", Sector: "Consumer Staples", Exchange: "NYSE", ObservationDate: date.AddDate(0, 0, 3), StockPrice: 60, Year: 2024},
	}
	if err := repo.SaveRecords("sp500", records); err != nil {
		t.Fatal(err)
	}

	svc := service.NewRecordService(repo, 1024*1024)
	return NewRouter(NewRecordHandler(svc),
		middleware.NewRouteLimiters(1000, 1000),
		clients,
		middleware.NewBreakerGroup(middleware.DefaultCircuitBreakerConfig()))
}

func get(t *testing.T, r *gin.Engine, url string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v (%s)", url, err, w.Body.String())
	}
	return w.Code, env
}

func TestRecordsEndpoint(t *testing.T) {
	r := setupRouter(t)

	code, env := get(t, r, "/api/v1/records?symbol=KO")
	if code != http.StatusOK || env.Code != 200 {
		t.Fatalf("unexpected response %d %+v", code, env)
	}
	var page model.RecordPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Records[0].Symbol != "KO" || page.Records[0].StockPrice != 60 {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestRecordsBadRequest(t *testing.T) {
	r := setupRouter(t)

	if code, env := get(t, r, "/api/v1/records?limit=abc"); code != http.StatusBadRequest || env.Code != 400 {
		t.Errorf("expected 400 for bad limit, got %d %+v", code, env)
	}
	if code, env := get(t, r, "/api/v1/records?limit=99999"); code != http.StatusBadRequest || env.Message != "limit must not exceed 5000" {
		t.Errorf("expected 400 for large limit, got %d %+v", code, env)
	}
}

func TestStatsEndpoint(t *testing.T) {
	r := setupRouter(t)

	code, env := get(t, r, "/api/v1/stats?market=sp500")
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	var stats model.DatasetStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalRecords != 2 || len(stats.BySector) != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if code, _ := get(t, r, "/api/v1/stats?market=csi500"); code != http.StatusNotFound {
		t.Errorf("expected 404 for empty market, got %d", code)
	}
}

func TestMonitorEndpoint(t *testing.T) {
	r := setupRouter(t)
	code, env := get(t, r, "/monitor/circuitbreaker")
	if code != http.StatusOK || len(env.Data) == 0 {
		t.Errorf("unexpected monitor response %d %+v", code, env)
	}
}

func TestPerClientRateLimit(t *testing.T) {
	clients := middleware.NewIPRateLimiter(0.001, 2)
	r := setupRouterWith(t, clients)

	call := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := call("192.0.2.1:40000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := call("192.0.2.1:40001"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once the client burst is spent, got %d", code)
	}
	if code := call("198.51.100.7:40000"); code != http.StatusOK {
		t.Errorf("expected other client to pass, got %d", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/monitor/ratelimit", nil)
	req.RemoteAddr = "203.0.113.9:40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	var data struct {
		TrackedClients int `json:"tracked_clients"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.TrackedClients != 3 {
		t.Errorf("expected 3 tracked clients, got %d", data.TrackedClients)
	}
}

func TestRouterWithoutClientLimiter(t *testing.T) {
	r := setupRouterWith(t, nil)
	for i := 0; i < 5; i++ {
		if code, _ := get(t, r, "/api/v1/stats"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
}
