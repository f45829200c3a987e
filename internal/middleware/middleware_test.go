package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var errBoom = errors.New("boom")

func testBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxRequests:      2,
		Interval:         time.Hour,
		Timeout:          time.Second,
		FailureThreshold: 0.5,
		MinRequestCount:  4,
		SuccessThreshold: 2,
	}
}

func TestCircuitBreakerTripsAndRecovers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("provider", testBreakerConfig())
	cb.now = func() time.Time { return now }

	for i := 0; i < 4; i++ {
		_ = cb.Call(func() error { return errBoom })
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("expected OPEN, got %s", cb.GetState())
	}

	called := false
	err := cb.Call(func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitBreakerOpen) || called {
		t.Fatalf("expected short-circuit, got err=%v called=%v", err, called)
	}

	now = now.Add(2 * time.Second)
	for i := 0; i < 2; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("trial request %d failed: %v", i, err)
		}
	}
	if cb.GetState() != StateClosed {
		t.Errorf("expected CLOSED after trial requests, got %s", cb.GetState())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("provider", testBreakerConfig())
	cb.now = func() time.Time { return now }

	for i := 0; i < 4; i++ {
		_ = cb.Call(func() error { return errBoom })
	}
	now = now.Add(2 * time.Second)
	_ = cb.Call(func() error { return errBoom })
	if cb.GetState() != StateOpen {
		t.Errorf("expected OPEN after failed trial request, got %s", cb.GetState())
	}
}

func TestCircuitBreakerBelowMinRequests(t *testing.T) {
	cb := NewCircuitBreaker("provider", testBreakerConfig())
	for i := 0; i < 3; i++ {
		_ = cb.Call(func() error { return errBoom })
	}
	if cb.GetState() != StateClosed {
		t.Errorf("expected CLOSED below min request count, got %s", cb.GetState())
	}
	stats := cb.GetStats()
	if stats["failures"].(uint32) != 3 || stats["state"] != "CLOSED" {
		t.Errorf("unexpected stats %v", stats)
	}
}

func TestTokenBucketAllow(t *testing.T) {
	l := NewTokenBucketLimiter(1, 2)
	if !l.Allow() || !l.Allow() {
		t.Fatal("expected burst of 2 to pass")
	}
	if l.Allow() {
		t.Error("expected third request to be limited")
	}
}

func TestDelayLimiterWait(t *testing.T) {
	l := NewDelayLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("expected at least two delays, took %v", elapsed)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := NewDelayLimiter(time.Hour).Wait(cancelled); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestDelayLimiterDisabled(t *testing.T) {
	l := NewDelayLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatal("expected unlimited limiter")
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(NewRouteLimiters(1, 1)))
	r.GET("/api/v1/records", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("unexpected status codes %v", codes)
	}
}

func TestCircuitBreakerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	group := NewBreakerGroup(testBreakerConfig())
	r := gin.New()
	r.Use(CircuitBreakerMiddleware(group))
	r.GET("/api/v1/stats", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	var last int
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
		last = w.Code
	}
	if last != http.StatusServiceUnavailable {
		t.Errorf("expected 503 once open, got %d", last)
	}
	if group.GetBreaker("stats").GetState() != StateOpen {
		t.Error("expected stats breaker to be open")
	}
	if group.GetBreaker("records").GetState() != StateClosed {
		t.Error("expected records breaker to stay closed")
	}
}

func TestRouteGroup(t *testing.T) {
	cases := map[string]string{
		"/api/v1/records": "records",
		"/api/v1/stats":   "stats",
		"/health":         "default",
	}
	for path, want := range cases {
		if got := routeGroup(path); got != want {
			t.Errorf("%s: expected %s, got %s", path, want, got)
		}
	}
}
