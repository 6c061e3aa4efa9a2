package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Limit(t *testing.T) {
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_rate_limit_hits"})
	rl := NewRateLimiter(1, 2, hits)

	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	serve := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.2:1111"))

	assert.Equal(t, float64(1), testutil.ToFloat64(hits))
}

func TestRateLimiter_CleanupLimiters(t *testing.T) {
	rl := NewRateLimiter(10, 10, nil)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	now = now.Add(2 * time.Hour)
	rl.getLimiter("10.0.0.2")

	assert.Equal(t, 1, rl.CleanupLimiters(time.Hour))
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "10.0.0.2")
}
