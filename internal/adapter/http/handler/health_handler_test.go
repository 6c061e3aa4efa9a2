package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil)

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		checks   map[string]Pinger
		wantCode int
		want     map[string]string
	}{
		{
			name:     "no dependencies",
			checks:   map[string]Pinger{"redis": nil},
			wantCode: http.StatusOK,
			want:     map[string]string{"status": "ready"},
		},
		{
			name:     "all healthy",
			checks:   map[string]Pinger{"postgres": ok, "redis": ok},
			wantCode: http.StatusOK,
			want:     map[string]string{"status": "ready", "postgres": "ok", "redis": "ok"},
		},
		{
			name:     "one down",
			checks:   map[string]Pinger{"postgres": ok, "redis": down},
			wantCode: http.StatusServiceUnavailable,
			want:     map[string]string{"status": "unavailable", "postgres": "ok", "redis": "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checks)

			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			require.Equal(t, tt.wantCode, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body)
		})
	}
}
