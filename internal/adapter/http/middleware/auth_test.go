package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/infrastructure/auth"
)

func TestAuthMiddleware(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate("teller-7")
	require.NoError(t, err)

	expired, err := auth.NewJWTManager("test-secret", -time.Minute).Generate("teller-7")
	require.NoError(t, err)

	tests := []struct {
		name         string
		header       string
		wantCode     int
		wantOperator string
	}{
		{name: "missing header", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantCode: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, wantCode: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + token, wantCode: http.StatusOK, wantOperator: "teller-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var operator string
			h := AuthMiddleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				operator, _ = OperatorFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantOperator, operator)
		})
	}
}
