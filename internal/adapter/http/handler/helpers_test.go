package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   domain.ErrorKind
		field  string
	}{
		{"invalid amount", fmt.Errorf("%w: -1", domain.ErrInvalidAmount), http.StatusBadRequest, domain.KindInvalidAmount, "amount"},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound, domain.KindAccountNotFound, "account_id"},
		{"duplicate reference", domain.ErrDuplicateReference, http.StatusConflict, domain.KindDuplicateReference, "reference"},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity, domain.KindInsufficientFunds, "amount"},
		{"inactive", domain.ErrAccountInactive, http.StatusUnprocessableEntity, domain.KindAccountInactive, "account_id"},
		{"persist", fmt.Errorf("%w: disk full", domain.ErrPersist), http.StatusInternalServerError, domain.KindPersist, ""},
		{"in use", domain.ErrInUse, http.StatusConflict, domain.KindConflict, ""},
		{"customer missing", domain.ErrCustomerNotFound, http.StatusNotFound, domain.KindNotFound, ""},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, domain.KindCanceled, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, domain.KindInternal, ""},
		{"no report", usecase.ErrReportNotFound, http.StatusNotFound, domain.KindNotFound, ""},
		{"field error", &domain.FieldError{Field: "interest_rate", Err: domain.ErrInvalidInput}, http.StatusBadRequest, domain.KindInvalidInput, "interest_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, "do thing", tt.err)

			require.Equal(t, tt.status, rec.Code)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(tt.kind), body.Kind)
			assert.Equal(t, tt.field, body.Field)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestWriteDomainError_HidesServerCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, "post transaction", fmt.Errorf("%w: password=secret", domain.ErrPersist))

	assert.NotContains(t, rec.Body.String(), "secret")
}
