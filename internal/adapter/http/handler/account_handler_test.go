package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

type accountServiceStub struct {
	openFn      func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	getFn       func(ctx context.Context, id string) (*domain.Account, error)
	setActiveFn func(ctx context.Context, id string, active bool) (*domain.Account, error)
	deleteFn    func(ctx context.Context, id string) error
}

func (s *accountServiceStub) OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
	return s.openFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) SetActive(ctx context.Context, id string, active bool) (*domain.Account, error) {
	return s.setActiveFn(ctx, id, active)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type reconciliationServiceStub struct {
	reconcileFn func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	reportFn    func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *reconciliationServiceStub) ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, accountID)
}

func (s *reconciliationServiceStub) LastReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.reportFn(ctx)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.OpenAccountInput
	h := NewAccountHandler(&accountServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{
				ID:         "acc-1",
				CustomerID: input.CustomerID,
				BranchID:   input.BranchID,
				Number:     input.Number,
				Type:       domain.AccountType(input.Type),
				Balance:    input.Balance,
				Active:     true,
			}, nil
		},
	}, &reconciliationServiceStub{})

	body := `{"customer_id":"cus-1","branch_id":"br-1","account_number":"ACC1","account_type":"SAV","balance":"100.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "cus-1", captured.CustomerID)
	assert.Equal(t, "ACC1", captured.Number)
	assert.True(t, captured.Balance.Equal(decimal.NewFromInt(100)))

	var resp dto.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "acc-1", resp.ID)
	assert.Equal(t, "SAV", resp.Type)
}

func TestAccountHandler_Create_InvalidType(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{}, &reconciliationServiceStub{})

	body := `{"customer_id":"cus-1","branch_id":"br-1","account_number":"ACC1","account_type":"XYZ","balance":"0"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "account_type", decodeError(t, rec).Field)
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	}, &reconciliationServiceStub{})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/accounts/x", nil), "id", "x")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(domain.KindAccountNotFound), decodeError(t, rec).Kind)
}

func TestAccountHandler_SetActive(t *testing.T) {
	var gotActive *bool
	h := NewAccountHandler(&accountServiceStub{
		setActiveFn: func(ctx context.Context, id string, active bool) (*domain.Account, error) {
			gotActive = &active
			return &domain.Account{ID: id, Active: active}, nil
		},
	}, &reconciliationServiceStub{})

	req := setChiURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/accounts/acc-1", strings.NewReader(`{"active":false}`)), "id", "acc-1")
	rec := httptest.NewRecorder()
	h.SetActive(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, gotActive)
	assert.False(t, *gotActive)

	// The flag is required so an empty body is not read as "deactivate".
	req = setChiURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/accounts/acc-1", strings.NewReader(`{}`)), "id", "acc-1")
	rec = httptest.NewRecorder()
	h.SetActive(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountHandler_Delete(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "missing" {
				return domain.ErrAccountNotFound
			}
			return nil
		},
	}, &reconciliationServiceStub{})

	req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/acc-1", nil), "id", "acc-1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = setChiURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/missing", nil), "id", "missing")
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHandler_Reconcile(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{}, &reconciliationServiceStub{
		reconcileFn: func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
			return &usecase.ReconciliationResult{
				AccountID:         accountID,
				RecordedBalance:   decimal.NewFromInt(10),
				CalculatedBalance: decimal.NewFromInt(10),
				IsReconciled:      true,
			}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acc-1/reconciliation", nil), "id", "acc-1")
	rec := httptest.NewRecorder()
	h.Reconcile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp usecase.ReconciliationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "acc-1", resp.AccountID)
	assert.True(t, resp.IsReconciled)
}

func TestAccountHandler_LastReport(t *testing.T) {
	var report *usecase.ReconciliationReport
	h := NewAccountHandler(&accountServiceStub{}, &reconciliationServiceStub{
		reportFn: func(ctx context.Context) (*usecase.ReconciliationReport, error) {
			if report == nil {
				return nil, usecase.ErrReportNotFound
			}
			return report, nil
		},
	})

	rec := httptest.NewRecorder()
	h.LastReport(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reconciliation", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	report = &usecase.ReconciliationReport{TotalAccounts: 3, ReconciledAccounts: 3}
	rec = httptest.NewRecorder()
	h.LastReport(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reconciliation", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp usecase.ReconciliationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalAccounts)
}
