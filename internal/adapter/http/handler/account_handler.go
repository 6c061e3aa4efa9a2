package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// ReconciliationService defines the reconciliation behavior used over HTTP.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	LastReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	reconUC   ReconciliationService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, reconUC ReconciliationService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, reconUC: reconUC}
}

// Create opens a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.accountUC.OpenAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "open account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// SetActive activates or deactivates an account.
func (h *AccountHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req dto.SetAccountActiveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.accountUC.SetActive(r.Context(), chi.URLParam(r, "id"), *req.Active)
	if err != nil {
		writeDomainError(w, "update account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Delete removes an account with its transactions and card.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.accountUC.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "delete account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reconcile compares an account's balance with its transaction history.
func (h *AccountHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconUC.ReconcileAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "reconcile account", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// LastReport returns the report of the latest scheduled reconciliation.
func (h *AccountHandler) LastReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.LastReport(r.Context())
	if err != nil {
		writeDomainError(w, "get reconciliation report", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
