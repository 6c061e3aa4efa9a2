package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	PostTransaction(ctx context.Context, input usecase.PostTransactionInput) (*usecase.PostTransactionResult, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
}

// TransactionHandler handles ledger HTTP requests.
type TransactionHandler struct {
	ledger TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledger TransactionService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// Submit posts a deposit or withdrawal.
func (h *TransactionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitTransactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "post transaction", err)
		return
	}

	result, err := h.ledger.PostTransaction(r.Context(), input)
	if err != nil {
		writeDomainError(w, "post transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SubmitTransactionFromResult(result))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.ledger.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
