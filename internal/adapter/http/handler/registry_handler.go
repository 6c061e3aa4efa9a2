package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// RegistryService defines the collaborator-entity behavior used over HTTP.
type RegistryService interface {
	CreateCustomer(ctx context.Context, input usecase.CustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input usecase.CustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	CreateBranch(ctx context.Context, input usecase.BranchInput) (*domain.Branch, error)
	GetBranch(ctx context.Context, id string) (*domain.Branch, error)
	UpdateBranch(ctx context.Context, id string, input usecase.BranchInput) (*domain.Branch, error)
	DeleteBranch(ctx context.Context, id string) error

	IssueCard(ctx context.Context, input usecase.CardInput) (*domain.Card, error)
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	UpdateCard(ctx context.Context, id string, input usecase.CardInput) (*domain.Card, error)
	DeleteCard(ctx context.Context, id string) error

	CreateLoan(ctx context.Context, input usecase.LoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	UpdateLoan(ctx context.Context, id string, input usecase.LoanInput) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, id string) error
}

// RegistryHandler serves customers, branches, cards and loans.
type RegistryHandler struct {
	registry RegistryService
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(registry RegistryService) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

func (h *RegistryHandler) noContent(w http.ResponseWriter, action string, err error) {
	if err != nil {
		writeDomainError(w, action, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateCustomer creates a customer.
func (h *RegistryHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.registry.CreateCustomer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "create customer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CustomerFromDomain(c))
}

// GetCustomer retrieves a customer.
func (h *RegistryHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.registry.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "get customer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(c))
}

// UpdateCustomer replaces a customer.
func (h *RegistryHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.registry.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "update customer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(c))
}

// DeleteCustomer removes a customer and everything it owns.
func (h *RegistryHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, "delete customer", h.registry.DeleteCustomer(r.Context(), chi.URLParam(r, "id")))
}

// CreateBranch creates a branch.
func (h *RegistryHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req dto.BranchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.registry.CreateBranch(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "create branch", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BranchFromDomain(b))
}

// GetBranch retrieves a branch.
func (h *RegistryHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	b, err := h.registry.GetBranch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "get branch", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BranchFromDomain(b))
}

// UpdateBranch replaces a branch.
func (h *RegistryHandler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	var req dto.BranchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.registry.UpdateBranch(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "update branch", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BranchFromDomain(b))
}

// DeleteBranch removes a branch without accounts.
func (h *RegistryHandler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, "delete branch", h.registry.DeleteBranch(r.Context(), chi.URLParam(r, "id")))
}

// IssueCard issues a card for an account.
func (h *RegistryHandler) IssueCard(w http.ResponseWriter, r *http.Request) {
	var req dto.CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.registry.IssueCard(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "issue card", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CardFromDomain(c))
}

// GetCard retrieves a card.
func (h *RegistryHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	c, err := h.registry.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "get card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(c))
}

// UpdateCard replaces a card.
func (h *RegistryHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var req dto.CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.registry.UpdateCard(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "update card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(c))
}

// DeleteCard removes a card.
func (h *RegistryHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, "delete card", h.registry.DeleteCard(r.Context(), chi.URLParam(r, "id")))
}

// CreateLoan creates a loan.
func (h *RegistryHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	l, err := h.registry.CreateLoan(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "create loan", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(l))
}

// GetLoan retrieves a loan.
func (h *RegistryHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	l, err := h.registry.GetLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "get loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(l))
}

// UpdateLoan replaces a loan.
func (h *RegistryHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	l, err := h.registry.UpdateLoan(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "update loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(l))
}

// DeleteLoan removes a loan.
func (h *RegistryHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, "delete loan", h.registry.DeleteLoan(r.Context(), chi.URLParam(r, "id")))
}
