package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// SubmitTransactionRequest is the body of POST /api/v1/transactions. Amount
// accepts a JSON string or number and is parsed as an exact decimal.
type SubmitTransactionRequest struct {
	AccountID   string          `json:"account_id"   validate:"required"`
	Type        string          `json:"txn_type"     validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"    validate:"required,max=64"`
	PerformedAt *time.Time      `json:"performed_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitTransactionRequest) ToUseCaseInput() (usecase.PostTransactionInput, error) {
	txnType, err := domain.ParseTransactionType(r.Type)
	if err != nil {
		return usecase.PostTransactionInput{}, err
	}

	return usecase.PostTransactionInput{
		AccountID:   r.AccountID,
		Type:        txnType,
		Amount:      r.Amount,
		Reference:   r.Reference,
		PerformedAt: r.PerformedAt,
	}, nil
}

// CustomerRequest creates or replaces a customer.
type CustomerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name"  validate:"max=50"`
	Email     string `json:"email"      validate:"required"`
	Phone     string `json:"phone"      validate:"required,max=15"`
	Address   string `json:"address"`
}

// ToUseCaseInput converts to use case input.
func (r *CustomerRequest) ToUseCaseInput() usecase.CustomerInput {
	return usecase.CustomerInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
	}
}

// BranchRequest creates or replaces a branch.
type BranchRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,max=10"`
	City string `json:"city" validate:"max=50"`
}

// ToUseCaseInput converts to use case input.
func (r *BranchRequest) ToUseCaseInput() usecase.BranchInput {
	return usecase.BranchInput{Name: r.Name, Code: r.Code, City: r.City}
}

// OpenAccountRequest is the body of POST /api/v1/accounts.
type OpenAccountRequest struct {
	CustomerID string          `json:"customer_id"    validate:"required"`
	BranchID   string          `json:"branch_id"      validate:"required"`
	Number     string          `json:"account_number" validate:"required,max=20"`
	Type       string          `json:"account_type"   validate:"omitempty,oneof=SAV CUR"`
	Balance    decimal.Decimal `json:"balance"`
	Active     *bool           `json:"active,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput() usecase.OpenAccountInput {
	return usecase.OpenAccountInput{
		CustomerID: r.CustomerID,
		BranchID:   r.BranchID,
		Number:     r.Number,
		Type:       r.Type,
		Balance:    r.Balance,
		Active:     r.Active,
	}
}

// SetAccountActiveRequest is the body of PATCH /api/v1/accounts/{id}.
type SetAccountActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// CardRequest issues or replaces a card.
type CardRequest struct {
	AccountID  string    `json:"account_id"  validate:"required"`
	Number     string    `json:"card_number" validate:"required,len=16"`
	Type       string    `json:"card_type"   validate:"omitempty,oneof=DEBIT CREDIT"`
	ExpiryDate time.Time `json:"expiry_date" validate:"required"`
	Active     *bool     `json:"active,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CardRequest) ToUseCaseInput() usecase.CardInput {
	return usecase.CardInput{
		AccountID:  r.AccountID,
		Number:     r.Number,
		Type:       r.Type,
		ExpiryDate: r.ExpiryDate,
		Active:     r.Active,
	}
}

// LoanRequest creates or replaces a loan.
type LoanRequest struct {
	CustomerID      string          `json:"customer_id"      validate:"required"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	Status          string          `json:"status"           validate:"omitempty,oneof=PENDING APPROVED REPAID"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *LoanRequest) ToUseCaseInput() usecase.LoanInput {
	return usecase.LoanInput{
		CustomerID:      r.CustomerID,
		PrincipalAmount: r.PrincipalAmount,
		InterestRate:    r.InterestRate,
		Status:          r.Status,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
	}
}
