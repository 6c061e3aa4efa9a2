package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
}

// TransactionResponse represents a stored transaction.
type TransactionResponse struct {
	ID           string          `json:"transaction_id"`
	AccountID    string          `json:"account_id"`
	Type         string          `json:"txn_type"`
	Amount       decimal.Decimal `json:"amount"`
	Reference    string          `json:"reference"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	PerformedAt  time.Time       `json:"performed_at"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Type:         string(t.Type),
		Amount:       t.Amount,
		Reference:    t.Reference,
		BalanceAfter: t.BalanceAfter,
		PerformedAt:  t.PerformedAt,
		CreatedAt:    t.CreatedAt,
	}
}

// SubmitTransactionResponse is the reply to an accepted ledger update.
type SubmitTransactionResponse struct {
	TransactionID string               `json:"transaction_id"`
	NewBalance    decimal.Decimal      `json:"new_balance"`
	Transaction   *TransactionResponse `json:"transaction"`
}

// SubmitTransactionFromResult converts a ledger result to a response.
func SubmitTransactionFromResult(res *usecase.PostTransactionResult) *SubmitTransactionResponse {
	return &SubmitTransactionResponse{
		TransactionID: res.Transaction.ID,
		NewBalance:    res.NewBalance,
		Transaction:   TransactionFromDomain(res.Transaction),
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	BranchID       string          `json:"branch_id"`
	Number         string          `json:"account_number"`
	Type           string          `json:"account_type"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Active         bool            `json:"active"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		CustomerID:     a.CustomerID,
		BranchID:       a.BranchID,
		Number:         a.Number,
		Type:           string(a.Type),
		Balance:        a.Balance,
		OpeningBalance: a.OpeningBalance,
		Active:         a.Active,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// CustomerResponse represents a customer.
type CustomerResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerFromDomain converts a domain customer to a response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// BranchResponse represents a branch.
type BranchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchFromDomain converts a domain branch to a response.
func BranchFromDomain(b *domain.Branch) *BranchResponse {
	return &BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Code:      b.Code,
		City:      b.City,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// CardResponse represents a card.
type CardResponse struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	Number     string    `json:"card_number"`
	Type       string    `json:"card_type"`
	ExpiryDate string    `json:"expiry_date"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CardFromDomain converts a domain card to a response.
func CardFromDomain(c *domain.Card) *CardResponse {
	return &CardResponse{
		ID:         c.ID,
		AccountID:  c.AccountID,
		Number:     c.Number,
		Type:       string(c.Type),
		ExpiryDate: c.ExpiryDate.Format(time.DateOnly),
		Active:     c.Active,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// LoanResponse represents a loan.
type LoanResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	Status          string          `json:"status"`
	StartDate       string          `json:"start_date"`
	EndDate         *string         `json:"end_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	resp := &LoanResponse{
		ID:              l.ID,
		CustomerID:      l.CustomerID,
		PrincipalAmount: l.PrincipalAmount,
		InterestRate:    l.InterestRate,
		Status:          string(l.Status),
		StartDate:       l.StartDate.Format(time.DateOnly),
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if l.EndDate != nil {
		end := l.EndDate.Format(time.DateOnly)
		resp.EndDate = &end
	}

	return resp
}
