package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID             string             `json:"id"`
	CustomerID     string             `json:"customer_id"`
	BranchID       string             `json:"branch_id"`
	Number         string             `json:"number"`
	Type           string             `json:"type"`
	Balance        pgtype.Numeric     `json:"balance"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	Active         bool               `json:"active"`
	Version        int64              `json:"version"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type Branch struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Code      string             `json:"code"`
	City      string             `json:"city"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Card struct {
	ID         string             `json:"id"`
	AccountID  string             `json:"account_id"`
	Number     string             `json:"number"`
	Type       string             `json:"type"`
	ExpiryDate pgtype.Date        `json:"expiry_date"`
	Active     bool               `json:"active"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

type Customer struct {
	ID        string             `json:"id"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	Address   string             `json:"address"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Loan struct {
	ID              string             `json:"id"`
	CustomerID      string             `json:"customer_id"`
	PrincipalAmount pgtype.Numeric     `json:"principal_amount"`
	InterestRate    pgtype.Numeric     `json:"interest_rate"`
	Status          string             `json:"status"`
	StartDate       pgtype.Date        `json:"start_date"`
	EndDate         pgtype.Date        `json:"end_date"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type Transaction struct {
	ID           string             `json:"id"`
	AccountID    string             `json:"account_id"`
	Type         string             `json:"type"`
	Amount       pgtype.Numeric     `json:"amount"`
	Reference    string             `json:"reference"`
	BalanceAfter pgtype.Numeric     `json:"balance_after"`
	PerformedAt  pgtype.Timestamptz `json:"performed_at"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}
