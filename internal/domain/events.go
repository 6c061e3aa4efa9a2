package domain

import "time"

// Event types
const (
	EventTypeTransactionPosted = "transaction.posted"
	EventTypeAccountOpened     = "account.opened"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionPostedEvent payload
type TransactionPostedEvent struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	Type          string `json:"txn_type"`
	Amount        string `json:"amount"`
	Reference     string `json:"reference"`
	BalanceAfter  string `json:"balance_after"`
	PerformedAt   string `json:"performed_at"`
}

// Map flattens the payload for storage in the outbox.
func (e TransactionPostedEvent) Map() map[string]any {
	return map[string]any{
		"transaction_id": e.TransactionID,
		"account_id":     e.AccountID,
		"txn_type":       e.Type,
		"amount":         e.Amount,
		"reference":      e.Reference,
		"balance_after":  e.BalanceAfter,
		"performed_at":   e.PerformedAt,
	}
}

// AccountOpenedEvent payload
type AccountOpenedEvent struct {
	AccountID      string `json:"account_id"`
	Number         string `json:"account_number"`
	CustomerID     string `json:"customer_id"`
	OpeningBalance string `json:"opening_balance"`
}

// Map flattens the payload for storage in the outbox.
func (e AccountOpenedEvent) Map() map[string]any {
	return map[string]any{
		"account_id":      e.AccountID,
		"account_number":  e.Number,
		"customer_id":     e.CustomerID,
		"opening_balance": e.OpeningBalance,
	}
}
