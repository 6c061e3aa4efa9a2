package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, account_id, type, amount, reference, balance_after, performed_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateTransactionParams struct {
	ID           string             `json:"id"`
	AccountID    string             `json:"account_id"`
	Type         string             `json:"type"`
	Amount       pgtype.Numeric     `json:"amount"`
	Reference    string             `json:"reference"`
	BalanceAfter pgtype.Numeric     `json:"balance_after"`
	PerformedAt  pgtype.Timestamptz `json:"performed_at"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.Exec(ctx, createTransaction,
		arg.ID,
		arg.AccountID,
		arg.Type,
		arg.Amount,
		arg.Reference,
		arg.BalanceAfter,
		arg.PerformedAt,
		arg.CreatedAt,
	)
	return err
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT id, account_id, type, amount, reference, balance_after, performed_at, created_at FROM transactions WHERE id = $1
`

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Type,
		&i.Amount,
		&i.Reference,
		&i.BalanceAfter,
		&i.PerformedAt,
		&i.CreatedAt,
	)
	return i, err
}

const referenceExists = `-- name: ReferenceExists :one
SELECT EXISTS (SELECT 1 FROM transactions WHERE reference = $1)
`

func (q *Queries) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	row := q.db.QueryRow(ctx, referenceExists, reference)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getAccountTotals = `-- name: GetAccountTotals :one
SELECT
    a.id,
    a.balance,
    a.opening_balance,
    COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'DEPOSIT'), 0)::NUMERIC AS deposits,
    COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'WITHDRAW'), 0)::NUMERIC AS withdrawals
FROM accounts a
LEFT JOIN transactions t ON t.account_id = a.id
WHERE a.id = $1
GROUP BY a.id
`

type GetAccountTotalsRow struct {
	ID             string         `json:"id"`
	Balance        pgtype.Numeric `json:"balance"`
	OpeningBalance pgtype.Numeric `json:"opening_balance"`
	Deposits       pgtype.Numeric `json:"deposits"`
	Withdrawals    pgtype.Numeric `json:"withdrawals"`
}

func (q *Queries) GetAccountTotals(ctx context.Context, id string) (GetAccountTotalsRow, error) {
	row := q.db.QueryRow(ctx, getAccountTotals, id)
	var i GetAccountTotalsRow
	err := row.Scan(
		&i.ID,
		&i.Balance,
		&i.OpeningBalance,
		&i.Deposits,
		&i.Withdrawals,
	)
	return i, err
}
