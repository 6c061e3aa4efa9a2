package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLoan = `-- name: CreateLoan :exec
INSERT INTO loans (id, customer_id, principal_amount, interest_rate, status, start_date, end_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateLoanParams struct {
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

func (q *Queries) CreateLoan(ctx context.Context, arg CreateLoanParams) error {
	_, err := q.db.Exec(ctx, createLoan,
		arg.ID,
		arg.CustomerID,
		arg.PrincipalAmount,
		arg.InterestRate,
		arg.Status,
		arg.StartDate,
		arg.EndDate,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteLoan = `-- name: DeleteLoan :execrows
DELETE FROM loans WHERE id = $1
`

func (q *Queries) DeleteLoan(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteLoan, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getLoanByID = `-- name: GetLoanByID :one
SELECT id, customer_id, principal_amount, interest_rate, status, start_date, end_date, created_at, updated_at FROM loans WHERE id = $1
`

func (q *Queries) GetLoanByID(ctx context.Context, id string) (Loan, error) {
	row := q.db.QueryRow(ctx, getLoanByID, id)
	var i Loan
	err := row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.PrincipalAmount,
		&i.InterestRate,
		&i.Status,
		&i.StartDate,
		&i.EndDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateLoan = `-- name: UpdateLoan :execrows
UPDATE loans SET customer_id = $2, principal_amount = $3, interest_rate = $4, status = $5, start_date = $6, end_date = $7, updated_at = $8
WHERE id = $1
`

type UpdateLoanParams struct {
	ID              string             `json:"id"`
	CustomerID      string             `json:"customer_id"`
	PrincipalAmount pgtype.Numeric     `json:"principal_amount"`
	InterestRate    pgtype.Numeric     `json:"interest_rate"`
	Status          string             `json:"status"`
	StartDate       pgtype.Date        `json:"start_date"`
	EndDate         pgtype.Date        `json:"end_date"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateLoan(ctx context.Context, arg UpdateLoanParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateLoan,
		arg.ID,
		arg.CustomerID,
		arg.PrincipalAmount,
		arg.InterestRate,
		arg.Status,
		arg.StartDate,
		arg.EndDate,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
