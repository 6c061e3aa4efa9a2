package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCard = `-- name: CreateCard :exec
INSERT INTO cards (id, account_id, number, type, expiry_date, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateCardParams struct {
	ID         string             `json:"id"`
	AccountID  string             `json:"account_id"`
	Number     string             `json:"number"`
	Type       string             `json:"type"`
	ExpiryDate pgtype.Date        `json:"expiry_date"`
	Active     bool               `json:"active"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateCard(ctx context.Context, arg CreateCardParams) error {
	_, err := q.db.Exec(ctx, createCard,
		arg.ID,
		arg.AccountID,
		arg.Number,
		arg.Type,
		arg.ExpiryDate,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteCard = `-- name: DeleteCard :execrows
DELETE FROM cards WHERE id = $1
`

func (q *Queries) DeleteCard(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCard, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getCardByID = `-- name: GetCardByID :one
SELECT id, account_id, number, type, expiry_date, active, created_at, updated_at FROM cards WHERE id = $1
`

func (q *Queries) GetCardByID(ctx context.Context, id string) (Card, error) {
	row := q.db.QueryRow(ctx, getCardByID, id)
	var i Card
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Number,
		&i.Type,
		&i.ExpiryDate,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateCard = `-- name: UpdateCard :execrows
UPDATE cards SET account_id = $2, number = $3, type = $4, expiry_date = $5, active = $6, updated_at = $7
WHERE id = $1
`

type UpdateCardParams struct {
	ID         string             `json:"id"`
	AccountID  string             `json:"account_id"`
	Number     string             `json:"number"`
	Type       string             `json:"type"`
	ExpiryDate pgtype.Date        `json:"expiry_date"`
	Active     bool               `json:"active"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateCard(ctx context.Context, arg UpdateCardParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateCard,
		arg.ID,
		arg.AccountID,
		arg.Number,
		arg.Type,
		arg.ExpiryDate,
		arg.Active,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
