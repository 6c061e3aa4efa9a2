package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createBranch = `-- name: CreateBranch :exec
INSERT INTO branches (id, name, code, city, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateBranchParams struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Code      string             `json:"code"`
	City      string             `json:"city"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateBranch(ctx context.Context, arg CreateBranchParams) error {
	_, err := q.db.Exec(ctx, createBranch,
		arg.ID,
		arg.Name,
		arg.Code,
		arg.City,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteBranch = `-- name: DeleteBranch :execrows
DELETE FROM branches WHERE id = $1
`

func (q *Queries) DeleteBranch(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteBranch, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getBranchByID = `-- name: GetBranchByID :one
SELECT id, name, code, city, created_at, updated_at FROM branches WHERE id = $1
`

func (q *Queries) GetBranchByID(ctx context.Context, id string) (Branch, error) {
	row := q.db.QueryRow(ctx, getBranchByID, id)
	var i Branch
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Code,
		&i.City,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateBranch = `-- name: UpdateBranch :execrows
UPDATE branches SET name = $2, code = $3, city = $4, updated_at = $5 WHERE id = $1
`

type UpdateBranchParams struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Code      string             `json:"code"`
	City      string             `json:"city"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateBranch(ctx context.Context, arg UpdateBranchParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateBranch,
		arg.ID,
		arg.Name,
		arg.Code,
		arg.City,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
