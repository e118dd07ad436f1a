package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/memojjang/memojjang/internal/apperrors"
	"github.com/memojjang/memojjang/internal/models"
)

type MemoRepo struct {
	DB DBTX
}

const createMemo = `-- name: CreateMemo
INSERT INTO memos (id, user_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
RETURNING id, user_id, title, content, created_at, updated_at
`

func (r *MemoRepo) CreateMemo(ctx context.Context, userID uuid.UUID, title string, content string) (models.Memo, error) {
	rows, _ := r.DB.Query(ctx, createMemo, uuid.New(), userID, title, content, time.Now())
	memo, err := pgx.CollectOneRow(rows, rowToMemo)
	if err != nil {
		return memo, fmt.Errorf("db error: %w", err)
	}

	return memo, nil
}

// Newest first, same ordering the list page shows
const listMemos = `-- name: ListMemos
SELECT id, user_id, title, content, created_at, updated_at
FROM memos
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`

func (r *MemoRepo) ListMemos(ctx context.Context, userID uuid.UUID) ([]models.Memo, error) {
	rows, _ := r.DB.Query(ctx, listMemos, userID)
	memos, err := pgx.CollectRows(rows, rowToMemo)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return memos, nil
}

const getMemo = `-- name: GetMemo
SELECT id, user_id, title, content, created_at, updated_at
FROM memos
WHERE id = $1 AND user_id = $2
`

func (r *MemoRepo) GetMemo(ctx context.Context, userID uuid.UUID, memoID uuid.UUID) (models.Memo, error) {
	rows, _ := r.DB.Query(ctx, getMemo, memoID, userID)
	memo, err := pgx.CollectOneRow(rows, rowToMemo)

	switch {
	case err == nil:
		return memo, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Someone else's memo scans as no rows: not owned == not found
		return memo, apperrors.ErrMemoNotFound
	default:
		return memo, fmt.Errorf("db error: %w", err)
	}
}

const updateMemo = `-- name: UpdateMemo
UPDATE memos
SET title = $3, content = $4, updated_at = $5
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, title, content, created_at, updated_at
`

func (r *MemoRepo) UpdateMemo(ctx context.Context, userID uuid.UUID, memoID uuid.UUID, title string, content string) (models.Memo, error) {
	rows, _ := r.DB.Query(ctx, updateMemo, memoID, userID, title, content, time.Now())
	memo, err := pgx.CollectOneRow(rows, rowToMemo)

	switch {
	case err == nil:
		return memo, nil
	case errors.Is(err, pgx.ErrNoRows):
		return memo, apperrors.ErrMemoNotFound
	default:
		return memo, fmt.Errorf("db error: %w", err)
	}
}

const deleteMemo = `-- name: DeleteMemo
DELETE FROM memos
WHERE id = $1 AND user_id = $2
`

func (r *MemoRepo) DeleteMemo(ctx context.Context, userID uuid.UUID, memoID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteMemo, memoID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrMemoNotFound
	}

	return nil
}

func rowToMemo(row pgx.CollectableRow) (models.Memo, error) {
	var m models.Memo
	err := row.Scan(&m.ID, &m.UserID, &m.Title, &m.Content, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}
