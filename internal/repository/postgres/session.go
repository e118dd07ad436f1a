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

type SessionRepo struct {
	DB DBTX
}

const createSession = `-- name: CreateSession
INSERT INTO sessions (id, user_id, created_at, expires_at, revoked_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, created_at, expires_at, revoked_at
`

func (r *SessionRepo) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, createSession, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt, session.RevokedAt)
	session, err := pgx.CollectOneRow(rows, rowToSession)
	if err != nil {
		return session, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

const getSession = `-- name: GetSession
SELECT id, user_id, created_at, expires_at, revoked_at
FROM sessions
WHERE id = $1
`

// Get session even if expired or revoked: the caller decides what that means
func (r *SessionRepo) GetSession(ctx context.Context, sessionID uuid.UUID) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, getSession, sessionID)
	session, err := pgx.CollectOneRow(rows, rowToSession)

	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, pgx.ErrNoRows):
		return session, apperrors.ErrSessionNotFound
	default:
		return session, fmt.Errorf("db error: %w", err)
	}
}

const revokeSession = `-- name: RevokeSession
UPDATE sessions
SET revoked_at = COALESCE(revoked_at, $2)
WHERE id = $1
`

// Revoke session, keeping the original revoked_at if it was revoked already
func (r *SessionRepo) RevokeSession(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	tag, err := r.DB.Exec(ctx, revokeSession, sessionID, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}

func rowToSession(row pgx.CollectableRow) (models.Session, error) {
	var s models.Session
	err := row.Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &s.RevokedAt)
	return s, err
}
