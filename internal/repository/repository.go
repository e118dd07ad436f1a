package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/memojjang/memojjang/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If the username is taken must return apperrors.ErrUsernameTaken,
	// if the email is taken apperrors.ErrEmailTaken
	CreateUser(ctx context.Context, username string, email string, hashedPassword string) (models.User, error)

	// Get user by id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// Memo repository interface
// Every query is scoped to the owning user: an id that exists but belongs
// to another user behaves exactly like a missing id (apperrors.ErrMemoNotFound)
type MemoRepo interface {
	CreateMemo(ctx context.Context, userID uuid.UUID, title string, content string) (models.Memo, error)

	// List user's memos ordered by created_at descending
	ListMemos(ctx context.Context, userID uuid.UUID) ([]models.Memo, error)

	GetMemo(ctx context.Context, userID uuid.UUID, memoID uuid.UUID) (models.Memo, error)

	// Update title and content, refresh updated_at
	UpdateMemo(ctx context.Context, userID uuid.UUID, memoID uuid.UUID, title string, content string) (models.Memo, error)

	DeleteMemo(ctx context.Context, userID uuid.UUID, memoID uuid.UUID) error
}

// Session repository interface
type SessionRepo interface {
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)

	// Get session even if it expired or revoked already
	// If not found must return apperrors.ErrSessionNotFound
	GetSession(ctx context.Context, sessionID uuid.UUID) (models.Session, error)

	// Set revoked_at if it is not set yet
	// Must be idempotent: revoking a revoked session keeps the original revoked_at
	RevokeSession(ctx context.Context, sessionID uuid.UUID, at time.Time) error
}

// Storage aggregates repositories over a single connection or transaction
type Storage interface {
	User() UserRepo
	Memo() MemoRepo
	Session() SessionRepo

	// Run fn within a db transaction
	InTx(ctx context.Context, fn func(s Storage) error) error
}
