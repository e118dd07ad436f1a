package models

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time // nil while the session is alive
}

// Session token as handed to the browser
type IssuedSession struct {
	Value     string
	ExpiresAt time.Time
}
