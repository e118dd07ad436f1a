package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string
	Email          string
	HashedPassword string

	// Flags kept for parity with the users table; no route consumes them
	IsStaff     bool
	IsSuperuser bool
}
