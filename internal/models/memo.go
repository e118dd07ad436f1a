package models

import (
	"time"

	"github.com/google/uuid"
)

type Memo struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
