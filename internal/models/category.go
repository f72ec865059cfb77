package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups transactions of a single kind. (user_id, name, kind) is
// unique, so each user keeps an independent taxonomy per kind.
type Category struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Name      string          `db:"name"`
	Kind      TransactionKind `db:"kind"`
	IsActive  bool            `db:"is_active"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
