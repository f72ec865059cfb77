package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a per-user payment instrument. (user_id, name) is unique.
type PaymentMethod struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
