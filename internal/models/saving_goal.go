package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingGoal is a named target a user saves toward. Saving transactions may
// reference a goal; deleting the goal nulls the reference. (user_id, name)
// is unique.
type SavingGoal struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	Name         string          `db:"name"`
	TargetAmount decimal.Decimal `db:"target_amount"`
	IsActive     bool            `db:"is_active"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
