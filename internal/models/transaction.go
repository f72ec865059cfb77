package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindIncome   TransactionKind = "INCOME"
	KindFixed    TransactionKind = "FIXED"
	KindVariable TransactionKind = "VARIABLE"
	KindSaving   TransactionKind = "SAVING"
)

func (k TransactionKind) Valid() bool {
	switch k {
	case KindIncome, KindFixed, KindVariable, KindSaving:
		return true
	}
	return false
}

// ExpenseKinds are the kinds that count toward total expenses.
var ExpenseKinds = []TransactionKind{KindFixed, KindVariable}

type ExpenseType string

const (
	ExpenseNecessary ExpenseType = "NECESSARY"
	ExpenseWant      ExpenseType = "WANT"
)

func (t ExpenseType) Valid() bool {
	return t == ExpenseNecessary || t == ExpenseWant
}

type SavingType string

const (
	SavingSavings    SavingType = "SAVINGS"
	SavingInvestment SavingType = "INVESTMENT"
	SavingFund       SavingType = "FUND"
)

func (t SavingType) Valid() bool {
	return t == SavingSavings || t == SavingInvestment || t == SavingFund
}

// Transaction is the common record shape for all four kinds. The kind tag
// decides which of the optional fields carry meaning: Source for incomes,
// IsPaid/DueDay for fixed expenses, ExpenseType for variable expenses,
// SavingType and the goal fields for savings. Category and payment method
// are optional references that are nulled when the referenced row is
// deleted.
type Transaction struct {
	ID              uuid.UUID       `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	Kind            TransactionKind `db:"kind"`
	Date            time.Time       `db:"date"`
	Amount          decimal.Decimal `db:"amount"`
	CategoryID      *uuid.UUID      `db:"category_id"`
	PaymentMethodID *uuid.UUID      `db:"payment_method_id"`
	Description     string          `db:"description"`
	Notes           string          `db:"notes"`

	Source      string           `db:"source"`
	IsPaid      *bool            `db:"is_paid"`
	DueDay      *int             `db:"due_day"`
	ExpenseType *ExpenseType     `db:"expense_type"`
	SavingType  *SavingType      `db:"saving_type"`
	GoalID      *uuid.UUID       `db:"goal_id"`
	GoalName    string           `db:"goal_name"`
	GoalAmount  *decimal.Decimal `db:"goal_amount"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
