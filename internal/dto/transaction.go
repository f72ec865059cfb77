package dto

import "github.com/shopspring/decimal"

// TransactionRequest is the create/update payload for every transaction
// kind. Which of the kind-specific fields are honored depends on the kind.
type TransactionRequest struct {
	Kind            string          `json:"kind"`
	Date            string          `json:"date"` // YYYY-MM-DD
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      *string         `json:"category_id"`
	PaymentMethodID *string         `json:"payment_method_id"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes"`

	Source      string           `json:"source,omitempty"`
	IsPaid      *bool            `json:"is_paid,omitempty"`
	DueDay      *int             `json:"due_day,omitempty"`
	ExpenseType string           `json:"expense_type,omitempty"`
	SavingType  string           `json:"saving_type,omitempty"`
	GoalID      *string          `json:"goal_id,omitempty"`
	GoalName    string           `json:"goal_name,omitempty"`
	GoalAmount  *decimal.Decimal `json:"goal_amount,omitempty"`
}

type TransactionResponse struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	Date            string          `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      *string         `json:"category_id"`
	PaymentMethodID *string         `json:"payment_method_id"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes,omitempty"`

	Source      string           `json:"source,omitempty"`
	IsPaid      *bool            `json:"is_paid,omitempty"`
	DueDay      *int             `json:"due_day,omitempty"`
	ExpenseType string           `json:"expense_type,omitempty"`
	SavingType  string           `json:"saving_type,omitempty"`
	GoalID      *string          `json:"goal_id,omitempty"`
	GoalName    string           `json:"goal_name,omitempty"`
	GoalAmount  *decimal.Decimal `json:"goal_amount,omitempty"`

	CreatedAt string `json:"created_at"`
}

type TransactionListResponse struct {
	Items    []TransactionResponse `json:"items"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}
