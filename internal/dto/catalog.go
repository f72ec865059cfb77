package dto

import "github.com/shopspring/decimal"

type CategoryRequest struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type CategoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	IsActive bool   `json:"is_active"`
}

type PaymentMethodRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type PaymentMethodResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type SavingGoalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	IsActive     *bool           `json:"is_active,omitempty"`
}

type SavingGoalResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	IsActive     bool            `json:"is_active"`
}
