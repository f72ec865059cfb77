package service

import (
	"context"
	"testing"

	"financehub/internal/dto"
	"financehub/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// apply only touches the catalog repositories when the request references
// them, so the validation rules are testable without a database.
func newValidationService() *TransactionService {
	return &TransactionService{logger: zap.NewNop()}
}

func validRequest(kind models.TransactionKind) *dto.TransactionRequest {
	req := &dto.TransactionRequest{
		Kind:        string(kind),
		Date:        "2025-06-15",
		Amount:      decimal.RequireFromString("100.50"),
		Description: "prueba",
	}
	switch kind {
	case models.KindIncome:
		req.Source = "Empresa Omega"
	case models.KindVariable:
		req.ExpenseType = string(models.ExpenseNecessary)
	case models.KindSaving:
		req.SavingType = string(models.SavingSavings)
	}
	return req
}

func TestApply_Validation(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.TransactionKind
		mutate  func(*dto.TransactionRequest)
		wantErr string
	}{
		{
			name:   "valid income",
			kind:   models.KindIncome,
			mutate: func(*dto.TransactionRequest) {},
		},
		{
			name:    "bad date",
			kind:    models.KindIncome,
			mutate:  func(r *dto.TransactionRequest) { r.Date = "15/06/2025" },
			wantErr: "date",
		},
		{
			name:    "negative amount",
			kind:    models.KindIncome,
			mutate:  func(r *dto.TransactionRequest) { r.Amount = decimal.RequireFromString("-5") },
			wantErr: "non-negative",
		},
		{
			name:    "too many decimals",
			kind:    models.KindIncome,
			mutate:  func(r *dto.TransactionRequest) { r.Amount = decimal.RequireFromString("10.999") },
			wantErr: "decimal",
		},
		{
			name:    "missing description",
			kind:    models.KindIncome,
			mutate:  func(r *dto.TransactionRequest) { r.Description = "" },
			wantErr: "description",
		},
		{
			name:    "income requires source",
			kind:    models.KindIncome,
			mutate:  func(r *dto.TransactionRequest) { r.Source = "" },
			wantErr: "source",
		},
		{
			name:    "due day out of range",
			kind:    models.KindFixed,
			mutate:  func(r *dto.TransactionRequest) { due := 32; r.DueDay = &due },
			wantErr: "due_day",
		},
		{
			name:    "variable requires expense type",
			kind:    models.KindVariable,
			mutate:  func(r *dto.TransactionRequest) { r.ExpenseType = "" },
			wantErr: "expense_type",
		},
		{
			name:    "variable rejects unknown expense type",
			kind:    models.KindVariable,
			mutate:  func(r *dto.TransactionRequest) { r.ExpenseType = "LUXURY" },
			wantErr: "expense_type",
		},
		{
			name:    "saving requires saving type",
			kind:    models.KindSaving,
			mutate:  func(r *dto.TransactionRequest) { r.SavingType = "" },
			wantErr: "saving_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newValidationService()
			req := validRequest(tt.kind)
			tt.mutate(req)

			tx := &models.Transaction{Kind: tt.kind}
			err := svc.apply(context.Background(), tx, req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApply_ZeroAmountAllowed(t *testing.T) {
	svc := newValidationService()
	req := validRequest(models.KindIncome)
	req.Amount = decimal.Zero

	tx := &models.Transaction{Kind: models.KindIncome}
	require.NoError(t, svc.apply(context.Background(), tx, req))
	assert.True(t, tx.Amount.IsZero())
}

func TestApply_FixedDefaultsUnpaid(t *testing.T) {
	svc := newValidationService()
	req := validRequest(models.KindFixed)
	due := 5
	req.DueDay = &due

	tx := &models.Transaction{Kind: models.KindFixed}
	require.NoError(t, svc.apply(context.Background(), tx, req))

	require.NotNil(t, tx.IsPaid)
	assert.False(t, *tx.IsPaid)
	require.NotNil(t, tx.DueDay)
	assert.Equal(t, 5, *tx.DueDay)
}

func TestApply_ClearsForeignKindFields(t *testing.T) {
	svc := newValidationService()

	// A stale saving payload on an income row is dropped on update.
	savingType := models.SavingSavings
	tx := &models.Transaction{
		Kind:       models.KindIncome,
		SavingType: &savingType,
		GoalName:   "Vacaciones",
	}

	req := validRequest(models.KindIncome)
	require.NoError(t, svc.apply(context.Background(), tx, req))

	assert.Nil(t, tx.SavingType)
	assert.Empty(t, tx.GoalName)
	assert.Nil(t, tx.GoalID)
	assert.Nil(t, tx.IsPaid)
	assert.Equal(t, "Empresa Omega", tx.Source)
}

func TestValidateListFilter(t *testing.T) {
	tests := []struct {
		name    string
		params  ListParams
		wantErr error
	}{
		{name: "no filters", params: ListParams{}},
		{name: "kind only", params: ListParams{Kind: string(models.KindFixed)}},
		{name: "year only", params: ListParams{Year: 2025}},
		{name: "year and month", params: ListParams{Year: 2025, Month: 6}},
		{name: "unknown kind", params: ListParams{Kind: "LOAN"}, wantErr: ErrValidation},
		{name: "month without year", params: ListParams{Month: 6}, wantErr: ErrValidation},
		{name: "month out of range", params: ListParams{Year: 2025, Month: 13}, wantErr: ErrInvalidPeriod},
		{name: "year out of range", params: ListParams{Year: 1800}, wantErr: ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateListFilter(tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
