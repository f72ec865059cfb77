package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"financehub/internal/dto"
	"financehub/internal/models"
	"financehub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListParams narrows and pages a transaction listing.
type ListParams struct {
	Kind     string
	Year     int
	Month    int
	Query    string
	Page     int
	PageSize int
}

type TransactionService struct {
	txRepo       *repository.TransactionRepository
	categoryRepo *repository.CategoryRepository
	methodRepo   *repository.PaymentMethodRepository
	goalRepo     *repository.SavingGoalRepository
	logger       *zap.Logger
}

func NewTransactionService(
	txRepo *repository.TransactionRepository,
	categoryRepo *repository.CategoryRepository,
	methodRepo *repository.PaymentMethodRepository,
	goalRepo *repository.SavingGoalRepository,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
		methodRepo:   methodRepo,
		goalRepo:     goalRepo,
		logger:       logger,
	}
}

func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, req *dto.TransactionRequest) (*dto.TransactionResponse, error) {
	kind := models.TransactionKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrValidation, req.Kind)
	}

	now := time.Now()
	tx := &models.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(ctx, tx, req); err != nil {
		return nil, err
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction created",
		zap.String("id", tx.ID.String()),
		zap.String("kind", string(tx.Kind)),
		zap.String("user_id", userID.String()),
	)

	return transactionResponse(tx), nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.TransactionResponse, error) {
	tx, err := s.txRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return transactionResponse(tx), nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.TransactionRequest) (*dto.TransactionResponse, error) {
	tx, err := s.txRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// The kind tag is fixed at creation.
	if req.Kind != "" && models.TransactionKind(req.Kind) != tx.Kind {
		return nil, fmt.Errorf("%w: kind cannot be changed", ErrValidation)
	}

	if err := s.apply(ctx, tx, req); err != nil {
		return nil, err
	}
	tx.UpdatedAt = time.Now()

	if err := s.txRepo.Update(ctx, tx); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return transactionResponse(tx), nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.txRepo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// validateListFilter checks the kind and period filters on a listing
// request. A year alone filters the whole calendar year; a month only
// makes sense together with a year.
func validateListFilter(params ListParams) error {
	if params.Kind != "" && !models.TransactionKind(params.Kind).Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrValidation, params.Kind)
	}
	if params.Month != 0 && params.Year == 0 {
		return fmt.Errorf("%w: month filter requires a year", ErrValidation)
	}
	if params.Month != 0 {
		return ValidatePeriod(params.Year, params.Month)
	}
	if params.Year != 0 {
		return ValidatePeriod(params.Year, 1)
	}
	return nil
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, params ListParams) (*dto.TransactionListResponse, error) {
	if err := validateListFilter(params); err != nil {
		return nil, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	transactions, total, err := s.txRepo.List(ctx, userID, repository.ListFilter{
		Kind:   models.TransactionKind(params.Kind),
		Year:   params.Year,
		Month:  params.Month,
		Query:  params.Query,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		items = append(items, *transactionResponse(tx))
	}

	return &dto.TransactionListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// apply validates a request payload and writes it onto tx. Kind-foreign
// fields are cleared so an income row never carries a saving type.
func (s *TransactionService) apply(ctx context.Context, tx *models.Transaction, req *dto.TransactionRequest) error {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	tx.Date = date

	if req.Amount.Sign() < 0 {
		return fmt.Errorf("%w: amount must be non-negative", ErrValidation)
	}
	if req.Amount.Exponent() < -2 {
		return fmt.Errorf("%w: amount must have at most 2 decimal places", ErrValidation)
	}
	tx.Amount = req.Amount

	if req.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	tx.Description = sanitizeUTF8(req.Description)
	tx.Notes = sanitizeUTF8(req.Notes)

	tx.CategoryID, err = s.resolveCategory(ctx, tx.UserID, tx.Kind, req.CategoryID)
	if err != nil {
		return err
	}
	tx.PaymentMethodID, err = s.resolvePaymentMethod(ctx, tx.UserID, req.PaymentMethodID)
	if err != nil {
		return err
	}

	tx.Source = ""
	tx.IsPaid = nil
	tx.DueDay = nil
	tx.ExpenseType = nil
	tx.SavingType = nil
	tx.GoalID = nil
	tx.GoalName = ""
	tx.GoalAmount = nil

	switch tx.Kind {
	case models.KindIncome:
		if req.Source == "" {
			return fmt.Errorf("%w: source is required for incomes", ErrValidation)
		}
		tx.Source = sanitizeUTF8(req.Source)

	case models.KindFixed:
		paid := false
		if req.IsPaid != nil {
			paid = *req.IsPaid
		}
		tx.IsPaid = &paid
		if req.DueDay != nil {
			if *req.DueDay < 1 || *req.DueDay > 31 {
				return fmt.Errorf("%w: due_day must be between 1 and 31", ErrValidation)
			}
			tx.DueDay = req.DueDay
		}

	case models.KindVariable:
		expenseType := models.ExpenseType(req.ExpenseType)
		if !expenseType.Valid() {
			return fmt.Errorf("%w: expense_type must be NECESSARY or WANT", ErrValidation)
		}
		tx.ExpenseType = &expenseType

	case models.KindSaving:
		savingType := models.SavingType(req.SavingType)
		if !savingType.Valid() {
			return fmt.Errorf("%w: saving_type must be SAVINGS, INVESTMENT or FUND", ErrValidation)
		}
		tx.SavingType = &savingType
		tx.GoalName = sanitizeUTF8(req.GoalName)
		if req.GoalAmount != nil {
			if req.GoalAmount.Sign() < 0 {
				return fmt.Errorf("%w: goal_amount must be non-negative", ErrValidation)
			}
			tx.GoalAmount = req.GoalAmount
		}
		tx.GoalID, err = s.resolveGoal(ctx, tx.UserID, req.GoalID)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *TransactionService) resolveCategory(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid category_id", ErrValidation)
	}
	category, err := s.categoryRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: category not found", ErrValidation)
		}
		return nil, err
	}
	if category.Kind != kind {
		return nil, fmt.Errorf("%w: category %q belongs to kind %s", ErrValidation, category.Name, category.Kind)
	}
	return &id, nil
}

func (s *TransactionService) resolvePaymentMethod(ctx context.Context, userID uuid.UUID, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payment_method_id", ErrValidation)
	}
	if _, err := s.methodRepo.GetByID(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: payment method not found", ErrValidation)
		}
		return nil, err
	}
	return &id, nil
}

func (s *TransactionService) resolveGoal(ctx context.Context, userID uuid.UUID, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid goal_id", ErrValidation)
	}
	if _, err := s.goalRepo.GetByID(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: saving goal not found", ErrValidation)
		}
		return nil, err
	}
	return &id, nil
}

func transactionResponse(tx *models.Transaction) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:          tx.ID.String(),
		Kind:        string(tx.Kind),
		Date:        tx.Date.Format("2006-01-02"),
		Amount:      tx.Amount,
		Description: tx.Description,
		Notes:       tx.Notes,
		Source:      tx.Source,
		IsPaid:      tx.IsPaid,
		DueDay:      tx.DueDay,
		GoalName:    tx.GoalName,
		GoalAmount:  tx.GoalAmount,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.CategoryID != nil {
		id := tx.CategoryID.String()
		resp.CategoryID = &id
	}
	if tx.PaymentMethodID != nil {
		id := tx.PaymentMethodID.String()
		resp.PaymentMethodID = &id
	}
	if tx.ExpenseType != nil {
		resp.ExpenseType = string(*tx.ExpenseType)
	}
	if tx.SavingType != nil {
		resp.SavingType = string(*tx.SavingType)
	}
	if tx.GoalID != nil {
		id := tx.GoalID.String()
		resp.GoalID = &id
	}
	return resp
}
