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

type PaymentMethodService struct {
	repo   *repository.PaymentMethodRepository
	logger *zap.Logger
}

func NewPaymentMethodService(repo *repository.PaymentMethodRepository, logger *zap.Logger) *PaymentMethodService {
	return &PaymentMethodService{
		repo:   repo,
		logger: logger,
	}
}

func (s *PaymentMethodService) Create(ctx context.Context, userID uuid.UUID, req *dto.PaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	now := time.Now()
	method := &models.PaymentMethod{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      sanitizeUTF8(req.Name),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.IsActive != nil {
		method.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, method); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	return paymentMethodResponse(method), nil
}

func (s *PaymentMethodService) List(ctx context.Context, userID uuid.UUID) ([]dto.PaymentMethodResponse, error) {
	methods, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.PaymentMethodResponse, 0, len(methods))
	for _, method := range methods {
		result = append(result, *paymentMethodResponse(method))
	}
	return result, nil
}

func (s *PaymentMethodService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.PaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	method, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		method.Name = sanitizeUTF8(req.Name)
	}
	if req.IsActive != nil {
		method.IsActive = *req.IsActive
	}
	method.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, method); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return paymentMethodResponse(method), nil
}

func (s *PaymentMethodService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func paymentMethodResponse(pm *models.PaymentMethod) *dto.PaymentMethodResponse {
	return &dto.PaymentMethodResponse{
		ID:       pm.ID.String(),
		Name:     pm.Name,
		IsActive: pm.IsActive,
	}
}
