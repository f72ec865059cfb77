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

type SavingGoalService struct {
	repo   *repository.SavingGoalRepository
	logger *zap.Logger
}

func NewSavingGoalService(repo *repository.SavingGoalRepository, logger *zap.Logger) *SavingGoalService {
	return &SavingGoalService{
		repo:   repo,
		logger: logger,
	}
}

func (s *SavingGoalService) Create(ctx context.Context, userID uuid.UUID, req *dto.SavingGoalRequest) (*dto.SavingGoalResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.TargetAmount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: target_amount must be positive", ErrValidation)
	}

	now := time.Now()
	goal := &models.SavingGoal{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         sanitizeUTF8(req.Name),
		TargetAmount: req.TargetAmount,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsActive != nil {
		goal.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	return savingGoalResponse(goal), nil
}

func (s *SavingGoalService) List(ctx context.Context, userID uuid.UUID) ([]dto.SavingGoalResponse, error) {
	goals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.SavingGoalResponse, 0, len(goals))
	for _, goal := range goals {
		result = append(result, *savingGoalResponse(goal))
	}
	return result, nil
}

func (s *SavingGoalService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.SavingGoalRequest) (*dto.SavingGoalResponse, error) {
	goal, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		goal.Name = sanitizeUTF8(req.Name)
	}
	if !req.TargetAmount.IsZero() {
		if req.TargetAmount.Sign() < 0 {
			return nil, fmt.Errorf("%w: target_amount must be positive", ErrValidation)
		}
		goal.TargetAmount = req.TargetAmount
	}
	if req.IsActive != nil {
		goal.IsActive = *req.IsActive
	}
	goal.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return savingGoalResponse(goal), nil
}

func (s *SavingGoalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func savingGoalResponse(g *models.SavingGoal) *dto.SavingGoalResponse {
	return &dto.SavingGoalResponse{
		ID:           g.ID.String(),
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		IsActive:     g.IsActive,
	}
}
