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

var ErrDuplicateName = errors.New("name already in use")

type CategoryService struct {
	repo   *repository.CategoryRepository
	logger *zap.Logger
}

func NewCategoryService(repo *repository.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		logger: logger,
	}
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	kind := models.TransactionKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrValidation, req.Kind)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	now := time.Now()
	category := &models.Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      sanitizeUTF8(req.Name),
		Kind:      kind,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	return categoryResponse(category), nil
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID, kind string) ([]dto.CategoryResponse, error) {
	if kind != "" && !models.TransactionKind(kind).Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrValidation, kind)
	}

	categories, err := s.repo.ListByUser(ctx, userID, models.TransactionKind(kind))
	if err != nil {
		return nil, err
	}

	result := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, *categoryResponse(category))
	}
	return result, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		category.Name = sanitizeUTF8(req.Name)
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return categoryResponse(category), nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func categoryResponse(c *models.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		Kind:     string(c.Kind),
		IsActive: c.IsActive,
	}
}
