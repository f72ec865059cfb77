package repository

import (
	"context"

	"financehub/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	query := squirrel.Insert("categories").
		Columns("id", "user_id", "name", "kind", "is_active", "created_at", "updated_at").
		Values(c.ID, c.UserID, c.Name, c.Kind, c.IsActive, c.CreatedAt, c.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translateErr(err)
}

func (r *CategoryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	query := squirrel.Select("id", "user_id", "name", "kind", "is_active", "created_at", "updated_at").
		From("categories").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var c models.Category
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Kind, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &c, nil
}

// ListByUser returns the user's categories, optionally restricted to one
// kind, ordered by name.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, kind models.TransactionKind) ([]*models.Category, error) {
	query := squirrel.Select("id", "user_id", "name", "kind", "is_active", "created_at", "updated_at").
		From("categories").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if kind != "" {
		query = query.Where(squirrel.Eq{"kind": kind})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	query := squirrel.Update("categories").
		Set("name", c.Name).
		Set("is_active", c.IsActive).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID, "user_id": c.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("categories").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
