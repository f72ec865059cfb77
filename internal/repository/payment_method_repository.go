package repository

import (
	"context"

	"financehub/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PaymentMethodRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPaymentMethodRepository(db *pgxpool.Pool, logger *zap.Logger) *PaymentMethodRepository {
	return &PaymentMethodRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PaymentMethodRepository) Create(ctx context.Context, pm *models.PaymentMethod) error {
	query := squirrel.Insert("payment_methods").
		Columns("id", "user_id", "name", "is_active", "created_at", "updated_at").
		Values(pm.ID, pm.UserID, pm.Name, pm.IsActive, pm.CreatedAt, pm.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translateErr(err)
}

func (r *PaymentMethodRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.PaymentMethod, error) {
	query := squirrel.Select("id", "user_id", "name", "is_active", "created_at", "updated_at").
		From("payment_methods").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var pm models.PaymentMethod
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&pm.ID, &pm.UserID, &pm.Name, &pm.IsActive, &pm.CreatedAt, &pm.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &pm, nil
}

func (r *PaymentMethodRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.PaymentMethod, error) {
	query := squirrel.Select("id", "user_id", "name", "is_active", "created_at", "updated_at").
		From("payment_methods").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []*models.PaymentMethod
	for rows.Next() {
		var pm models.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.UserID, &pm.Name, &pm.IsActive, &pm.CreatedAt, &pm.UpdatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, &pm)
	}

	return methods, rows.Err()
}

func (r *PaymentMethodRepository) Update(ctx context.Context, pm *models.PaymentMethod) error {
	query := squirrel.Update("payment_methods").
		Set("name", pm.Name).
		Set("is_active", pm.IsActive).
		Set("updated_at", pm.UpdatedAt).
		Where(squirrel.Eq{"id": pm.ID, "user_id": pm.UserID}).
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

func (r *PaymentMethodRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("payment_methods").
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
