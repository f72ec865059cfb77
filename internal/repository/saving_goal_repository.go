package repository

import (
	"context"

	"financehub/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GoalSavedRow is a saving goal together with the summed amount of the
// saving transactions linked to it; Saved is zero for untouched goals.
type GoalSavedRow struct {
	ID     uuid.UUID
	Name   string
	Target decimal.Decimal
	Saved  decimal.Decimal
}

type SavingGoalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSavingGoalRepository(db *pgxpool.Pool, logger *zap.Logger) *SavingGoalRepository {
	return &SavingGoalRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SavingGoalRepository) Create(ctx context.Context, g *models.SavingGoal) error {
	query := squirrel.Insert("saving_goals").
		Columns("id", "user_id", "name", "target_amount", "is_active", "created_at", "updated_at").
		Values(g.ID, g.UserID, g.Name, g.TargetAmount, g.IsActive, g.CreatedAt, g.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translateErr(err)
}

func (r *SavingGoalRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.SavingGoal, error) {
	query := squirrel.Select("id", "user_id", "name", "target_amount", "is_active", "created_at", "updated_at").
		From("saving_goals").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var g models.SavingGoal
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.IsActive, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}

	return &g, nil
}

func (r *SavingGoalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SavingGoal, error) {
	query := squirrel.Select("id", "user_id", "name", "target_amount", "is_active", "created_at", "updated_at").
		From("saving_goals").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
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

	var goals []*models.SavingGoal
	for rows.Next() {
		var g models.SavingGoal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, &g)
	}

	return goals, rows.Err()
}

// ListWithSaved returns the user's active goals with the total amount saved
// toward each one.
func (r *SavingGoalRepository) ListWithSaved(ctx context.Context, userID uuid.UUID) ([]GoalSavedRow, error) {
	query := squirrel.Select(
		"g.id", "g.name", "g.target_amount",
		"COALESCE(SUM(t.amount), 0) AS saved",
	).
		From("saving_goals g").
		LeftJoin("transactions t ON t.goal_id = g.id AND t.kind = ?", models.KindSaving).
		Where(squirrel.Eq{"g.user_id": userID, "g.is_active": true}).
		GroupBy("g.id", "g.name", "g.target_amount", "g.created_at").
		OrderBy("g.created_at DESC").
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

	var result []GoalSavedRow
	for rows.Next() {
		var row GoalSavedRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Target, &row.Saved); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

func (r *SavingGoalRepository) Update(ctx context.Context, g *models.SavingGoal) error {
	query := squirrel.Update("saving_goals").
		Set("name", g.Name).
		Set("target_amount", g.TargetAmount).
		Set("is_active", g.IsActive).
		Set("updated_at", g.UpdatedAt).
		Where(squirrel.Eq{"id": g.ID, "user_id": g.UserID}).
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

func (r *SavingGoalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("saving_goals").
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
