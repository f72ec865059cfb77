package repository

import (
	"context"
	"time"

	"financehub/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "user_id", "kind", "date", "amount", "category_id", "payment_method_id",
	"description", "notes", "source", "is_paid", "due_day", "expense_type",
	"saving_type", "goal_id", "goal_name", "goal_amount", "created_at", "updated_at",
}

// CategorySum is one slice of a category breakdown.
type CategorySum struct {
	Category string
	Total    decimal.Decimal
}

// DaySum is the summed amount of one day of a month.
type DaySum struct {
	Day   int
	Total decimal.Decimal
}

// MonthSum is the summed amount of one calendar month, keyed by the month's
// first day.
type MonthSum struct {
	Month time.Time
	Total decimal.Decimal
}

// TypeSum is the summed amount per saving type.
type TypeSum struct {
	Type  string
	Total decimal.Decimal
}

// TopExpenseRow is one entry of the top-N expense ranking. Category is empty
// for uncategorized rows.
type TopExpenseRow struct {
	Description string
	Category    string
	Kind        models.TransactionKind
	Date        time.Time
	Amount      decimal.Decimal
}

// ListFilter narrows a transaction listing. Zero values mean "no filter";
// Year restricts to one calendar year, Year+Month to one month, and Query
// does a substring search over description, source and goal name.
type ListFilter struct {
	Kind   models.TransactionKind
	Year   int
	Month  int
	Query  string
	Limit  int
	Offset int
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(txValues(tx)...).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translateErr(err)
}

func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	builder := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(txValues(tx)...)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return translateErr(err)
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateErr(err)
	}

	return tx, nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update("transactions").
		Set("date", tx.Date).
		Set("amount", tx.Amount).
		Set("category_id", tx.CategoryID).
		Set("payment_method_id", tx.PaymentMethodID).
		Set("description", tx.Description).
		Set("notes", tx.Notes).
		Set("source", tx.Source).
		Set("is_paid", tx.IsPaid).
		Set("due_day", tx.DueDay).
		Set("expense_type", tx.ExpenseType).
		Set("saving_type", tx.SavingType).
		Set("goal_id", tx.GoalID).
		Set("goal_name", tx.GoalName).
		Set("goal_amount", tx.GoalAmount).
		Set("updated_at", tx.UpdatedAt).
		Where(squirrel.Eq{"id": tx.ID, "user_id": tx.UserID}).
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

func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("transactions").
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

// List returns a page of the user's transactions, newest date first with
// most recently created rows breaking ties, plus the unpaged row count.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*models.Transaction, int, error) {
	base := squirrel.Select().
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	if filter.Kind != "" {
		base = base.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.Year != 0 {
		start := time.Date(filter.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(filter.Year, 12, 31, 0, 0, 0, 0, time.UTC)
		if filter.Month != 0 {
			start, end = monthBounds(filter.Year, filter.Month)
		}
		base = base.Where(squirrel.GtOrEq{"date": start}).Where(squirrel.LtOrEq{"date": end})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"source": pattern},
			squirrel.ILike{"goal_name": pattern},
		})
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := base.Columns(transactionColumns...).
		OrderBy("date DESC", "created_at DESC")
	if filter.Limit > 0 {
		listQuery = listQuery.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sql, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, total, rows.Err()
}

// SumAmount sums the amounts of the given kinds over [start, end]. An empty
// result set sums to zero, never null.
func (r *TransactionRepository) SumAmount(ctx context.Context, userID uuid.UUID, kinds []models.TransactionKind, start, end time.Time) (decimal.Decimal, error) {
	query := squirrel.Select("COALESCE(SUM(amount), 0)").
		From("transactions").
		Where(squirrel.Eq{"user_id": userID, "kind": kinds}).
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.LtOrEq{"date": end}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

// SumByCategory groups one kind's amounts by category name over [start, end],
// largest first. Uncategorized rows are excluded.
func (r *TransactionRepository) SumByCategory(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, start, end time.Time) ([]CategorySum, error) {
	query := squirrel.Select("c.name", "SUM(t.amount) AS total").
		From("transactions t").
		Join("categories c ON c.id = t.category_id").
		Where(squirrel.Eq{"t.user_id": userID, "t.kind": kind}).
		Where(squirrel.GtOrEq{"t.date": start}).
		Where(squirrel.LtOrEq{"t.date": end}).
		GroupBy("c.name").
		OrderBy("total DESC").
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

	var sums []CategorySum
	for rows.Next() {
		var s CategorySum
		if err := rows.Scan(&s.Category, &s.Total); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}

	return sums, rows.Err()
}

// SumByDay groups one kind's amounts by day of month over [start, end].
func (r *TransactionRepository) SumByDay(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, start, end time.Time) ([]DaySum, error) {
	query := squirrel.Select("EXTRACT(DAY FROM date)::int AS day", "SUM(amount) AS total").
		From("transactions").
		Where(squirrel.Eq{"user_id": userID, "kind": kind}).
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.LtOrEq{"date": end}).
		GroupBy("day").
		OrderBy("day ASC").
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

	var sums []DaySum
	for rows.Next() {
		var s DaySum
		if err := rows.Scan(&s.Day, &s.Total); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}

	return sums, rows.Err()
}

// SumByMonth groups one kind's amounts by truncated month over [start, end].
func (r *TransactionRepository) SumByMonth(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, start, end time.Time) ([]MonthSum, error) {
	query := squirrel.Select("date_trunc('month', date)::date AS month", "SUM(amount) AS total").
		From("transactions").
		Where(squirrel.Eq{"user_id": userID, "kind": kind}).
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.LtOrEq{"date": end}).
		GroupBy("month").
		OrderBy("month ASC").
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

	var sums []MonthSum
	for rows.Next() {
		var s MonthSum
		if err := rows.Scan(&s.Month, &s.Total); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}

	return sums, rows.Err()
}

// SumBySavingType groups saving amounts by saving type over [start, end].
func (r *TransactionRepository) SumBySavingType(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]TypeSum, error) {
	query := squirrel.Select("saving_type", "SUM(amount) AS total").
		From("transactions").
		Where(squirrel.Eq{"user_id": userID, "kind": models.KindSaving}).
		Where(squirrel.NotEq{"saving_type": nil}).
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.LtOrEq{"date": end}).
		GroupBy("saving_type").
		OrderBy("total DESC").
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

	var sums []TypeSum
	for rows.Next() {
		var s TypeSum
		if err := rows.Scan(&s.Type, &s.Total); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}

	return sums, rows.Err()
}

// TopByAmount returns the largest individual transactions of the given
// kinds over [start, end]. Equal amounts keep their insertion order.
func (r *TransactionRepository) TopByAmount(ctx context.Context, userID uuid.UUID, kinds []models.TransactionKind, start, end time.Time, limit int) ([]TopExpenseRow, error) {
	query := squirrel.Select("t.description", "COALESCE(c.name, '')", "t.kind", "t.date", "t.amount").
		From("transactions t").
		LeftJoin("categories c ON c.id = t.category_id").
		Where(squirrel.Eq{"t.user_id": userID, "t.kind": kinds}).
		Where(squirrel.GtOrEq{"t.date": start}).
		Where(squirrel.LtOrEq{"t.date": end}).
		OrderBy("t.amount DESC", "t.created_at ASC").
		Limit(uint64(limit)).
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

	var result []TopExpenseRow
	for rows.Next() {
		var row TopExpenseRow
		if err := rows.Scan(&row.Description, &row.Category, &row.Kind, &row.Date, &row.Amount); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// ListFixedInRange returns every user's fixed expenses dated within
// [start, end]. Used by the due-reset worker to carry fixed expenses into a
// new month.
func (r *TransactionRepository) ListFixedInRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"kind": models.KindFixed}).
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.LtOrEq{"date": end}).
		OrderBy("user_id", "date ASC").
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

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func txValues(tx *models.Transaction) []interface{} {
	return []interface{}{
		tx.ID, tx.UserID, tx.Kind, tx.Date, tx.Amount, tx.CategoryID, tx.PaymentMethodID,
		tx.Description, tx.Notes, tx.Source, tx.IsPaid, tx.DueDay, tx.ExpenseType,
		tx.SavingType, tx.GoalID, tx.GoalName, tx.GoalAmount, tx.CreatedAt, tx.UpdatedAt,
	}
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var tx models.Transaction
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Kind, &tx.Date, &tx.Amount, &tx.CategoryID, &tx.PaymentMethodID,
		&tx.Description, &tx.Notes, &tx.Source, &tx.IsPaid, &tx.DueDay, &tx.ExpenseType,
		&tx.SavingType, &tx.GoalID, &tx.GoalName, &tx.GoalAmount, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}
