package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"financehub/internal/models"
	"financehub/internal/repository"
	"financehub/pkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRow is one stored transaction the fake store aggregates over.
type fakeRow struct {
	kind        models.TransactionKind
	date        time.Time
	amount      decimal.Decimal
	category    string
	savingType  string
	description string
}

// fakeStore aggregates rows in memory the same way the SQL layer does:
// inclusive date ranges, zero for empty sums, uncategorized rows excluded
// from category grouping.
type fakeStore struct {
	rows []fakeRow
	err  error
}

func (f *fakeStore) inRange(row fakeRow, start, end time.Time) bool {
	return !row.date.Before(start) && !row.date.After(end)
}

func (f *fakeStore) SumAmount(_ context.Context, _ uuid.UUID, kinds []models.TransactionKind, start, end time.Time) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	total := decimal.Zero
	for _, row := range f.rows {
		for _, kind := range kinds {
			if row.kind == kind && f.inRange(row, start, end) {
				total = total.Add(row.amount)
			}
		}
	}
	return total, nil
}

func (f *fakeStore) SumByCategory(_ context.Context, _ uuid.UUID, kind models.TransactionKind, start, end time.Time) ([]repository.CategorySum, error) {
	if f.err != nil {
		return nil, f.err
	}
	totals := make(map[string]decimal.Decimal)
	for _, row := range f.rows {
		if row.kind == kind && row.category != "" && f.inRange(row, start, end) {
			totals[row.category] = totals[row.category].Add(row.amount)
		}
	}
	out := make([]repository.CategorySum, 0, len(totals))
	for category, total := range totals {
		out = append(out, repository.CategorySum{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out, nil
}

func (f *fakeStore) SumByDay(_ context.Context, _ uuid.UUID, kind models.TransactionKind, start, end time.Time) ([]repository.DaySum, error) {
	if f.err != nil {
		return nil, f.err
	}
	totals := make(map[int]decimal.Decimal)
	for _, row := range f.rows {
		if row.kind == kind && f.inRange(row, start, end) {
			totals[row.date.Day()] = totals[row.date.Day()].Add(row.amount)
		}
	}
	out := make([]repository.DaySum, 0, len(totals))
	for day, total := range totals {
		out = append(out, repository.DaySum{Day: day, Total: total})
	}
	return out, nil
}

func (f *fakeStore) SumByMonth(_ context.Context, _ uuid.UUID, kind models.TransactionKind, start, end time.Time) ([]repository.MonthSum, error) {
	if f.err != nil {
		return nil, f.err
	}
	totals := make(map[time.Time]decimal.Decimal)
	for _, row := range f.rows {
		if row.kind == kind && f.inRange(row, start, end) {
			month := time.Date(row.date.Year(), row.date.Month(), 1, 0, 0, 0, 0, time.UTC)
			totals[month] = totals[month].Add(row.amount)
		}
	}
	out := make([]repository.MonthSum, 0, len(totals))
	for month, total := range totals {
		out = append(out, repository.MonthSum{Month: month, Total: total})
	}
	return out, nil
}

func (f *fakeStore) SumBySavingType(_ context.Context, _ uuid.UUID, start, end time.Time) ([]repository.TypeSum, error) {
	if f.err != nil {
		return nil, f.err
	}
	totals := make(map[string]decimal.Decimal)
	for _, row := range f.rows {
		if row.kind == models.KindSaving && row.savingType != "" && f.inRange(row, start, end) {
			totals[row.savingType] = totals[row.savingType].Add(row.amount)
		}
	}
	out := make([]repository.TypeSum, 0, len(totals))
	for savingType, total := range totals {
		out = append(out, repository.TypeSum{Type: savingType, Total: total})
	}
	return out, nil
}

func (f *fakeStore) TopByAmount(_ context.Context, _ uuid.UUID, kinds []models.TransactionKind, start, end time.Time, limit int) ([]repository.TopExpenseRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matched []fakeRow
	for _, row := range f.rows {
		for _, kind := range kinds {
			if row.kind == kind && f.inRange(row, start, end) {
				matched = append(matched, row)
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].amount.GreaterThan(matched[j].amount)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]repository.TopExpenseRow, 0, len(matched))
	for _, row := range matched {
		out = append(out, repository.TopExpenseRow{
			Description: row.description,
			Category:    row.category,
			Kind:        row.kind,
			Date:        row.date,
			Amount:      row.amount,
		})
	}
	return out, nil
}

type fakeGoals struct {
	rows []repository.GoalSavedRow
	err  error
}

func (f *fakeGoals) ListWithSaved(_ context.Context, _ uuid.UUID) ([]repository.GoalSavedRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func newTestReportService(store ReportStore, goals GoalStore, now time.Time) *ReportService {
	svc := NewReportService(store, goals, &config.ReportConfig{Locale: "es", TopExpenseLimit: 10}, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year, month, d int) time.Time {
	return time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

func TestMonthKPIs_EmptyMonth(t *testing.T) {
	svc := newTestReportService(&fakeStore{}, &fakeGoals{}, day(2025, 6, 15))

	kpis, err := svc.MonthKPIs(context.Background(), uuid.New(), 2025, 6)
	require.NoError(t, err)

	assert.True(t, kpis.Income.IsZero())
	assert.True(t, kpis.Fixed.IsZero())
	assert.True(t, kpis.Variable.IsZero())
	assert.True(t, kpis.Saving.IsZero())
	assert.True(t, kpis.Expenses.IsZero())
	assert.True(t, kpis.Balance.IsZero())
	assert.Nil(t, kpis.ExpensePct)
	assert.Nil(t, kpis.SavingPct)
}

func TestMonthKPIs(t *testing.T) {
	store := &fakeStore{rows: []fakeRow{
		{kind: models.KindIncome, date: day(2025, 6, 1), amount: money("1000")},
		{kind: models.KindFixed, date: day(2025, 6, 5), amount: money("300")},
		{kind: models.KindVariable, date: day(2025, 6, 10), amount: money("200")},
		{kind: models.KindSaving, date: day(2025, 6, 12), amount: money("100")},
		// Outside the month, must not count.
		{kind: models.KindIncome, date: day(2025, 5, 31), amount: money("999")},
		{kind: models.KindIncome, date: day(2025, 7, 1), amount: money("999")},
	}}
	svc := newTestReportService(store, &fakeGoals{}, day(2025, 6, 15))

	kpis, err := svc.MonthKPIs(context.Background(), uuid.New(), 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, "1000", kpis.Income.String())
	assert.Equal(t, "500", kpis.Expenses.String())
	assert.Equal(t, "400", kpis.Balance.String())
	require.NotNil(t, kpis.ExpensePct)
	require.NotNil(t, kpis.SavingPct)
	assert.InDelta(t, 50.0, *kpis.ExpensePct, 0.001)
	assert.InDelta(t, 10.0, *kpis.SavingPct, 0.001)
}

func TestMonthKPIs_InvalidPeriod(t *testing.T) {
	svc := newTestReportService(&fakeStore{}, &fakeGoals{}, day(2025, 6, 15))

	_, err := svc.MonthKPIs(context.Background(), uuid.New(), 2025, 13)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestDelta(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		previous      string
		wantValue     *float64
		wantDirection string
	}{
		{name: "no baseline", current: "500", previous: "0", wantValue: nil, wantDirection: DirectionNeutral},
		{name: "doubled", current: "1000", previous: "500", wantValue: ptrFloat(100), wantDirection: DirectionUp},
		{name: "unchanged counts as up", current: "500", previous: "500", wantValue: ptrFloat(0), wantDirection: DirectionUp},
		{name: "dropped", current: "400", previous: "500", wantValue: ptrFloat(-20), wantDirection: DirectionDown},
		{name: "to zero", current: "0", previous: "500", wantValue: ptrFloat(-100), wantDirection: DirectionDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := Delta(money(tt.current), money(tt.previous))
			assert.Equal(t, tt.wantDirection, delta.Direction)
			if tt.wantValue == nil {
				assert.Nil(t, delta.Value)
			} else {
				require.NotNil(t, delta.Value)
				assert.InDelta(t, *tt.wantValue, *delta.Value, 0.001)
			}
		})
	}
}

func TestTrailingMonthlySeries(t *testing.T) {
	store := &fakeStore{rows: []fakeRow{
		{kind: models.KindIncome, date: day(2025, 6, 10), amount: money("100")},
		{kind: models.KindIncome, date: day(2025, 4, 2), amount: money("40")},
		{kind: models.KindIncome, date: day(2024, 7, 20), amount: money("7")},
		// Older than the window, must not appear.
		{kind: models.KindIncome, date: day(2024, 6, 30), amount: money("999")},
	}}
	svc := newTestReportService(store, &fakeGoals{}, day(2025, 6, 15))

	series, err := svc.TrailingMonthlySeries(context.Background(), uuid.New(), models.KindIncome)
	require.NoError(t, err)
	require.Len(t, series, 12)

	assert.Equal(t, "Jul 2024", series[0].Label)
	assert.Equal(t, "Jun 2025", series[11].Label)
	assert.Equal(t, "7", series[0].Total.String())
	assert.Equal(t, "40", series[9].Total.String())
	assert.Equal(t, "100", series[11].Total.String())

	// Every other month is zero-filled.
	for i, point := range series {
		if i == 0 || i == 9 || i == 11 {
			continue
		}
		assert.True(t, point.Total.IsZero(), "month %s should be zero", point.Label)
	}
}

func TestYearlyMonthlySeries(t *testing.T) {
	store := &fakeStore{rows: []fakeRow{
		{kind: models.KindSaving, date: day(2025, 1, 5), amount: money("50")},
		{kind: models.KindSaving, date: day(2025, 12, 31), amount: money("75")},
		{kind: models.KindSaving, date: day(2024, 12, 31), amount: money("999")},
	}}
	svc := newTestReportService(store, &fakeGoals{}, day(2025, 6, 15))

	series, err := svc.YearlyMonthlySeries(context.Background(), uuid.New(), models.KindSaving, 2025)
	require.NoError(t, err)
	require.Len(t, series, 12)

	assert.Equal(t, "Ene 2025", series[0].Label)
	assert.Equal(t, "Dic 2025", series[11].Label)
	assert.Equal(t, "50", series[0].Total.String())
	assert.Equal(t, "75", series[11].Total.String())
}

func TestCategoryBreakdown(t *testing.T) {
	store := &fakeStore{rows: []fakeRow{
		{kind: models.KindVariable, date: day(2025, 6, 1), amount: money("120"), category: "Supermercado"},
		{kind: models.KindVariable, date: day(2025, 6, 3), amount: money("80"), category: "Supermercado"},
		{kind: models.KindVariable, date: day(2025, 6, 5), amount: money("60"), category: "Transporte"},
		{kind: models.KindVariable, date: day(2025, 6, 7), amount: money("90"), category: "Ocio"},
		// Uncategorized rows are excluded from the breakdown.
		{kind: models.KindVariable, date: day(2025, 6, 9), amount: money("30")},
	}}
	svc := newTestReportService(store, &fakeGoals{}, day(2025, 6, 15))

	breakdown, err := svc.CategoryBreakdown(context.Background(), uuid.New(), models.KindVariable, 2025, 6)
	require.NoError(t, err)
	require.Len(t, breakdown, 3)

	// Sorted by total descending.
	assert.Equal(t, "Supermercado", breakdown[0].Category)
	assert.Equal(t, "200", breakdown[0].Total.String())
	assert.Equal(t, "Ocio", breakdown[1].Category)
	assert.Equal(t, "Transporte", breakdown[2].Category)

	// Categorized entries sum to the categorized portion of the month.
	sum := decimal.Zero
	for _, entry := range breakdown {
		sum = sum.Add(entry.Total)
	}
	assert.Equal(t, "350", sum.String())
}

func TestDailySeries(t *testing.T) {
	store := &fakeStore{rows: []fakeRow{
		{kind: models.KindVariable, date: day(2024, 2, 1), amount: money("10")},
		{kind: models.KindVariable, date: day(2024, 2, 1), amount: money("5")},
		{kind: models.KindVariable, date: day(2024, 2, 29), amount: money("20")},
	}}
	svc := newTestReportService(store, &fakeGoals{}, day(2024, 2, 15))

	series, err := svc.DailySeries(context.Background(), uuid.New(), models.KindVariable, 2024, 2)
	require.NoError(t, err)
	require.Len(t, series, 29) // leap February

	assert.Equal(t, 1, series[0].Day)
	assert.Equal(t, "15", series[0].Total.String())
	assert.Equal(t, 29, series[28].Day)
	assert.Equal(t, "20", series[28].Total.String())

	sum := decimal.Zero
	for _, point := range series {
		sum = sum.Add(point.Total)
	}
	assert.Equal(t, "35", sum.String())
}

func TestExpenseBreakdown_MergesSharedLabels(t *testing.T) {
	store := &fakeStore{rows: []fakeRow{
		{kind: models.KindFixed, date: day(2025, 6, 1), amount: money("300"), category: "Renta"},
		{kind: models.KindFixed, date: day(2025, 6, 5), amount: money("45"), category: "Internet"},
		{kind: models.KindVariable, date: day(2025, 6, 10), amount: money("50"), category: "Renta"},
		{kind: models.KindVariable, date: day(2025, 6, 12), amount: money("80"), category: "Supermercado"},
	}}
	svc := newTestReportService(store, &fakeGoals{}, day(2025, 6, 15))

	merged, err := svc.ExpenseBreakdown(context.Background(), uuid.New(), 2025, 6)
	require.NoError(t, err)
	require.Len(t, merged, 3)

	// Fixed entries first in their own order, then unseen variable labels.
	assert.Equal(t, "Renta", merged[0].Category)
	assert.Equal(t, "350", merged[0].Total.String())
	assert.Equal(t, "Internet", merged[1].Category)
	assert.Equal(t, "Supermercado", merged[2].Category)
}

func TestTopExpenses(t *testing.T) {
	t.Run("empty month", func(t *testing.T) {
		svc := newTestReportService(&fakeStore{}, &fakeGoals{}, day(2025, 6, 15))

		top, err := svc.TopExpenses(context.Background(), uuid.New(), 2025, 6)
		require.NoError(t, err)
		assert.Empty(t, top)
	})

	t.Run("ranked and limited", func(t *testing.T) {
		var rows []fakeRow
		for i := 1; i <= 12; i++ {
			rows = append(rows, fakeRow{
				kind:        models.KindVariable,
				date:        day(2025, 6, i),
				amount:      decimal.NewFromInt(int64(i * 10)),
				description: "compra",
			})
		}
		rows = append(rows, fakeRow{kind: models.KindFixed, date: day(2025, 6, 1), amount: money("500"), description: "Renta", category: "Renta"})
		// Income never appears in the expense ranking.
		rows = append(rows, fakeRow{kind: models.KindIncome, date: day(2025, 6, 1), amount: money("9999"), description: "Salario"})

		svc := newTestReportService(&fakeStore{rows: rows}, &fakeGoals{}, day(2025, 6, 15))

		top, err := svc.TopExpenses(context.Background(), uuid.New(), 2025, 6)
		require.NoError(t, err)
		require.Len(t, top, 10)

		assert.Equal(t, "Renta", top[0].Description)
		assert.Equal(t, "500", top[0].Amount.String())
		assert.Equal(t, string(models.KindFixed), top[0].Kind)
		assert.Equal(t, "120", top[1].Amount.String())
		for i := 1; i < len(top); i++ {
			assert.True(t, top[i-1].Amount.GreaterThanOrEqual(top[i].Amount))
		}
	})
}

func TestSavingOverview(t *testing.T) {
	goalID := uuid.New()
	store := &fakeStore{rows: []fakeRow{
		{kind: models.KindIncome, date: day(2025, 6, 1), amount: money("1000")},
		{kind: models.KindSaving, date: day(2025, 6, 5), amount: money("200"), savingType: "SAVINGS"},
		{kind: models.KindSaving, date: day(2025, 3, 5), amount: money("300"), savingType: "INVESTMENT"},
	}}
	goals := &fakeGoals{rows: []repository.GoalSavedRow{
		{ID: goalID, Name: "Fondo de emergencia", Target: money("1000"), Saved: money("400")},
	}}
	svc := newTestReportService(store, goals, day(2025, 6, 15))

	overview, err := svc.SavingOverview(context.Background(), uuid.New(), 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, "200", overview.MonthTotal.String())
	assert.Equal(t, "500", overview.YearTotal.String())
	assert.InDelta(t, 20.0, overview.SavingPct, 0.001)

	require.Len(t, overview.Goals, 1)
	assert.Equal(t, goalID.String(), overview.Goals[0].GoalID)
	assert.InDelta(t, 40.0, overview.Goals[0].Percent, 0.001)

	require.Len(t, overview.Distribution, 2)
	require.Len(t, overview.Monthly, 12)
	assert.Equal(t, "300", overview.Monthly[2].Total.String())
	assert.Equal(t, "200", overview.Monthly[5].Total.String())
}

// typeSumFailStore fails only the saving-type aggregate so tests can check
// that one broken widget does not take the rest of the overview down.
type typeSumFailStore struct {
	*fakeStore
	typeErr error
}

func (f *typeSumFailStore) SumBySavingType(context.Context, uuid.UUID, time.Time, time.Time) ([]repository.TypeSum, error) {
	return nil, f.typeErr
}

func TestSavingOverview_WidgetIsolation(t *testing.T) {
	t.Run("all aggregates failing", func(t *testing.T) {
		store := &fakeStore{err: errors.New("connection refused")}
		svc := newTestReportService(store, &fakeGoals{err: errors.New("connection refused")}, day(2025, 6, 15))

		overview, err := svc.SavingOverview(context.Background(), uuid.New(), 2025, 6)
		require.NoError(t, err)

		assert.True(t, overview.MonthTotal.IsZero())
		assert.True(t, overview.YearTotal.IsZero())
		assert.Zero(t, overview.SavingPct)
		assert.Empty(t, overview.Goals)
		assert.Empty(t, overview.Distribution)
		assert.Empty(t, overview.Monthly)
	})

	t.Run("only distribution failing", func(t *testing.T) {
		inner := &fakeStore{rows: []fakeRow{
			{kind: models.KindIncome, date: day(2025, 6, 1), amount: money("1000")},
			{kind: models.KindSaving, date: day(2025, 6, 5), amount: money("200"), savingType: "SAVINGS"},
		}}
		store := &typeSumFailStore{fakeStore: inner, typeErr: errors.New("connection refused")}
		goals := &fakeGoals{rows: []repository.GoalSavedRow{
			{ID: uuid.New(), Name: "Fondo de emergencia", Target: money("1000"), Saved: money("400")},
		}}
		svc := newTestReportService(store, goals, day(2025, 6, 15))

		overview, err := svc.SavingOverview(context.Background(), uuid.New(), 2025, 6)
		require.NoError(t, err)

		// The broken widget renders empty, the rest of the overview survives.
		assert.Empty(t, overview.Distribution)
		assert.Equal(t, "200", overview.MonthTotal.String())
		assert.InDelta(t, 20.0, overview.SavingPct, 0.001)
		require.Len(t, overview.Goals, 1)
		require.Len(t, overview.Monthly, 12)
	})
}

func TestGeneralDashboard(t *testing.T) {
	store := &fakeStore{rows: []fakeRow{
		{kind: models.KindIncome, date: day(2025, 6, 1), amount: money("1000")},
		{kind: models.KindIncome, date: day(2025, 5, 1), amount: money("500")},
		{kind: models.KindFixed, date: day(2025, 6, 1), amount: money("300"), category: "Renta", description: "Renta"},
	}}
	svc := newTestReportService(store, &fakeGoals{}, day(2025, 6, 15))

	dashboard, err := svc.GeneralDashboard(context.Background(), uuid.New(), 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, "1000", dashboard.KPIs.Income.String())
	assert.Equal(t, "700", dashboard.KPIs.Balance.String())

	// Previous month balance was 500, current is 700: +40% up.
	require.NotNil(t, dashboard.BalanceDelta.Value)
	assert.InDelta(t, 40.0, *dashboard.BalanceDelta.Value, 0.001)
	assert.Equal(t, DirectionUp, dashboard.BalanceDelta.Direction)

	assert.Len(t, dashboard.IncomeSeries, 12)
	assert.Len(t, dashboard.FixedSeries, 12)
	assert.Len(t, dashboard.VariableSeries, 12)
	assert.Len(t, dashboard.SavingSeries, 12)
	require.Len(t, dashboard.ExpenseBreakdown, 1)
	require.Len(t, dashboard.TopExpenses, 1)
}

func TestGeneralDashboard_WidgetIsolation(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := newTestReportService(store, &fakeGoals{}, day(2025, 6, 15))

	dashboard, err := svc.GeneralDashboard(context.Background(), uuid.New(), 2025, 6)
	require.NoError(t, err)

	// Every widget renders as its zero value instead of failing the page.
	assert.True(t, dashboard.KPIs.Income.IsZero())
	assert.Equal(t, DirectionNeutral, dashboard.BalanceDelta.Direction)
	assert.Nil(t, dashboard.BalanceDelta.Value)
	assert.Empty(t, dashboard.IncomeSeries)
	assert.Empty(t, dashboard.ExpenseBreakdown)
	assert.Empty(t, dashboard.TopExpenses)
}

func TestModuleDashboard(t *testing.T) {
	store := &fakeStore{rows: []fakeRow{
		{kind: models.KindIncome, date: day(2025, 6, 1), amount: money("1000"), category: "Salario"},
		{kind: models.KindIncome, date: day(2025, 5, 1), amount: money("500"), category: "Salario"},
	}}
	svc := newTestReportService(store, &fakeGoals{}, day(2025, 6, 15))

	dashboard, err := svc.ModuleDashboard(context.Background(), uuid.New(), models.KindIncome, 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, string(models.KindIncome), dashboard.Kind)
	assert.Equal(t, "1000", dashboard.MonthTotal.String())
	require.NotNil(t, dashboard.MonthDelta.Value)
	assert.InDelta(t, 100.0, *dashboard.MonthDelta.Value, 0.001)
	assert.Equal(t, DirectionUp, dashboard.MonthDelta.Direction)
	assert.Len(t, dashboard.Trailing, 12)
	require.Len(t, dashboard.Breakdown, 1)
	assert.Len(t, dashboard.Daily, 30)
}

func ptrFloat(f float64) *float64 {
	return &f
}
