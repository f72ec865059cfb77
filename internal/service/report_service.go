package service

import (
	"context"
	"time"

	"financehub/internal/dto"
	"financehub/internal/models"
	"financehub/internal/repository"
	"financehub/pkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DirectionUp      = "up"
	DirectionDown    = "down"
	DirectionNeutral = "neutral"
)

// ReportStore is the aggregate-query capability the engine needs from the
// transaction store: filtered range sums and grouped sums. Every method
// treats an empty result as zero rows, never as an error.
type ReportStore interface {
	SumAmount(ctx context.Context, userID uuid.UUID, kinds []models.TransactionKind, start, end time.Time) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, start, end time.Time) ([]repository.CategorySum, error)
	SumByDay(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, start, end time.Time) ([]repository.DaySum, error)
	SumByMonth(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, start, end time.Time) ([]repository.MonthSum, error)
	SumBySavingType(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]repository.TypeSum, error)
	TopByAmount(ctx context.Context, userID uuid.UUID, kinds []models.TransactionKind, start, end time.Time, limit int) ([]repository.TopExpenseRow, error)
}

// GoalStore supplies per-goal saved totals for the saving overview.
type GoalStore interface {
	ListWithSaved(ctx context.Context, userID uuid.UUID) ([]repository.GoalSavedRow, error)
}

// ReportService is the aggregation engine behind every dashboard. It is
// stateless: each method is a pure read-and-compute function of
// (user, period, kind).
type ReportService struct {
	store    ReportStore
	goals    GoalStore
	labeler  MonthLabeler
	topLimit int
	logger   *zap.Logger
	now      func() time.Time
}

func NewReportService(store ReportStore, goals GoalStore, cfg *config.ReportConfig, logger *zap.Logger) *ReportService {
	topLimit := cfg.TopExpenseLimit
	if topLimit <= 0 {
		topLimit = 10
	}
	return &ReportService{
		store:    store,
		goals:    goals,
		labeler:  NewMonthLabeler(cfg.Locale),
		topLimit: topLimit,
		logger:   logger,
		now:      time.Now,
	}
}

// MonthKPIs sums the four kinds over one calendar month. The four sums are
// independent idempotent reads, so they fan out concurrently.
func (s *ReportService) MonthKPIs(ctx context.Context, userID uuid.UUID, year, month int) (dto.MonthKPIs, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return dto.MonthKPIs{}, err
	}
	start, end := MonthBounds(year, month)

	var income, fixed, variable, saving decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	sum := func(dst *decimal.Decimal, kind models.TransactionKind) func() error {
		return func() error {
			total, err := s.store.SumAmount(gctx, userID, []models.TransactionKind{kind}, start, end)
			if err != nil {
				return err
			}
			*dst = total
			return nil
		}
	}
	g.Go(sum(&income, models.KindIncome))
	g.Go(sum(&fixed, models.KindFixed))
	g.Go(sum(&variable, models.KindVariable))
	g.Go(sum(&saving, models.KindSaving))
	if err := g.Wait(); err != nil {
		return dto.MonthKPIs{}, err
	}

	expenses := fixed.Add(variable)
	kpis := dto.MonthKPIs{
		Income:   income,
		Fixed:    fixed,
		Variable: variable,
		Saving:   saving,
		Expenses: expenses,
		Balance:  income.Sub(expenses).Sub(saving),
	}
	if !income.IsZero() {
		expensePct := expenses.Div(income).Mul(decimal.NewFromInt(100)).InexactFloat64()
		savingPct := saving.Div(income).Mul(decimal.NewFromInt(100)).InexactFloat64()
		kpis.ExpensePct = &expensePct
		kpis.SavingPct = &savingPct
	}

	return kpis, nil
}

// Delta compares a total against the previous period's. A zero previous
// total has no baseline: the value stays nil and the direction is neutral.
// Otherwise a zero difference still counts as "up".
func Delta(current, previous decimal.Decimal) dto.Delta {
	if previous.IsZero() {
		return dto.Delta{Direction: DirectionNeutral}
	}
	diff := current.Sub(previous)
	direction := DirectionUp
	if diff.Sign() < 0 {
		direction = DirectionDown
	}
	percent := diff.Div(previous).Mul(decimal.NewFromInt(100)).InexactFloat64()
	return dto.Delta{Value: &percent, Direction: direction}
}

// MonthTotal sums one kind over one calendar month.
func (s *ReportService) MonthTotal(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, year, month int) (decimal.Decimal, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return decimal.Zero, err
	}
	start, end := MonthBounds(year, month)
	return s.store.SumAmount(ctx, userID, []models.TransactionKind{kind}, start, end)
}

// TrailingMonthlySeries returns twelve (label, total) points covering the
// twelve calendar months ending at the current one, oldest first and
// zero-filled.
func (s *ReportService) TrailingMonthlySeries(ctx context.Context, userID uuid.UUID, kind models.TransactionKind) ([]dto.SeriesPoint, error) {
	now := s.now()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	months := make([]time.Time, 12)
	for i := 0; i < 12; i++ {
		months[i] = current.AddDate(0, i-11, 0)
	}

	_, end := MonthBounds(current.Year(), int(current.Month()))
	return s.monthlySeries(ctx, userID, kind, months, months[0], end)
}

// YearlyMonthlySeries returns the twelve January-to-December totals of one
// year.
func (s *ReportService) YearlyMonthlySeries(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, year int) ([]dto.SeriesPoint, error) {
	if err := ValidatePeriod(year, 1); err != nil {
		return nil, err
	}

	months := make([]time.Time, 12)
	for i := 0; i < 12; i++ {
		months[i] = time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
	}

	return s.monthlySeries(ctx, userID, kind, months, months[0], time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC))
}

func (s *ReportService) monthlySeries(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, months []time.Time, start, end time.Time) ([]dto.SeriesPoint, error) {
	sums, err := s.store.SumByMonth(ctx, userID, kind, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[[2]int]decimal.Decimal, len(sums))
	for _, sum := range sums {
		totals[[2]int{sum.Month.Year(), int(sum.Month.Month())}] = sum.Total
	}

	series := make([]dto.SeriesPoint, 0, len(months))
	for _, m := range months {
		total, ok := totals[[2]int{m.Year(), int(m.Month())}]
		if !ok {
			total = decimal.Zero
		}
		series = append(series, dto.SeriesPoint{Label: s.labeler(m), Total: total})
	}

	return series, nil
}

// CategoryBreakdown groups one month of one kind by category, largest total
// first. Uncategorized rows are left out.
func (s *ReportService) CategoryBreakdown(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, year, month int) ([]dto.CategoryTotal, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	start, end := MonthBounds(year, month)

	sums, err := s.store.SumByCategory(ctx, userID, kind, start, end)
	if err != nil {
		return nil, err
	}

	breakdown := make([]dto.CategoryTotal, 0, len(sums))
	for _, sum := range sums {
		breakdown = append(breakdown, dto.CategoryTotal{Category: sum.Category, Total: sum.Total})
	}

	return breakdown, nil
}

// DailySeries returns one zero-filled point per calendar day of the month.
func (s *ReportService) DailySeries(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, year, month int) ([]dto.DailyPoint, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	start, end := MonthBounds(year, month)

	sums, err := s.store.SumByDay(ctx, userID, kind, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[int]decimal.Decimal, len(sums))
	for _, sum := range sums {
		totals[sum.Day] = sum.Total
	}

	days := end.Day()
	series := make([]dto.DailyPoint, 0, days)
	for day := 1; day <= days; day++ {
		total, ok := totals[day]
		if !ok {
			total = decimal.Zero
		}
		series = append(series, dto.DailyPoint{Day: day, Total: total})
	}

	return series, nil
}

// ExpenseBreakdown merges the fixed and variable category breakdowns of one
// month into a single dataset. Labels keep their first-seen order.
func (s *ReportService) ExpenseBreakdown(ctx context.Context, userID uuid.UUID, year, month int) ([]dto.CategoryTotal, error) {
	fixed, err := s.CategoryBreakdown(ctx, userID, models.KindFixed, year, month)
	if err != nil {
		return nil, err
	}
	variable, err := s.CategoryBreakdown(ctx, userID, models.KindVariable, year, month)
	if err != nil {
		return nil, err
	}

	merged := make([]dto.CategoryTotal, 0, len(fixed)+len(variable))
	index := make(map[string]int, len(fixed)+len(variable))
	for _, entry := range append(fixed, variable...) {
		if i, ok := index[entry.Category]; ok {
			merged[i].Total = merged[i].Total.Add(entry.Total)
			continue
		}
		index[entry.Category] = len(merged)
		merged = append(merged, entry)
	}

	return merged, nil
}

// TopExpenses ranks the month's largest fixed and variable transactions.
// A month without transactions yields an empty slice.
func (s *ReportService) TopExpenses(ctx context.Context, userID uuid.UUID, year, month int) ([]dto.TopExpense, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	start, end := MonthBounds(year, month)

	rows, err := s.store.TopByAmount(ctx, userID, models.ExpenseKinds, start, end, s.topLimit)
	if err != nil {
		return nil, err
	}

	top := make([]dto.TopExpense, 0, len(rows))
	for _, row := range rows {
		top = append(top, dto.TopExpense{
			Description: row.Description,
			Category:    row.Category,
			Kind:        string(row.Kind),
			Date:        row.Date.Format("2006-01-02"),
			Amount:      row.Amount,
		})
	}

	return top, nil
}

// SavingOverview collects the saving dashboard: month and year totals,
// saving rate against the month's income, goal progress and the yearly
// saving-type distribution. Widgets are isolated the same way as on the
// other dashboards: a failed aggregate logs and renders as its zero value.
func (s *ReportService) SavingOverview(ctx context.Context, userID uuid.UUID, year, month int) (dto.SavingOverview, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return dto.SavingOverview{}, err
	}
	monthStart, monthEnd := MonthBounds(year, month)
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	overview := dto.SavingOverview{Year: year, Month: month}

	monthTotal, err := s.store.SumAmount(ctx, userID, []models.TransactionKind{models.KindSaving}, monthStart, monthEnd)
	if err != nil {
		s.logWidget("saving_month_total", userID, err)
	} else {
		overview.MonthTotal = monthTotal

		monthIncome, err := s.store.SumAmount(ctx, userID, []models.TransactionKind{models.KindIncome}, monthStart, monthEnd)
		if err != nil {
			s.logWidget("saving_rate", userID, err)
		} else if !monthIncome.IsZero() {
			overview.SavingPct = monthTotal.Div(monthIncome).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
	}

	yearTotal, err := s.store.SumAmount(ctx, userID, []models.TransactionKind{models.KindSaving}, yearStart, yearEnd)
	if err != nil {
		s.logWidget("saving_year_total", userID, err)
	} else {
		overview.YearTotal = yearTotal
	}

	goals, err := s.goals.ListWithSaved(ctx, userID)
	if err != nil {
		s.logWidget("goal_progress", userID, err)
	} else {
		for _, goal := range goals {
			progress := dto.GoalProgress{
				GoalID: goal.ID.String(),
				Name:   goal.Name,
				Target: goal.Target,
				Saved:  goal.Saved,
			}
			if !goal.Target.IsZero() {
				progress.Percent = goal.Saved.Div(goal.Target).Mul(decimal.NewFromInt(100)).InexactFloat64()
			}
			overview.Goals = append(overview.Goals, progress)
		}
	}

	types, err := s.store.SumBySavingType(ctx, userID, yearStart, yearEnd)
	if err != nil {
		s.logWidget("saving_distribution", userID, err)
	} else {
		for _, t := range types {
			overview.Distribution = append(overview.Distribution, dto.CategoryTotal{Category: t.Type, Total: t.Total})
		}
	}

	monthly, err := s.YearlyMonthlySeries(ctx, userID, models.KindSaving, year)
	if err != nil {
		s.logWidget("saving_monthly_series", userID, err)
	} else {
		overview.Monthly = monthly
	}

	return overview, nil
}

// GeneralDashboard assembles the main dashboard. Widgets are computed
// independently: one failing aggregate logs and renders as its zero value
// without aborting the rest of the page.
func (s *ReportService) GeneralDashboard(ctx context.Context, userID uuid.UUID, year, month int) (dto.GeneralDashboard, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return dto.GeneralDashboard{}, err
	}

	dashboard := dto.GeneralDashboard{Year: year, Month: month}

	kpis, err := s.MonthKPIs(ctx, userID, year, month)
	if err != nil {
		s.logWidget("kpis", userID, err)
		dashboard.BalanceDelta = dto.Delta{Direction: DirectionNeutral}
	} else {
		dashboard.KPIs = kpis

		prevYear, prevMonth := PreviousMonth(year, month)
		prevKPIs, err := s.MonthKPIs(ctx, userID, prevYear, prevMonth)
		if err != nil {
			s.logWidget("balance_delta", userID, err)
			dashboard.BalanceDelta = dto.Delta{Direction: DirectionNeutral}
		} else {
			dashboard.BalanceDelta = Delta(kpis.Balance, prevKPIs.Balance)
		}
	}

	series := []struct {
		kind models.TransactionKind
		dst  *[]dto.SeriesPoint
	}{
		{models.KindIncome, &dashboard.IncomeSeries},
		{models.KindFixed, &dashboard.FixedSeries},
		{models.KindVariable, &dashboard.VariableSeries},
		{models.KindSaving, &dashboard.SavingSeries},
	}
	for _, entry := range series {
		points, err := s.TrailingMonthlySeries(ctx, userID, entry.kind)
		if err != nil {
			s.logWidget("trailing_series", userID, err)
			continue
		}
		*entry.dst = points
	}

	breakdown, err := s.ExpenseBreakdown(ctx, userID, year, month)
	if err != nil {
		s.logWidget("expense_breakdown", userID, err)
	} else {
		dashboard.ExpenseBreakdown = breakdown
	}

	top, err := s.TopExpenses(ctx, userID, year, month)
	if err != nil {
		s.logWidget("top_expenses", userID, err)
	} else {
		dashboard.TopExpenses = top
	}

	return dashboard, nil
}

// ModuleDashboard assembles one kind's dashboard with the same per-widget
// isolation as the general one.
func (s *ReportService) ModuleDashboard(ctx context.Context, userID uuid.UUID, kind models.TransactionKind, year, month int) (dto.ModuleDashboard, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return dto.ModuleDashboard{}, err
	}

	dashboard := dto.ModuleDashboard{Year: year, Month: month, Kind: string(kind)}

	total, err := s.MonthTotal(ctx, userID, kind, year, month)
	if err != nil {
		s.logWidget("month_total", userID, err)
		dashboard.MonthDelta = dto.Delta{Direction: DirectionNeutral}
	} else {
		dashboard.MonthTotal = total

		prevYear, prevMonth := PreviousMonth(year, month)
		prevTotal, err := s.MonthTotal(ctx, userID, kind, prevYear, prevMonth)
		if err != nil {
			s.logWidget("month_delta", userID, err)
			dashboard.MonthDelta = dto.Delta{Direction: DirectionNeutral}
		} else {
			dashboard.MonthDelta = Delta(total, prevTotal)
		}
	}

	if trailing, err := s.TrailingMonthlySeries(ctx, userID, kind); err != nil {
		s.logWidget("trailing_series", userID, err)
	} else {
		dashboard.Trailing = trailing
	}

	if breakdown, err := s.CategoryBreakdown(ctx, userID, kind, year, month); err != nil {
		s.logWidget("category_breakdown", userID, err)
	} else {
		dashboard.Breakdown = breakdown
	}

	if daily, err := s.DailySeries(ctx, userID, kind, year, month); err != nil {
		s.logWidget("daily_series", userID, err)
	} else {
		dashboard.Daily = daily
	}

	return dashboard, nil
}

func (s *ReportService) logWidget(widget string, userID uuid.UUID, err error) {
	s.logger.Error("Dashboard widget failed",
		zap.String("widget", widget),
		zap.String("user_id", userID.String()),
		zap.Error(err),
	)
}
