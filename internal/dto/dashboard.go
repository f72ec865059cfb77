package dto

import "github.com/shopspring/decimal"

// MonthKPIs carries the monthly summary totals of the general dashboard.
// Every total is an aggregate sum that defaults to zero when the month has
// no matching rows; the ratios are nil when the income baseline is zero.
type MonthKPIs struct {
	Income     decimal.Decimal `json:"income_total"`
	Fixed      decimal.Decimal `json:"fixed_total"`
	Variable   decimal.Decimal `json:"variable_total"`
	Saving     decimal.Decimal `json:"saving_total"`
	Expenses   decimal.Decimal `json:"expenses_total"`
	Balance    decimal.Decimal `json:"balance"`
	ExpensePct *float64        `json:"expense_pct"`
	SavingPct  *float64        `json:"saving_pct"`
}

// Delta compares a total against the previous calendar month. Value is nil
// when the previous total is zero (no baseline).
type Delta struct {
	Value     *float64 `json:"value"`
	Direction string   `json:"direction"` // up, down or neutral
}

type SeriesPoint struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type DailyPoint struct {
	Day   int             `json:"day"`
	Total decimal.Decimal `json:"total"`
}

type TopExpense struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Kind        string          `json:"kind"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
}

type GeneralDashboard struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	KPIs             MonthKPIs       `json:"kpis"`
	BalanceDelta     Delta           `json:"balance_delta"`
	IncomeSeries     []SeriesPoint   `json:"income_series"`
	FixedSeries      []SeriesPoint   `json:"fixed_series"`
	VariableSeries   []SeriesPoint   `json:"variable_series"`
	SavingSeries     []SeriesPoint   `json:"saving_series"`
	ExpenseBreakdown []CategoryTotal `json:"expense_breakdown"`
	TopExpenses      []TopExpense    `json:"top_expenses"`
}

type ModuleDashboard struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Kind       string          `json:"kind"`
	MonthTotal decimal.Decimal `json:"month_total"`
	MonthDelta Delta           `json:"month_delta"`
	Trailing   []SeriesPoint   `json:"trailing_series"`
	Breakdown  []CategoryTotal `json:"category_breakdown"`
	Daily      []DailyPoint    `json:"daily_series"`
}

type GoalProgress struct {
	GoalID  string          `json:"goal_id"`
	Name    string          `json:"name"`
	Target  decimal.Decimal `json:"target_amount"`
	Saved   decimal.Decimal `json:"saved_amount"`
	Percent float64         `json:"percent"`
}

type SavingOverview struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	MonthTotal   decimal.Decimal `json:"month_total"`
	YearTotal    decimal.Decimal `json:"year_total"`
	SavingPct    float64         `json:"saving_pct"`
	Goals        []GoalProgress  `json:"goals"`
	Distribution []CategoryTotal `json:"distribution"`
	Monthly      []SeriesPoint   `json:"monthly_series"`
}
