package service

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod rejects malformed year/month parameters instead of
// silently clamping them.
var ErrInvalidPeriod = errors.New("invalid period")

const (
	minYear = 1900
	maxYear = 2200
)

func ValidatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidPeriod, month)
	}
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidPeriod, year)
	}
	return nil
}

// MonthBounds returns the first and last day of a calendar month, inclusive.
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// PreviousMonth wraps January back to December of the prior year.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// DaysInMonth returns the number of calendar days of a month (28-31).
func DaysInMonth(year, month int) int {
	_, end := MonthBounds(year, month)
	return end.Day()
}
