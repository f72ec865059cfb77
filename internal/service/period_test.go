package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePeriod(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		wantErr bool
	}{
		{name: "valid", year: 2025, month: 6, wantErr: false},
		{name: "january", year: 2025, month: 1, wantErr: false},
		{name: "december", year: 2025, month: 12, wantErr: false},
		{name: "month zero", year: 2025, month: 0, wantErr: true},
		{name: "month thirteen", year: 2025, month: 13, wantErr: true},
		{name: "negative month", year: 2025, month: -3, wantErr: true},
		{name: "year too small", year: 1899, month: 6, wantErr: true},
		{name: "year too large", year: 2201, month: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriod(tt.year, tt.month)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPeriod)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2025, 2)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), end)

	start, end = MonthBounds(2024, 2) // leap year
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, 29, end.Day())

	_, end = MonthBounds(2025, 12)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		name                string
		year, month         int
		wantYear, wantMonth int
	}{
		{name: "mid year", year: 2025, month: 6, wantYear: 2025, wantMonth: 5},
		{name: "january wraps", year: 2025, month: 1, wantYear: 2024, wantMonth: 12},
		{name: "february", year: 2025, month: 2, wantYear: 2025, wantMonth: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month := PreviousMonth(tt.year, tt.month)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, 1))
	assert.Equal(t, 28, DaysInMonth(2025, 2))
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 30, DaysInMonth(2025, 4))
}
