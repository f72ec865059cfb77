package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"financehub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryPeriod(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		query     string
		wantYear  int
		wantMonth int
		wantErr   bool
	}{
		{
			name:      "defaults to current month",
			query:     "",
			wantYear:  now.Year(),
			wantMonth: int(now.Month()),
		},
		{
			name:      "explicit period",
			query:     "year=2025&month=6",
			wantYear:  2025,
			wantMonth: 6,
		},
		{
			name:      "year only defaults month",
			query:     "year=2025",
			wantYear:  2025,
			wantMonth: int(now.Month()),
		},
		{
			name:    "non-numeric month is rejected",
			query:   "month=abc",
			wantErr: true,
		},
		{
			name:    "non-numeric year is rejected",
			query:   "year=hoy",
			wantErr: true,
		},
		{
			name:    "month out of range",
			query:   "year=2025&month=13",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotYear, gotMonth int
				gotErr            error
			)
			app := fiber.New()
			app.Get("/period", func(c *fiber.Ctx) error {
				gotYear, gotMonth, gotErr = queryPeriod(c)
				return nil
			})

			req := httptest.NewRequest("GET", "/period?"+tt.query, nil)
			_, err := app.Test(req)
			require.NoError(t, err)

			if tt.wantErr {
				require.Error(t, gotErr)
				assert.True(t, errors.Is(gotErr, service.ErrInvalidPeriod))
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.wantYear, gotYear)
			assert.Equal(t, tt.wantMonth, gotMonth)
		})
	}
}
