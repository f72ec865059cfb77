package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMonthLabeler(t *testing.T) {
	january := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	december := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	t.Run("spanish", func(t *testing.T) {
		label := NewMonthLabeler("es")
		assert.Equal(t, "Ene 2025", label(january))
		assert.Equal(t, "Dic 2024", label(december))
	})

	t.Run("english fallback", func(t *testing.T) {
		label := NewMonthLabeler("en")
		assert.Equal(t, "Jan 2025", label(january))
		assert.Equal(t, "Dec 2024", label(december))
	})

	t.Run("unknown locale falls back", func(t *testing.T) {
		label := NewMonthLabeler("xx")
		assert.Equal(t, "Jan 2025", label(january))
	})
}
