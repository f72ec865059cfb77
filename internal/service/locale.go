package service

import (
	"fmt"
	"time"
)

// MonthLabeler renders a month-start date into a chart label. Labels are a
// display concern, so the locale is injected rather than baked into the
// series construction.
type MonthLabeler func(t time.Time) string

var spanishMonths = [12]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

// NewMonthLabeler returns short month-name + year labels ("Ene 2025") for
// the given locale. Unknown locales fall back to English.
func NewMonthLabeler(locale string) MonthLabeler {
	switch locale {
	case "es":
		return func(t time.Time) string {
			return fmt.Sprintf("%s %d", spanishMonths[int(t.Month())-1], t.Year())
		}
	default:
		return func(t time.Time) string {
			return t.Format("Jan 2006")
		}
	}
}
