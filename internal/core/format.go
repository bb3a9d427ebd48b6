package core

import (
	"fmt"
	"time"
)

// FormatAmount renders a monetary value with the dollar sign and exactly two
// decimal places, e.g. "$45.50". Negative values keep the sign in front of
// the symbol: "-$12.30".
func FormatAmount(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatDate renders dates as DD/MM/YYYY, the display format used across
// the application.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// SameMonth reports whether both timestamps fall in the same calendar month
// of the same year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
