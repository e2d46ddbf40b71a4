package entry

import (
	"strings"
	"time"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	// LayoutISO is the calendar-date format stored in the date column.
	LayoutISO = "2006-01-02"

	layoutLong  = "Monday, January 2, 2006"
	layoutMonth = "January 2006"

	// DefaultPreviewWidth is the number of cells shown in history rows.
	DefaultPreviewWidth = 60
)

// ParseDate parses a YYYY-MM-DD calendar date in the local zone.
func ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(LayoutISO, strings.TrimSpace(v), time.Local)
}

// ValidDate reports whether v is a canonical YYYY-MM-DD date.
func ValidDate(v string) bool {
	t, err := time.Parse(LayoutISO, v)
	if err != nil {
		return false
	}
	return t.Format(LayoutISO) == v
}

// FormatDate renders t as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(LayoutISO)
}

// Today returns the local calendar date.
func Today() string {
	return FormatDate(time.Now())
}

// LongDate renders "Sunday, November 9, 2025" for a stored date, or the
// input unchanged when it does not parse.
func LongDate(v string) string {
	t, err := ParseDate(v)
	if err != nil {
		return v
	}
	return t.Format(layoutLong)
}

// MonthLabel renders "November 2025".
func MonthLabel(t time.Time) string {
	return t.Format(layoutMonth)
}

// SameMonth reports whether the stored date falls in the month of then.
func SameMonth(date string, then time.Time) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	return t.Year() == then.Year() && t.Month() == then.Month()
}

// Preview flattens text onto one line and truncates it to width cells,
// ending in an ellipsis when something was cut.
func Preview(text string, width int) string {
	if text == "" {
		return ""
	}
	flat := strings.Join(strings.Fields(text), " ")
	if width <= 0 || ansi.PrintableRuneWidth(flat) <= width {
		return flat
	}
	return truncate.StringWithTail(flat, uint(width), "…")
}
