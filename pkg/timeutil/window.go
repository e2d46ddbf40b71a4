// Package timeutil parses report windows and expands them to calendar dates.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/moodlog/pkg/entry"
)

const (
	// DefaultWindow is the fallback report window used when none is provided.
	DefaultWindow = "1w"
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitDays      = map[string]int{
		"d":     1,
		"day":   1,
		"days":  1,
		"w":     7,
		"wk":    7,
		"wks":   7,
		"week":  7,
		"weeks": 7,
	}
)

// ParseWindow parses a day-granular window such as "3d", "2w" or "1w2d" and
// returns the number of days along with a canonical label. An empty input
// means one week.
func ParseWindow(input string) (int, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := strings.ToLower(trimmed)
	total := 0
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", matches[1], err)
		}
		per, ok := unitDays[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", matches[2])
		}
		total += value * per
		remaining = strings.TrimSpace(remaining[len(matches[0]):])
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("window must be at least one day")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders days as weeks and days, e.g. "1w2d".
func FormatWindow(days int) string {
	if days <= 0 {
		return "0d"
	}
	var b strings.Builder
	if w := days / 7; w > 0 {
		fmt.Fprintf(&b, "%dw", w)
	}
	if d := days % 7; d > 0 {
		fmt.Fprintf(&b, "%dd", d)
	}
	return b.String()
}

// Dates returns the calendar dates of the days-long window ending on end,
// newest first.
func Dates(end time.Time, days int) []string {
	out := make([]string, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, entry.FormatDate(end.AddDate(0, 0, -i)))
	}
	return out
}

// MonthDates returns every calendar date of the month, oldest first.
func MonthDates(year int, month time.Month) []string {
	first := time.Date(year, month, 1, 12, 0, 0, 0, time.Local)
	n := DaysIn(year, month)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entry.FormatDate(first.AddDate(0, 0, i)))
	}
	return out
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseMonth accepts "YYYY-MM" and returns the year and month.
func ParseMonth(v string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(v))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM", v)
	}
	return t.Year(), t.Month(), nil
}
