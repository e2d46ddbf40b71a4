// Package calendar is the month screen: a grid of days colored by the mood
// index, a legend, and the once-daily support notice.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/tui/theme"
)

const weekHeader = "Su Mo Tu We Th Fr Sa"

// Render produces a multi-line grid for month. Days present in byDate are
// filled with their mood color.
func Render(th theme.Theme, month time.Time, byDate map[string]mood.Mood, today, selected time.Time) string {
	if month.IsZero() {
		return ""
	}
	first := time.Date(month.Year(), month.Month(), 1, 12, 0, 0, 0, month.Location())
	daysInMonth := DaysIn(month)

	lines := []string{th.Calendar.Header.Render(weekHeader)}

	startOffset := int(first.Weekday())
	rows := (startOffset + daysInMonth + 6) / 7
	for row := 0; row < rows; row++ {
		cells := make([]string, 0, 7)
		for col := 0; col < 7; col++ {
			day := row*7 + col - startOffset + 1
			if day < 1 || day > daysInMonth {
				cells = append(cells, th.Calendar.Empty.Render("  "))
				continue
			}
			date := first.AddDate(0, 0, day-1)
			cells = append(cells, renderDay(th, day, byDate[entry.FormatDate(date)],
				sameDay(date, today), sameDay(date, selected)))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func renderDay(th theme.Theme, day int, m mood.Mood, isToday, isSelected bool) string {
	text := fmt.Sprintf("%2d", day)
	style := th.Calendar.Day
	if m != "" {
		style = th.MoodBlock(m)
	}
	if isToday {
		style = style.Inherit(th.Calendar.Today)
	}
	if isSelected {
		style = style.Inherit(th.Calendar.Selected)
	}
	return style.Render(text)
}

// Legend lists every mood with its face and color.
func Legend(th theme.Theme) string {
	var items []string
	for _, g := range mood.DefaultGlyphs() {
		swatch := th.MoodBlock(g.Mood).Render("  ")
		items = append(items, swatch+" "+th.Calendar.Legend.Render(g.Face+" "+g.Mood.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// DaysIn returns the number of days in a month.
func DaysIn(month time.Time) int {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	return first.AddDate(0, 1, -1).Day()
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
