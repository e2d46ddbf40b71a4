// Package theme holds the Lip Gloss styles for the Bubble Tea UI. A Theme is
// built once and handed to every component constructor.
package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"tableflip.dev/moodlog/pkg/mood"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Dark       bool
	Background color.Color

	Footer   FooterTheme
	Calendar CalendarTheme
	Day      DayTheme
	Modal    ModalTheme
	Notice   NoticeTheme

	moods map[mood.Mood]colorful.Color
}

// FooterTheme groups styles used by the bottom help/status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// CalendarTheme styles the month grid and legend.
type CalendarTheme struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Empty    lipgloss.Style
	Day      lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Legend   lipgloss.Style
}

// DayTheme styles the day screen.
type DayTheme struct {
	Title    lipgloss.Style
	Position lipgloss.Style
	Button   lipgloss.Style
	Page     lipgloss.Style
	Editing  lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
}

// ModalTheme styles centered overlays (history, mood picker, confirm).
type ModalTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Selected lipgloss.Style
}

// NoticeTheme styles blocking notices.
type NoticeTheme struct {
	Info  lipgloss.Style
	Error lipgloss.Style
}

// Default detects the terminal background and returns the matching theme.
func Default() Theme {
	return New(termenv.HasDarkBackground())
}

// New returns the built-in theme for a dark or light background.
func New(dark bool) Theme {
	fg, muted, bg := lipgloss.Color("15"), lipgloss.Color("244"), "#1c1c1c"
	if !dark {
		fg, muted, bg = lipgloss.Color("0"), lipgloss.Color("243"), "#f5f5f5"
	}
	bgColor, _ := colorful.Hex(bg)

	moods := make(map[mood.Mood]colorful.Color)
	for _, g := range mood.DefaultGlyphs() {
		if c, err := colorful.Hex(g.Color); err == nil {
			moods[g.Mood] = c
		}
	}

	accent := lipgloss.Color("212")
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2)

	return Theme{
		Dark:       dark,
		Background: bgColor,
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214")),
		},
		Calendar: CalendarTheme{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(fg),
			Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
			Empty:    lipgloss.NewStyle().Foreground(muted),
			Day:      lipgloss.NewStyle().Foreground(fg),
			Today:    lipgloss.NewStyle().Underline(true).Bold(true),
			Selected: lipgloss.NewStyle().Reverse(true),
			Legend:   lipgloss.NewStyle().Foreground(muted),
		},
		Day: DayTheme{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(fg),
			Position: lipgloss.NewStyle().Foreground(muted),
			Button:   lipgloss.NewStyle().Foreground(accent).Bold(true),
			Page:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			Editing:  lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(accent).Padding(0, 1),
			Text:     lipgloss.NewStyle().Foreground(fg),
			Muted:    lipgloss.NewStyle().Foreground(muted),
		},
		Modal: ModalTheme{
			Frame:    frame,
			Title:    lipgloss.NewStyle().Bold(true),
			Body:     lipgloss.NewStyle(),
			Selected: lipgloss.NewStyle().Reverse(true),
		},
		Notice: NoticeTheme{
			Info:  frame.BorderForeground(lipgloss.Color("42")),
			Error: frame.BorderForeground(lipgloss.Color("196")),
		},
		moods: moods,
	}
}

// MoodColor is the legend color of m.
func (t Theme) MoodColor(m mood.Mood) color.Color {
	if c, ok := t.moods[m]; ok {
		return c
	}
	return lipgloss.Color("244")
}

// MoodStyle paints text in m's color.
func (t Theme) MoodStyle(m mood.Mood) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.MoodColor(m)).Bold(true)
}

// MoodBlock is a calendar cell filled with m's color.
func (t Theme) MoodBlock(m mood.Mood) lipgloss.Style {
	bg := t.MoodColor(m)
	fg := lipgloss.Color("0")
	if c, ok := t.moods[m]; ok {
		if _, _, l := c.Hsl(); l < 0.5 {
			fg = lipgloss.Color("15")
		}
	}
	return lipgloss.NewStyle().Background(bg).Foreground(fg)
}

// Dimmed returns m's color blended halfway into the background, used for
// pages that are not current.
func (t Theme) Dimmed(m mood.Mood) color.Color {
	c, ok := t.moods[m]
	if !ok {
		return lipgloss.Color("241")
	}
	bg, _ := colorful.MakeColor(t.Background)
	return c.BlendLab(bg, 0.5).Clamped()
}
