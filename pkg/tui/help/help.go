// Package help renders the key reference overlay.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/tui/theme"
)

// CloseMsg asks the host to dismiss the overlay.
type CloseMsg struct{}

// Section is one titled block of key bindings.
type Section struct {
	Title string
	Keys  [][2]string
}

// Sections is the full reference, one section per screen.
var Sections = []Section{
	{"Calendar", [][2]string{
		{"←/→ h/l", "previous / next day"},
		{"↑/↓ k/j", "previous / next week"},
		{"[ ]", "previous / next month"},
		{"t", "jump to today"},
		{"enter", "open the selected day"},
		{"n", "record a new entry"},
		{"q", "quit"},
	}},
	{"Day", [][2]string{
		{"←/→", "previous / next entry"},
		{"e enter", "edit the current entry"},
		{"H", "entry history"},
		{"esc q", "back to the calendar"},
	}},
	{"Editing", [][2]string{
		{"ctrl+s", "save"},
		{"ctrl+f", "full screen editor"},
		{"ctrl+o", "change mood"},
		{"ctrl+d", "delete entry"},
		{"esc", "discard changes"},
	}},
}

// Model is a scrollable, framed key reference.
type Model struct {
	theme    theme.Theme
	viewport viewport.Model
	width    int
	height   int
}

// New builds the overlay for a width x height screen.
func New(th theme.Theme, width, height int) *Model {
	m := &Model{
		theme:    th,
		viewport: viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
	}
	m.SetSize(width, height)
	return m
}

// SetSize fits the overlay within the screen.
func (m *Model) SetSize(width, height int) {
	width = min(max(width-4, 32), 64)
	height = max(height-4, 8)
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height

	frameX := m.theme.Modal.Frame.GetHorizontalFrameSize()
	frameY := m.theme.Modal.Frame.GetVerticalFrameSize()
	inner := max(width-frameX, 1)
	m.viewport.SetWidth(inner)
	m.viewport.SetHeight(max(min(height-frameY, lipgloss.Height(m.content(inner))), 1))
	m.viewport.SetContent(m.content(inner))
	m.viewport.SetYOffset(0)
}

// Update scrolls, or closes on esc, q or ?.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "esc", "q", "?":
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the framed reference.
func (m *Model) View() string {
	return m.theme.Modal.Frame.Render(m.viewport.View())
}

func (m *Model) content(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.Modal.Title.Render("Keys"))
	b.WriteString("\n")
	for _, s := range Sections {
		b.WriteString("\n")
		b.WriteString(m.theme.Modal.Selected.Render(s.Title))
		b.WriteString("\n")
		for _, k := range s.Keys {
			line := lipgloss.NewStyle().Width(10).Render(k[0]) + m.theme.Modal.Body.Render(k[1])
			b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(line))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Modal.Selected.Render("Moods"))
	b.WriteString("\n")
	for _, md := range mood.All() {
		b.WriteString(m.theme.MoodBlock(md).Render(" " + md.Glyph().Face + " "))
		b.WriteString(" ")
		b.WriteString(m.theme.Modal.Body.Render(md.String()))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
