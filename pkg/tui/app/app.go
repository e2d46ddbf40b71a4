// Package teaui hosts the Bubble Tea program for the moodlog TUI: the
// calendar screen and, on top of it, one day screen at a time.
package teaui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/editmode"
	"tableflip.dev/moodlog/pkg/flags"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/moodindex"
	"tableflip.dev/moodlog/pkg/tui/calendar"
	"tableflip.dev/moodlog/pkg/tui/dayview"
	"tableflip.dev/moodlog/pkg/tui/help"
	"tableflip.dev/moodlog/pkg/tui/overlay"
	"tableflip.dev/moodlog/pkg/tui/theme"
)

type dayOpenedMsg struct {
	day     *app.Day
	notices chan editmode.Notice
	err     error
}

type recordedMsg struct {
	date string
	err  error
}

// Model is the root of the UI.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme theme.Theme

	calendar *calendar.Model
	day      *dayview.Model
	compose  *composeOverlay
	help     *help.Model
	status   string

	width  int
	height int
}

// New builds the root model. gate may be nil.
func New(ctx context.Context, svc *app.Service, th theme.Theme, gate *flags.SupportGate) *Model {
	idx := moodindex.New(svc.Persistence)
	return &Model{
		ctx:      ctx,
		svc:      svc,
		theme:    th,
		calendar: calendar.New(ctx, th, idx, gate),
	}
}

// Run launches the interactive TUI program.
func Run(ctx context.Context, svc *app.Service, th theme.Theme, gate *flags.SupportGate) error {
	m := New(ctx, svc, th, gate)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Close releases the open screens.
func (m *Model) Close() {
	if m.day != nil {
		m.day.Close()
		m.day = nil
	}
	m.calendar.Close()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.calendar.Init()
}

// Update routes messages to the visible screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		m.layout()
		return m, nil
	case tea.KeyPressMsg:
		if v.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.status = ""
		if m.help != nil {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(v)
			return m, cmd
		}
		if m.compose != nil {
			var cmd tea.Cmd
			m.compose, cmd = m.compose.Update(v)
			return m, cmd
		}
		if v.String() == "?" && m.idle() {
			m.help = help.New(m.theme, m.width, m.height-2)
			return m, nil
		}
		if m.day != nil {
			var cmd tea.Cmd
			m.day, cmd = m.day.Update(v)
			return m, cmd
		}
		if v.String() == "q" && m.calendar.Notice() == "" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.calendar, cmd = m.calendar.Update(v)
		return m, cmd
	case calendar.OpenDayMsg:
		return m, m.openDay(v.Date)
	case calendar.ComposeMsg:
		m.compose = newComposeOverlay(m.theme, v.Date)
		m.compose.SetSize(m.width, m.height)
		return m, m.compose.Init()
	case help.CloseMsg:
		m.help = nil
		return m, nil
	case composeCancelMsg:
		m.compose = nil
		return m, nil
	case composeSubmitMsg:
		m.compose = nil
		svc, ctx := m.svc, m.ctx
		return m, func() tea.Msg {
			_, err := svc.Record(ctx, v.Date, v.Mood, v.Text)
			return recordedMsg{date: v.Date, err: err}
		}
	case recordedMsg:
		if v.err != nil {
			logging.Error("tui: record failed", "date", v.date, "err", v.err)
			m.status = "Failed to save entry."
			return m, nil
		}
		m.status = "Entry saved!"
		return m, tea.Batch(m.calendar.Focus(), m.openDay(v.date))
	case dayOpenedMsg:
		if v.err != nil && v.day == nil {
			logging.Error("tui: open day failed", "err", v.err)
			m.status = v.err.Error()
			return m, nil
		}
		if m.day != nil {
			m.day.Close()
		}
		m.day = dayview.New(m.ctx, m.theme, v.day, v.notices)
		m.layout()
		return m, m.day.Init()
	case dayview.BackMsg:
		if m.day != nil {
			m.day.Close()
			m.day = nil
		}
		return m, m.calendar.Focus()
	}

	if m.compose != nil {
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.day != nil {
		var cmd tea.Cmd
		m.day, cmd = m.day.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.calendar, cmd = m.calendar.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) idle() bool {
	if m.day != nil {
		return m.day.Idle()
	}
	return m.calendar.Notice() == ""
}

func (m *Model) openDay(date string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		notices := make(chan editmode.Notice, 8)
		day, err := svc.OpenDay(ctx, date, dayview.Notifier(notices))
		return dayOpenedMsg{day: day, notices: notices, err: err}
	}
}

func (m *Model) layout() {
	w, h := m.width, m.height-2
	m.calendar.SetSize(w, h)
	if m.day != nil {
		m.day.SetSize(w, h)
	}
	if m.compose != nil {
		m.compose.SetSize(w, h)
	}
	if m.help != nil {
		m.help.SetSize(w, h)
	}
}

// View renders the visible screen and the footer.
func (m *Model) View() (string, *tea.Cursor) {
	var body, keys string
	switch {
	case m.day != nil:
		body, keys = m.day.View(), m.day.Help()
	default:
		body, keys = m.calendar.View(), m.calendar.Help()
	}
	switch {
	case m.help != nil:
		body = m.float(body, m.help.View())
		keys = "↑/↓ scroll · esc close"
	case m.compose != nil:
		body = m.float(body, m.compose.View())
		keys = ""
	}

	footer := m.theme.Footer.Help.Render(keys)
	if m.status != "" {
		footer = lipgloss.JoinHorizontal(lipgloss.Top, footer, "  ", m.theme.Footer.Status.Render(m.status))
	}
	return strings.Join([]string{body, "", footer}, "\n"), nil
}

// float draws fg centered over body. Before the first resize the sizes are
// unknown, so fg is stacked below instead.
func (m *Model) float(body, fg string) string {
	if m.width <= 0 || m.height <= 2 {
		return lipgloss.JoinVertical(lipgloss.Left, body, "", fg)
	}
	return overlay.Compose(body, m.width, m.height-2, fg, overlay.Center)
}
