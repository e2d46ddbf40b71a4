package calendar

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/flags"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/moodindex"
	"tableflip.dev/moodlog/pkg/store"
	"tableflip.dev/moodlog/pkg/tui/theme"
)

// OpenDayMsg asks the parent to show the day screen for Date.
type OpenDayMsg struct{ Date string }

// ComposeMsg asks the parent to record a new entry for Date.
type ComposeMsg struct{ Date string }

type subscribedMsg struct {
	sub *moodindex.Subscription
	err error
}

type changeMsg struct{ change store.Change }

type hydratedMsg struct{ err error }

// Model is the calendar screen. It owns a subscription to the mood index
// while mounted and rehydrates the index every time it regains focus.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	theme theme.Theme
	index *moodindex.Cache
	gate  *flags.SupportGate
	now   func() time.Time

	selected time.Time
	notice   string
	status   string

	changes chan store.Change
	sub     *moodindex.Subscription
	closed  bool
	width   int
	height  int
}

// New returns a calendar over index. gate may be nil to disable the
// support notice.
func New(ctx context.Context, th theme.Theme, index *moodindex.Cache, gate *flags.SupportGate) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:      ctx,
		cancel:   cancel,
		theme:    th,
		index:    index,
		gate:     gate,
		now:      time.Now,
		selected: time.Now(),
		changes:  make(chan store.Change, 64),
	}
}

// SetNow overrides the clock, for tests.
func (m *Model) SetNow(now func() time.Time) {
	m.now = now
	m.selected = now()
}

// SetSize records the available area.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

// Selected is the highlighted date.
func (m *Model) Selected() string {
	return entry.FormatDate(m.selected)
}

// Notice is the support message currently shown, if any.
func (m *Model) Notice() string {
	return m.notice
}

// Init mounts the calendar: subscribe, then hydrate.
func (m *Model) Init() tea.Cmd {
	return tea.Sequence(m.subscribe(), m.Focus())
}

// Focus rehydrates the index. The parent calls it whenever the calendar
// becomes the visible screen again.
func (m *Model) Focus() tea.Cmd {
	index, ctx := m.index, m.ctx
	return func() tea.Msg {
		return hydratedMsg{err: index.Hydrate(ctx)}
	}
}

// Close unmounts the calendar, ending its subscription.
// A subscription still being established ends with the model's context.
func (m *Model) Close() {
	m.closed = true
	m.cancel()
	m.sub.Close()
	m.sub = nil
}

func (m *Model) subscribe() tea.Cmd {
	index, ctx, changes := m.index, m.ctx, m.changes
	return func() tea.Msg {
		sub, err := index.Subscribe(ctx, func(c store.Change) {
			select {
			case changes <- c:
			default:
			}
		})
		return subscribedMsg{sub: sub, err: err}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	changes := m.changes
	var done <-chan struct{}
	if m.sub != nil {
		done = m.sub.Done()
	}
	return func() tea.Msg {
		select {
		case c := <-changes:
			return changeMsg{change: c}
		case <-done:
			return nil
		}
	}
}

// Update handles calendar messages and keys.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case subscribedMsg:
		if m.closed {
			msg.sub.Close()
			return m, nil
		}
		if msg.err != nil {
			m.status = "Live updates unavailable"
			return m, nil
		}
		m.sub.Close()
		m.sub = msg.sub
		return m, m.waitForChange()
	case changeMsg:
		logging.Debug("calendar: change applied", "change", msg.change.String())
		return m, m.waitForChange()
	case hydratedMsg:
		if msg.err != nil {
			m.status = "Could not load moods"
		} else {
			m.status = ""
		}
		m.checkSupport()
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) checkSupport() {
	if m.gate == nil {
		return
	}
	today := entry.FormatDate(m.now())
	md, known := m.index.Mood(today)
	show, err := m.gate.Check(today, md, known)
	if err != nil {
		logging.Warn("calendar: support gate", "err", err)
		return
	}
	if show {
		m.notice = flags.SupportMessage
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.notice != "" {
		switch msg.String() {
		case "esc", "enter", "space", " ":
			m.notice = ""
		}
		return nil
	}
	switch msg.String() {
	case "left", "h":
		m.move(0, -1)
	case "right", "l":
		m.move(0, 1)
	case "up", "k":
		m.move(0, -7)
	case "down", "j":
		m.move(0, 7)
	case "[", "pgup":
		m.move(-1, 0)
	case "]", "pgdown":
		m.move(1, 0)
	case "t":
		m.selected = m.now()
	case "enter":
		date := m.Selected()
		return func() tea.Msg { return OpenDayMsg{Date: date} }
	case "n":
		date := m.Selected()
		return func() tea.Msg { return ComposeMsg{Date: date} }
	}
	return nil
}

func (m *Model) move(months, days int) {
	if months != 0 {
		day := m.selected.Day()
		first := time.Date(m.selected.Year(), m.selected.Month(), 1, 12, 0, 0, 0, m.selected.Location())
		target := first.AddDate(0, months, 0)
		if n := DaysIn(target); day > n {
			day = n
		}
		m.selected = target.AddDate(0, 0, day-1)
	}
	m.selected = m.selected.AddDate(0, 0, days)
}

// View renders the month, the legend and any notice.
func (m *Model) View() string {
	th := m.theme
	month := time.Date(m.selected.Year(), m.selected.Month(), 1, 12, 0, 0, 0, m.selected.Location())

	byDate := make(map[string]mood.Mood)
	for _, d := range m.index.Month(month.Year(), month.Month()) {
		byDate[d.Date] = d.Mood
	}
	grid := Render(th, month, byDate, m.now(), m.selected)

	parts := []string{
		th.Calendar.Title.Render(entry.MonthLabel(month)),
		"",
		grid,
		"",
		Legend(th),
	}
	if m.status != "" {
		parts = append(parts, "", th.Footer.Status.Render(m.status))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.notice != "" {
		note := th.Notice.Info.Render(th.Modal.Body.Render(m.notice) + "\n\n" + th.Footer.Help.Render("enter: dismiss"))
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", note)
	}
	return strings.TrimRight(body, "\n")
}

// Help is the key summary for the footer.
func (m *Model) Help() string {
	return "←/→/↑/↓ day · [/] month · t today · enter open · n new · ? keys · q quit"
}
