// Package dayview is the day screen: one page per entry of a date, paged
// horizontally, with inline and full-screen editing, a mood picker, a
// history sheet and delete confirmation.
package dayview

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textarea"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/editmode"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/pager"
	"tableflip.dev/moodlog/pkg/tui/theme"
)

const (
	frameInterval = 16 * time.Millisecond
	// frames per page turn
	turnFrames = 4
	inlineRows = 5
)

// BackMsg asks the parent to leave the day screen.
type BackMsg struct{ Date string }

type frameMsg struct{}

type savedMsg struct{ err error }

type moodPickedMsg struct{ err error }

type deletedMsg struct {
	navigateBack bool
	err          error
}

// Model renders an app.Day.
type Model struct {
	ctx   context.Context
	theme theme.Theme
	day   *app.Day

	notices chan editmode.Notice
	notice  *editmode.Notice

	editor        textarea.Model
	historyOpen   bool
	historyCursor int
	moodCursor    int

	offset    float64
	target    float64
	animating bool

	width  int
	height int
}

// New returns a day screen over d. The Day's edit machine must have been
// built with Notifier() so notices reach the screen.
func New(ctx context.Context, th theme.Theme, d *app.Day, notices chan editmode.Notice) *Model {
	ed := textarea.New()
	ed.ShowLineNumbers = false
	ed.Placeholder = "How was your day?"
	m := &Model{
		ctx:     ctx,
		theme:   th,
		day:     d,
		notices: notices,
		editor:  ed,
		width:   80,
		height:  24,
	}
	m.snap()
	return m
}

// Notifier returns a notifier feeding ch, for building the Day.
func Notifier(ch chan editmode.Notice) editmode.Notifier {
	return editmode.NotifierFunc(func(n editmode.Notice) {
		select {
		case ch <- n:
		default:
			logging.Warn("dayview: notice dropped", "text", n.Text)
		}
	})
}

// Day exposes the screen's day.
func (m *Model) Day() *app.Day { return m.day }

// SetSize records the available area.
func (m *Model) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 8 {
		height = 8
	}
	m.width, m.height = width, height
	m.editor.SetWidth(width - 6)
	m.sizeEditor()
	m.snap()
}

// Notice is the blocking notice on screen, if any.
func (m *Model) Notice() (editmode.Notice, bool) {
	if m.notice == nil {
		return editmode.Notice{}, false
	}
	return *m.notice, true
}

// HistoryOpen reports whether the history sheet is showing.
func (m *Model) HistoryOpen() bool { return m.historyOpen }

// Close releases the day.
func (m *Model) Close() { m.day.Close() }

// Idle reports whether the screen is only showing entries, with no overlay
// or edit session taking keys.
func (m *Model) Idle() bool {
	return m.notice == nil && !m.historyOpen && !m.day.Edit.Confirming() &&
		m.day.Edit.Mode() == editmode.Viewing
}

func (m *Model) pageWidth() float64 {
	return float64(m.width)
}

// snap aligns the scroll offset with the current page.
func (m *Model) snap() {
	idx, _ := m.day.Store.Index()
	m.offset = pager.Offset(idx, m.pageWidth())
	m.target = m.offset
	m.animating = false
}

func (m *Model) sizeEditor() {
	if m.day.Edit.Mode() == editmode.FullEditor {
		m.editor.SetHeight(m.height - 6)
		return
	}
	m.editor.SetHeight(inlineRows)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles day screen messages and keys.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case frameMsg:
		cmds = append(cmds, m.step())
	case savedMsg:
		m.drainNotices()
		if msg.err != nil {
			logging.Error("dayview: save failed", "err", msg.err)
		}
	case moodPickedMsg:
		m.drainNotices()
		if msg.err != nil {
			logging.Error("dayview: mood update failed", "err", msg.err)
		}
	case deletedMsg:
		m.drainNotices()
		if msg.err != nil {
			logging.Error("dayview: delete failed", "err", msg.err)
		} else {
			m.snap()
			if msg.navigateBack {
				date := m.day.Date()
				cmds = append(cmds, func() tea.Msg { return BackMsg{Date: date} })
			}
		}
	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg))
	default:
		if m.editing() {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	m.syncEditor()
	return m, tea.Batch(cmds...)
}

func (m *Model) editing() bool {
	mode := m.day.Edit.Mode()
	return mode == editmode.Editing || mode == editmode.FullEditor
}

// syncEditor drops editor focus once the session has ended, which happens
// whenever the cursor moves.
func (m *Model) syncEditor() {
	if m.day.Edit.Mode() == editmode.Viewing && m.editor.Focused() {
		m.editor.Blur()
		m.editor.SetValue("")
	}
	m.sizeEditor()
}

func (m *Model) drainNotices() {
	for {
		select {
		case n := <-m.notices:
			m.notice = &n
		default:
			return
		}
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if m.notice != nil {
		switch key {
		case "enter", "esc", "space", " ":
			m.notice = nil
		}
		return nil
	}
	if m.day.Edit.Confirming() {
		return m.handleConfirmKey(key)
	}
	if m.historyOpen {
		return m.handleHistoryKey(key)
	}
	switch m.day.Edit.Mode() {
	case editmode.MoodPicking:
		return m.handleMoodKey(key)
	case editmode.FullEditor:
		return m.handleFullEditorKey(msg)
	case editmode.Editing:
		return m.handleEditingKey(msg)
	default:
		return m.handleViewingKey(key)
	}
}

func (m *Model) handleViewingKey(key string) tea.Cmd {
	if m.day.Empty() {
		switch key {
		case "esc", "q", "backspace", "enter":
			return m.back()
		}
		return nil
	}
	switch key {
	case "left", "h":
		return m.turn(-1)
	case "right", "l":
		return m.turn(1)
	case "e", "enter":
		idx, _ := m.day.Store.Index()
		if err := m.day.Edit.StartEdit(idx); err != nil {
			logging.Debug("dayview: start edit", "err", err)
			return nil
		}
		m.editor.SetValue(m.day.Edit.Draft())
		return m.editor.Focus()
	case "H":
		if m.day.ShowHistory() {
			m.historyOpen = true
			m.historyCursor, _ = m.day.Store.Index()
		}
	case "esc", "q", "backspace":
		return m.back()
	}
	return nil
}

func (m *Model) handleEditingKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		return m.save()
	case "esc":
		_ = m.day.Edit.Cancel()
		return nil
	case "ctrl+f":
		_ = m.day.Edit.SetDraft(m.editor.Value())
		if err := m.day.Edit.FocusDraft(); err == nil {
			m.sizeEditor()
		}
		return nil
	case "ctrl+o":
		_ = m.day.Edit.SetDraft(m.editor.Value())
		if err := m.day.Edit.OpenMoodPicker(); err == nil {
			m.moodCursor = mood.Default.Glyph().Order
			if cur, ok := m.day.Store.Current(); ok && cur.Mood.Valid() {
				m.moodCursor = cur.Mood.Glyph().Order
			}
		}
		return nil
	case "ctrl+d":
		_ = m.day.Edit.RequestDelete()
		return nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	_ = m.day.Edit.SetDraft(m.editor.Value())
	return cmd
}

func (m *Model) handleFullEditorKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		return m.save()
	case "esc":
		_ = m.day.Edit.SetDraft(m.editor.Value())
		_ = m.day.Edit.CloseFullEditor()
		m.sizeEditor()
		return nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	_ = m.day.Edit.SetDraft(m.editor.Value())
	return cmd
}

func (m *Model) handleMoodKey(key string) tea.Cmd {
	all := mood.All()
	switch key {
	case "up", "k":
		if m.moodCursor > 0 {
			m.moodCursor--
		}
	case "down", "j":
		if m.moodCursor < len(all)-1 {
			m.moodCursor++
		}
	case "1", "2", "3", "4", "5":
		m.moodCursor = int(key[0] - '1')
		return m.pickMood(all[m.moodCursor])
	case "enter":
		m.moodCursor = min(max(m.moodCursor, 0), len(all)-1)
		return m.pickMood(all[m.moodCursor])
	case "esc":
		_ = m.day.Edit.CloseMoodPicker()
	}
	return nil
}

func (m *Model) handleHistoryKey(key string) tea.Cmd {
	n := m.day.Store.Len()
	switch key {
	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case "down", "j":
		if m.historyCursor < n-1 {
			m.historyCursor++
		}
	case "enter":
		m.day.History.Select(m.historyCursor)
		m.historyOpen = false
		m.snap()
	case "esc", "H", "q":
		m.historyOpen = false
	}
	return nil
}

func (m *Model) handleConfirmKey(key string) tea.Cmd {
	switch key {
	case "y", "enter":
		edit, ctx := m.day.Edit, m.ctx
		return func() tea.Msg {
			back, err := edit.ConfirmDelete(ctx)
			return deletedMsg{navigateBack: back, err: err}
		}
	case "n", "esc":
		m.day.Edit.DismissDelete()
	}
	return nil
}

func (m *Model) save() tea.Cmd {
	if err := m.day.Edit.SetDraft(m.editor.Value()); err != nil {
		return nil
	}
	edit, ctx := m.day.Edit, m.ctx
	return func() tea.Msg {
		return savedMsg{err: edit.Save(ctx)}
	}
}

func (m *Model) pickMood(md mood.Mood) tea.Cmd {
	edit, ctx := m.day.Edit, m.ctx
	return func() tea.Msg {
		return moodPickedMsg{err: edit.PickMood(ctx, md)}
	}
}

func (m *Model) back() tea.Cmd {
	date := m.day.Date()
	return func() tea.Msg { return BackMsg{Date: date} }
}

// turn starts a page animation toward the neighbouring page.
func (m *Model) turn(dir int) tea.Cmd {
	n := m.day.Store.Len()
	idx, ok := m.day.Store.Index()
	if !ok {
		return nil
	}
	next := idx + dir
	if m.animating {
		next = int(m.target/m.pageWidth()) + dir
	}
	if next < 0 || next >= n {
		return nil
	}
	m.target = pager.Offset(next, m.pageWidth())
	if m.animating {
		return nil
	}
	m.animating = true
	return frame()
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// step advances the scroll animation one frame. The visible pages are
// reported while scrolling and the resting page once it stops.
func (m *Model) step() tea.Cmd {
	if !m.animating {
		return nil
	}
	pw := m.pageWidth()
	stride := pw / turnFrames
	switch {
	case m.offset < m.target:
		m.offset += stride
		if m.offset > m.target {
			m.offset = m.target
		}
	case m.offset > m.target:
		m.offset -= stride
		if m.offset < m.target {
			m.offset = m.target
		}
	}
	n := m.day.Store.Len()
	m.day.Pager.VisibilityChanged(pager.Visible(m.offset, pw, n))
	if m.offset == m.target {
		m.animating = false
		m.day.Pager.MomentumSettled(m.offset, pw)
		return nil
	}
	return frame()
}

// Help is the key summary for the current mode.
func (m *Model) Help() string {
	switch {
	case m.notice != nil:
		return "enter: dismiss"
	case m.day.Edit.Confirming():
		return "y: delete · n: keep"
	case m.historyOpen:
		return "↑/↓ choose · enter jump · esc close"
	}
	switch m.day.Edit.Mode() {
	case editmode.Editing:
		return "ctrl+s save · esc cancel · ctrl+f full screen · ctrl+o mood · ctrl+d delete"
	case editmode.FullEditor:
		return "ctrl+s save · esc back"
	case editmode.MoodPicking:
		return "↑/↓ or 1-5 choose · enter set · esc back"
	}
	if m.day.Empty() {
		return "esc: go back"
	}
	help := "←/→ page · e edit · esc back"
	if m.day.ShowHistory() {
		help += " · H history"
	}
	return help + " · ? keys"
}

// View renders the screen.
func (m *Model) View() string {
	th := m.theme
	if m.day.Edit.Mode() == editmode.FullEditor {
		return lipgloss.JoinVertical(lipgloss.Left,
			th.Day.Title.Render("Journal · "+m.day.Title()),
			"",
			m.editor.View(),
		)
	}

	body := []string{m.header(), ""}
	if m.day.Empty() {
		body = append(body, th.Day.Muted.Render(m.day.EmptyText()))
	} else {
		body = append(body, m.page(), "", m.dots())
	}
	view := lipgloss.JoinVertical(lipgloss.Left, body...)

	if overlay := m.overlay(); overlay != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, "", overlay)
	}
	return view
}

func (m *Model) header() string {
	th := m.theme
	title := th.Day.Title.Render(m.day.Title())
	if !m.day.ShowHistory() {
		return title
	}
	return title + "  " + th.Day.Position.Render(m.day.Store.Position()) + "  " + th.Day.Button.Render("[H] History")
}

func (m *Model) page() string {
	th := m.theme
	cur, ok := m.day.Store.Current()
	if !ok {
		return ""
	}
	idx, _ := m.day.Store.Index()
	g := cur.Mood.Glyph()
	moodLine := th.MoodStyle(cur.Mood).Render(g.Face + "  " + cur.Mood.String())

	var text string
	if m.day.Edit.Editable(idx) {
		text = m.editor.View()
	} else if strings.TrimSpace(cur.JournalText) == "" {
		text = th.Day.Muted.Render("No journal text.")
	} else {
		text = th.Day.Text.Render(wordwrap.String(cur.JournalText, m.width-6))
	}

	style := th.Day.Page
	if m.day.Edit.Mode() != editmode.Viewing {
		style = th.Day.Editing
	}
	return style.Width(m.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, moodLine, "", text))
}

// dots is the page strip; pages other than the current one are dimmed.
func (m *Model) dots() string {
	list := m.day.Store.Entries()
	if len(list) < 2 {
		return ""
	}
	idx, _ := m.day.Store.Index()
	parts := make([]string, len(list))
	for i, e := range list {
		if i == idx {
			parts[i] = m.theme.MoodStyle(e.Mood).Render("●")
			continue
		}
		parts[i] = lipgloss.NewStyle().Foreground(m.theme.Dimmed(e.Mood)).Render("○")
	}
	return strings.Join(parts, " ")
}

func (m *Model) overlay() string {
	th := m.theme
	switch {
	case m.notice != nil:
		style := th.Notice.Info
		if m.notice.Level == editmode.LevelError {
			style = th.Notice.Error
		}
		return style.Render(m.notice.Text)
	case m.day.Edit.Confirming():
		return th.Notice.Error.Render(editmode.DeleteConfirmText + "\n\n" + th.Footer.Help.Render("y: delete · n: keep"))
	case m.historyOpen:
		return m.historySheet()
	case m.day.Edit.Mode() == editmode.MoodPicking:
		return m.moodPicker()
	}
	return ""
}

func (m *Model) historySheet() string {
	th := m.theme
	lines := []string{th.Modal.Title.Render(m.day.History.Title()), ""}
	for _, r := range m.day.History.Rows() {
		marker := "  "
		if r.Current {
			marker = "→ "
		}
		line := marker + th.MoodStyle(r.Mood).Render(r.Label) + "  " + r.Preview
		if r.Index == m.historyCursor {
			line = th.Modal.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	return th.Modal.Frame.Render(strings.Join(lines, "\n"))
}

func (m *Model) moodPicker() string {
	th := m.theme
	lines := []string{th.Modal.Title.Render("How are you feeling?"), ""}
	for i, g := range mood.DefaultGlyphs() {
		line := th.MoodStyle(g.Mood).Render(g.Face + "  " + g.Mood.String())
		if i == m.moodCursor {
			line = th.Modal.Selected.Render("› ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return th.Modal.Frame.Render(strings.Join(lines, "\n"))
}
