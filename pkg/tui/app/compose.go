package teaui

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/tui/theme"
)

type composeSubmitMsg struct {
	Date string
	Mood mood.Mood
	Text string
}

type composeCancelMsg struct{}

// composeOverlay records a new entry: pick a mood, write a line.
type composeOverlay struct {
	theme theme.Theme
	date  string
	mood  int
	input textinput.Model
	width int
}

func newComposeOverlay(th theme.Theme, date string) *composeOverlay {
	ti := textinput.New()
	ti.Placeholder = "What happened today?"
	ti.CharLimit = 2000
	ti.Prompt = "> "
	return &composeOverlay{
		theme: th,
		date:  date,
		mood:  mood.Default.Glyph().Order,
		input: ti,
	}
}

func (o *composeOverlay) Init() tea.Cmd {
	return o.input.Focus()
}

func (o *composeOverlay) SetSize(width, _ int) {
	o.width = width
	if width > 10 {
		o.input.SetWidth(width - 10)
	}
}

func (o *composeOverlay) Update(msg tea.Msg) (*composeOverlay, tea.Cmd) {
	all := mood.All()
	if v, ok := msg.(tea.KeyPressMsg); ok {
		switch v.String() {
		case "esc":
			return o, func() tea.Msg { return composeCancelMsg{} }
		case "enter":
			submit := composeSubmitMsg{
				Date: o.date,
				Mood: all[o.mood],
				Text: strings.TrimSpace(o.input.Value()),
			}
			return o, func() tea.Msg { return submit }
		case "tab", "ctrl+n":
			o.mood = (o.mood + 1) % len(all)
			return o, nil
		case "shift+tab", "ctrl+p":
			o.mood = (o.mood + len(all) - 1) % len(all)
			return o, nil
		}
	}
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	return o, cmd
}

func (o *composeOverlay) View() string {
	th := o.theme
	var moods []string
	for i, g := range mood.DefaultGlyphs() {
		label := g.Face
		if i == o.mood {
			label = th.Modal.Selected.Render(th.MoodStyle(g.Mood).Render(g.Face + " " + g.Mood.String()))
		} else {
			label = th.MoodStyle(g.Mood).Render(label)
		}
		moods = append(moods, label)
	}
	return th.Modal.Frame.Render(strings.Join([]string{
		th.Modal.Title.Render("New entry · " + entry.LongDate(o.date)),
		"",
		strings.Join(moods, "  "),
		"",
		o.input.View(),
		"",
		th.Footer.Help.Render("tab: mood · enter: save · esc: cancel"),
	}, "\n"))
}
