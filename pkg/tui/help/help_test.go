package help

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/moodlog/pkg/tui/theme"
)

func TestViewListsSectionsAndMoods(t *testing.T) {
	m := New(theme.New(true), 80, 60)
	view := m.View()
	for _, want := range []string{"Keys", "Calendar", "Editing", "ctrl+s", "Moods", "pretty good"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCloseKeys(t *testing.T) {
	for _, k := range []tea.KeyPressMsg{
		{Code: tea.KeyEscape},
		{Code: 'q', Text: "q"},
		{Code: '?', Text: "?"},
	} {
		m := New(theme.New(false), 80, 24)
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%q: no command", k.String())
		}
		if _, ok := cmd().(CloseMsg); !ok {
			t.Fatalf("%q: want CloseMsg", k.String())
		}
	}
}
