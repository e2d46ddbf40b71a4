package teaui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store/storetest"
	"tableflip.dev/moodlog/pkg/tui/calendar"
	"tableflip.dev/moodlog/pkg/tui/dayview"
	"tableflip.dev/moodlog/pkg/tui/theme"
)

func newModel(t *testing.T, seed ...*entry.Entry) (*Model, *storetest.Memory) {
	t.Helper()
	mem := storetest.NewMemory(seed...)
	m := New(context.Background(), &app.Service{Persistence: mem}, theme.New(true), nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	t.Cleanup(m.Close)
	return m, mem
}

func TestOpenDayAndBack(t *testing.T) {
	e := entry.New("2025-11-09", mood.Okay, "walked the dog")
	e.ID = 1
	m, _ := newModel(t, e)

	_, cmd := m.Update(calendar.OpenDayMsg{Date: "2025-11-09"})
	if cmd == nil {
		t.Fatalf("expected open command")
	}
	m.Update(cmd())
	if m.day == nil {
		t.Fatalf("expected day screen")
	}
	view, _ := m.View()
	if !strings.Contains(view, "walked the dog") {
		t.Fatalf("expected entry on screen:\n%s", view)
	}

	m.Update(dayview.BackMsg{Date: "2025-11-09"})
	if m.day != nil {
		t.Fatalf("expected calendar after back")
	}
}

func TestComposeRecordsEntry(t *testing.T) {
	m, mem := newModel(t)

	m.Update(calendar.ComposeMsg{Date: "2025-11-09"})
	if m.compose == nil {
		t.Fatalf("expected compose overlay")
	}
	view, _ := m.View()
	if !strings.Contains(view, "New entry") {
		t.Fatalf("expected compose view:\n%s", view)
	}

	_, cmd := m.Update(composeSubmitMsg{Date: "2025-11-09", Mood: mood.PrettyGood, Text: "fine"})
	if m.compose != nil {
		t.Fatalf("overlay should close on submit")
	}
	m.Update(cmd())

	list, err := mem.ListByDate(context.Background(), "2025-11-09")
	if err != nil || len(list) != 1 || list[0].JournalText != "fine" {
		t.Fatalf("expected recorded entry, got %v err=%v", list, err)
	}
	if m.status != "Entry saved!" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestComposeCancel(t *testing.T) {
	m, _ := newModel(t)
	m.Update(calendar.ComposeMsg{Date: "2025-11-09"})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m.Update(cmd())
	if m.compose != nil {
		t.Fatalf("expected overlay closed")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newModel(t)

	m.Update(tea.KeyPressMsg{Code: '?', Text: "?"})
	if m.help == nil {
		t.Fatalf("expected help overlay")
	}
	view, _ := m.View()
	if !strings.Contains(view, "Keys") {
		t.Fatalf("expected help on screen:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatalf("expected close command")
	}
	m.Update(cmd())
	if m.help != nil {
		t.Fatalf("expected help closed")
	}
}
