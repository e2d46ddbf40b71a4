package calendar

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/flags"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/moodindex"
	"tableflip.dev/moodlog/pkg/store/storetest"
	"tableflip.dev/moodlog/pkg/tui/theme"
)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var nov9 = time.Date(2025, time.November, 9, 12, 0, 0, 0, time.Local)

func seeded(date string, m mood.Mood, id int64) *entry.Entry {
	e := entry.New(date, m, "")
	e.ID = id
	return e
}

func newModel(t *testing.T, gate *flags.SupportGate, seed ...*entry.Entry) (*Model, *storetest.Memory) {
	t.Helper()
	mem := storetest.NewMemory(seed...)
	m := New(context.Background(), theme.New(true), moodindex.New(mem), gate)
	m.SetNow(func() time.Time { return nov9 })
	return m, mem
}

func focus(m *Model) {
	m.Update(m.Focus()())
}

func TestViewShowsMonthAndLegend(t *testing.T) {
	m, _ := newModel(t, nil, seeded("2025-11-03", mood.Okay, 1))
	focus(m)

	view := stripANSIString(m.View())
	for _, want := range []string{"November 2025", weekHeader, " 9", "30", "super awesome", "really terrible"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestSupportNoticeOncePerDay(t *testing.T) {
	kv, err := flags.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open flags: %v", err)
	}
	gate := flags.NewSupportGate(kv)
	m, _ := newModel(t, gate, seeded("2025-11-09", mood.PrettyBad, 1))

	focus(m)
	if m.Notice() != flags.SupportMessage {
		t.Fatalf("expected support notice, got %q", m.Notice())
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.Notice() != "" {
		t.Fatalf("expected notice dismissed")
	}
	focus(m)
	if m.Notice() != "" {
		t.Fatalf("notice should not show twice on the same day")
	}
}

func TestNoSupportNoticeForGoodDay(t *testing.T) {
	kv, err := flags.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open flags: %v", err)
	}
	m, _ := newModel(t, flags.NewSupportGate(kv), seeded("2025-11-09", mood.PrettyGood, 1))
	focus(m)
	if m.Notice() != "" {
		t.Fatalf("unexpected notice %q", m.Notice())
	}
}

func TestNavigation(t *testing.T) {
	m, _ := newModel(t, nil)
	m.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if m.Selected() != "2025-11-10" {
		t.Fatalf("expected 2025-11-10, got %s", m.Selected())
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected() != "2025-11-03" {
		t.Fatalf("expected 2025-11-03, got %s", m.Selected())
	}

	m.SetNow(func() time.Time { return time.Date(2026, time.January, 31, 12, 0, 0, 0, time.Local) })
	m.Update(tea.KeyPressMsg{Code: ']', Text: "]"})
	if m.Selected() != "2026-02-28" {
		t.Fatalf("expected month move to clamp to 2026-02-28, got %s", m.Selected())
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected open command")
	}
	if msg, ok := cmd().(OpenDayMsg); !ok || msg.Date != "2026-02-28" {
		t.Fatalf("unexpected message %#v", cmd())
	}

	_, cmd = m.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if msg, ok := cmd().(ComposeMsg); !ok || msg.Date != "2026-02-28" {
		t.Fatalf("unexpected message %#v", cmd())
	}
}

func TestSubscriptionAppliesChanges(t *testing.T) {
	m, mem := newModel(t, nil)
	defer m.Close()

	_, wait := m.Update(m.subscribe()())
	if wait == nil {
		t.Fatalf("expected wait command after subscribing")
	}
	if err := mem.Insert(context.Background(), entry.New("2025-11-09", mood.SuperAwesome, "")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	msg := wait()
	if _, ok := msg.(changeMsg); !ok {
		t.Fatalf("expected change message, got %#v", msg)
	}
	if got, ok := m.index.Mood("2025-11-09"); !ok || got != mood.SuperAwesome {
		t.Fatalf("expected applied mood, got %q %v", got, ok)
	}
}

func TestSubscriptionArrivingAfterCloseIsReleased(t *testing.T) {
	m, _ := newModel(t, nil)
	msg, ok := m.subscribe()().(subscribedMsg)
	if !ok || msg.err != nil || msg.sub == nil {
		t.Fatalf("expected a subscription, got %+v", msg)
	}

	m.Close()
	if _, cmd := m.Update(msg); cmd != nil {
		t.Fatalf("closed calendar should not wait for changes")
	}
	if m.sub != nil {
		t.Fatalf("late subscription was kept")
	}
	select {
	case <-msg.sub.Done():
	case <-time.After(time.Second):
		t.Fatalf("late subscription still delivering")
	}
}
