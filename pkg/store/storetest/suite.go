package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store"
)

// Opener returns a fresh, empty Persistence for one subtest.
type Opener func(t *testing.T) store.Persistence

// Run exercises the Persistence contract against a backend.
func Run(t *testing.T, open Opener) {
	t.Helper()
	tests := []struct {
		name string
		fn   func(t *testing.T, p store.Persistence)
	}{
		{"InsertAssignsIncreasingIDs", testInsertAssignsIncreasingIDs},
		{"ListByDateNewestFirst", testListByDateNewestFirst},
		{"ListByDates", testListByDates},
		{"MoodRoundTrip", testMoodRoundTrip},
		{"UpdateText", testUpdateText},
		{"MissingIDs", testMissingIDs},
		{"Delete", testDelete},
		{"MoodRows", testMoodRows},
		{"RejectsInvalid", testRejectsInvalid},
		{"Watch", testWatch},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := open(t)
			t.Cleanup(func() { _ = p.Close() })
			tc.fn(t, p)
		})
	}
}

func insert(t *testing.T, p store.Persistence, date string, m mood.Mood, text string) *entry.Entry {
	t.Helper()
	e := entry.New(date, m, text)
	if err := p.Insert(context.Background(), e); err != nil {
		t.Fatalf("insert %s %s: %v", date, m, err)
	}
	if e.ID <= 0 {
		t.Fatalf("insert did not assign an id: %+v", e)
	}
	return e
}

func testInsertAssignsIncreasingIDs(t *testing.T, p store.Persistence) {
	a := insert(t, p, "2025-11-09", mood.Okay, "")
	b := insert(t, p, "2025-11-08", mood.PrettyBad, "")
	c := insert(t, p, "2025-11-09", mood.SuperAwesome, "")
	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Fatalf("ids not strictly increasing: %d %d %d", a.ID, b.ID, c.ID)
	}
}

func testListByDateNewestFirst(t *testing.T, p store.Persistence) {
	ctx := context.Background()
	older := insert(t, p, "2025-11-09", mood.PrettyBad, "first")
	insert(t, p, "2025-11-10", mood.Okay, "other day")
	newer := insert(t, p, "2025-11-09", mood.Okay, "second")

	got, err := p.ListByDate(ctx, "2025-11-09")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Fatalf("expected ids [%d %d], got [%d %d]", newer.ID, older.ID, got[0].ID, got[1].ID)
	}
	if got[0].Mood != mood.Okay || got[0].JournalText != "second" {
		t.Fatalf("unexpected newest entry %+v", got[0])
	}

	empty, err := p.ListByDate(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("list empty date: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no entries, got %d", len(empty))
	}
}

func testListByDates(t *testing.T, p store.Persistence) {
	a := insert(t, p, "2025-11-01", mood.Okay, "")
	insert(t, p, "2025-11-02", mood.Okay, "")
	c := insert(t, p, "2025-11-03", mood.PrettyGood, "")

	got, err := p.ListByDates(context.Background(), []string{"2025-11-03", "2025-11-01", "2025-11-01"})
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	if len(got) != 2 || got[0].ID != c.ID || got[1].ID != a.ID {
		t.Fatalf("unexpected result %v", got)
	}
}

func testMoodRoundTrip(t *testing.T, p store.Persistence) {
	ctx := context.Background()
	e := insert(t, p, "2025-11-09", mood.Okay, "keep me")
	for _, m := range mood.All() {
		if err := p.Update(ctx, e.ID, entry.MoodPatch(m)); err != nil {
			t.Fatalf("update mood %s: %v", m, err)
		}
		got, err := p.Get(ctx, e.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Mood != m {
			t.Fatalf("expected mood %q, got %q", m, got.Mood)
		}
		if got.JournalText != "keep me" {
			t.Fatalf("mood patch clobbered text: %q", got.JournalText)
		}
	}
}

func testUpdateText(t *testing.T, p store.Persistence) {
	ctx := context.Background()
	e := insert(t, p, "2025-11-09", mood.Okay, "draft")
	if err := p.Update(ctx, e.ID, entry.TextPatch("final words")); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := p.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.JournalText != "final words" || got.Mood != mood.Okay || got.Date != "2025-11-09" {
		t.Fatalf("unexpected entry after update %+v", got)
	}
}

func testMissingIDs(t *testing.T, p store.Persistence) {
	ctx := context.Background()
	if _, err := p.Get(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if err := p.Update(ctx, 999, entry.TextPatch("x")); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := p.Delete(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func testDelete(t *testing.T, p store.Persistence) {
	ctx := context.Background()
	a := insert(t, p, "2025-11-09", mood.PrettyBad, "")
	b := insert(t, p, "2025-11-09", mood.Okay, "")
	if err := p.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := p.ListByDate(ctx, "2025-11-09")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected only %d to remain, got %v", a.ID, got)
	}
	c := insert(t, p, "2025-11-09", mood.Okay, "")
	if c.ID <= b.ID {
		t.Fatalf("id %d reused after delete of %d", c.ID, b.ID)
	}
}

func testMoodRows(t *testing.T, p store.Persistence) {
	a := insert(t, p, "2025-11-09", mood.PrettyBad, "long text that is not needed")
	b := insert(t, p, "2025-11-09", mood.Okay, "")
	rows, err := p.MoodRows(context.Background())
	if err != nil {
		t.Fatalf("mood rows: %v", err)
	}
	byID := make(map[int64]store.MoodRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	if len(byID) != 2 {
		t.Fatalf("expected 2 rows, got %v", rows)
	}
	if byID[a.ID].Mood != mood.PrettyBad || byID[b.ID].Mood != mood.Okay || byID[b.ID].Date != "2025-11-09" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func testRejectsInvalid(t *testing.T, p store.Persistence) {
	ctx := context.Background()
	if err := p.Insert(ctx, entry.New("11/09/2025", mood.Okay, "")); err == nil {
		t.Fatalf("expected bad date to be rejected")
	}
	if err := p.Insert(ctx, entry.New("2025-11-09", mood.Mood("fine"), "")); err == nil {
		t.Fatalf("expected bad mood to be rejected")
	}
	e := insert(t, p, "2025-11-09", mood.Okay, "")
	if err := p.Update(ctx, e.ID, entry.MoodPatch(mood.Mood("fine"))); err == nil {
		t.Fatalf("expected bad mood patch to be rejected")
	}
}

func testWatch(t *testing.T, p store.Persistence) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	// Allow the watcher to attach before writing.
	time.Sleep(50 * time.Millisecond)

	e := insert(t, p, "2025-11-09", mood.Okay, "watched")
	waitFor(t, ch, "insert", func(c store.Change) bool {
		return c.Type == store.ChangeInsert && c.Row.ID == e.ID && c.Row.Date == "2025-11-09" && c.Row.Mood == mood.Okay
	})

	time.Sleep(150 * time.Millisecond)
	if err := p.Update(ctx, e.ID, entry.MoodPatch(mood.PrettyBad)); err != nil {
		t.Fatalf("update: %v", err)
	}
	waitFor(t, ch, "update", func(c store.Change) bool {
		return c.Type == store.ChangeUpdate && c.Row.ID == e.ID && c.Row.Mood == mood.PrettyBad
	})

	time.Sleep(150 * time.Millisecond)
	if err := p.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	waitFor(t, ch, "delete", func(c store.Change) bool {
		return c.Type == store.ChangeDelete && c.Row.ID == e.ID && c.Row.Date == "2025-11-09"
	})

	cancel()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch channel not closed after cancel")
		}
	}
}

func waitFor(t *testing.T, ch <-chan store.Change, what string, match func(store.Change) bool) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case c, ok := <-ch:
			if !ok {
				t.Fatalf("watch closed while waiting for %s", what)
			}
			if match(c) {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s change", what)
		}
	}
}
