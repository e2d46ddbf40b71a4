package moodindex

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store"
	"tableflip.dev/moodlog/pkg/store/storetest"
)

func TestHydrateKeepsMaxID(t *testing.T) {
	src := storetest.NewMemory(
		&entry.Entry{ID: 5, Date: "2025-11-09", Mood: mood.Okay},
		&entry.Entry{ID: 3, Date: "2025-11-09", Mood: mood.PrettyBad},
		&entry.Entry{ID: 4, Date: "2025-11-08", Mood: mood.SuperAwesome},
	)
	c := New(src)
	if err := c.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if m, _ := c.Mood("2025-11-09"); m != mood.Okay {
		t.Fatalf("expected okay for 2025-11-09, got %q", m)
	}
	if m, _ := c.Mood("2025-11-08"); m != mood.SuperAwesome {
		t.Fatalf("expected super awesome for 2025-11-08, got %q", m)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 dates, got %d", c.Len())
	}
}

func TestReduceIgnoresRowOrder(t *testing.T) {
	got := Reduce([]store.MoodRow{
		{ID: 3, Date: "d1", Mood: mood.PrettyBad},
		{ID: 5, Date: "d1", Mood: mood.Okay},
		{ID: 1, Date: "d1", Mood: mood.ReallyTerrible},
	})
	if got["d1"] != mood.Okay {
		t.Fatalf("expected okay, got %q", got["d1"])
	}
}

func TestHydrateFailureEmptiesIndex(t *testing.T) {
	src := storetest.NewMemory(&entry.Entry{ID: 1, Date: "2025-11-09", Mood: mood.Okay})
	c := New(src)
	if err := c.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	boom := errors.New("offline")
	src.Fail(storetest.OpMoodRows, boom)
	if err := c.Hydrate(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected hydrate error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty index after failed hydrate, got %v", c.Snapshot())
	}
}

func TestHydrateKeepsChangesAppliedDuringFetch(t *testing.T) {
	src := storetest.NewMemory(&entry.Entry{ID: 1, Date: "2025-11-09", Mood: mood.Okay})
	c := New(src)
	release := src.Hold(storetest.OpMoodRows)

	done := make(chan error, 1)
	go func() { done <- c.Hydrate(context.Background()) }()
	deadline := time.Now().Add(time.Second)
	for src.Count(storetest.OpMoodRows) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("hydrate never fetched")
		}
		time.Sleep(2 * time.Millisecond)
	}

	// Events the fetched rows will not reflect.
	c.Apply(store.Change{Type: store.ChangeInsert, Row: store.MoodRow{ID: 7, Date: "2025-11-10", Mood: mood.PrettyGood}})
	c.Apply(store.Change{Type: store.ChangeDelete, Row: store.MoodRow{ID: 1, Date: "2025-11-09"}})
	release()
	if err := <-done; err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if m, ok := c.Mood("2025-11-10"); !ok || m != mood.PrettyGood {
		t.Fatalf("insert applied during hydrate was lost, got %q %v", m, ok)
	}
	if _, ok := c.Mood("2025-11-09"); ok {
		t.Fatalf("delete applied during hydrate was lost")
	}

	// Nothing is replayed into later hydrates.
	if err := c.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if _, ok := c.Mood("2025-11-10"); ok {
		t.Fatalf("stale change replayed into a later hydrate")
	}
}

func TestApplyInsertSetsMissingDate(t *testing.T) {
	c := New(storetest.NewMemory())
	c.Apply(store.Change{Type: store.ChangeInsert, Row: store.MoodRow{ID: 9, Date: "d2", Mood: mood.Okay}})
	if m, ok := c.Mood("d2"); !ok || m != mood.Okay {
		t.Fatalf("expected okay for d2, got %q (%v)", m, ok)
	}
}

func TestApplyUpdateOverwritesWithoutIDCheck(t *testing.T) {
	src := storetest.NewMemory(
		&entry.Entry{ID: 5, Date: "d1", Mood: mood.Okay},
		&entry.Entry{ID: 3, Date: "d1", Mood: mood.PrettyBad},
	)
	c := New(src)
	if err := c.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	// A late event for the older entry still wins.
	c.Apply(store.Change{Type: store.ChangeUpdate, Row: store.MoodRow{ID: 3, Date: "d1", Mood: mood.ReallyTerrible}})
	if m, _ := c.Mood("d1"); m != mood.ReallyTerrible {
		t.Fatalf("expected overwrite to really terrible, got %q", m)
	}
}

func TestApplyDeleteRemovesWholeDate(t *testing.T) {
	src := storetest.NewMemory(
		&entry.Entry{ID: 5, Date: "d1", Mood: mood.Okay},
		&entry.Entry{ID: 3, Date: "d1", Mood: mood.PrettyBad},
	)
	c := New(src)
	if err := c.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	c.Apply(store.Change{Type: store.ChangeDelete, Row: store.MoodRow{ID: 5, Date: "d1"}})
	if _, ok := c.Mood("d1"); ok {
		t.Fatalf("expected d1 to be removed although entry 3 remains")
	}

	// The source still holds both rows, so a rehydrate repairs the date.
	if err := c.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if m, _ := c.Mood("d1"); m != mood.Okay {
		t.Fatalf("expected okay after rehydrate, got %q", m)
	}
}

func TestMonth(t *testing.T) {
	c := New(storetest.NewMemory())
	c.Apply(store.Change{Type: store.ChangeInsert, Row: store.MoodRow{ID: 1, Date: "2025-11-09", Mood: mood.Okay}})
	c.Apply(store.Change{Type: store.ChangeInsert, Row: store.MoodRow{ID: 2, Date: "2025-11-01", Mood: mood.PrettyGood}})
	c.Apply(store.Change{Type: store.ChangeInsert, Row: store.MoodRow{ID: 3, Date: "2025-10-31", Mood: mood.PrettyBad}})

	days := c.Month(2025, time.November)
	if len(days) != 2 || days[0].Date != "2025-11-01" || days[1].Date != "2025-11-09" {
		t.Fatalf("unexpected month %v", days)
	}
}

func TestSubscribeAppliesChangesUntilClosed(t *testing.T) {
	src := storetest.NewMemory()
	c := New(src)

	applied := make(chan store.Change, 4)
	sub, err := c.Subscribe(context.Background(), func(ch store.Change) { applied <- ch })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	e := entry.New("2025-11-09", mood.PrettyBad, "")
	if err := src.Insert(context.Background(), e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatalf("change not applied")
	}
	if m, _ := c.Mood("2025-11-09"); m != mood.PrettyBad {
		t.Fatalf("expected pretty bad, got %q", m)
	}

	sub.Close()
	sub.Close()
	select {
	case <-sub.Done():
	default:
		t.Fatalf("subscription still running after Close")
	}

	if err := src.Update(context.Background(), e.ID, entry.MoodPatch(mood.Okay)); err != nil {
		t.Fatalf("update: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if m, _ := c.Mood("2025-11-09"); m != mood.PrettyBad {
		t.Fatalf("closed subscription still applied change, got %q", m)
	}
}

func TestSubscribeFailure(t *testing.T) {
	src := storetest.NewMemory()
	src.Fail(storetest.OpWatch, errors.New("no realtime"))
	if _, err := New(src).Subscribe(context.Background(), nil); err == nil {
		t.Fatalf("expected subscribe error")
	}
	var s *Subscription
	s.Close()
}

func TestRunStopsOnCancel(t *testing.T) {
	src := storetest.NewMemory(&entry.Entry{ID: 1, Date: "2025-11-09", Mood: mood.Okay})
	c := New(src)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx, nil) }()

	deadline := time.Now().Add(time.Second)
	for c.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Len() != 1 {
		t.Fatalf("expected hydrated cache")
	}
	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("run did not return after cancel")
	}
}
