package entrystore

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store/storetest"
)

func nov9() *storetest.Memory {
	return storetest.NewMemory(
		&entry.Entry{ID: 3, Date: "2025-11-09", Mood: mood.PrettyBad, JournalText: "rough start"},
		&entry.Entry{ID: 5, Date: "2025-11-09", Mood: mood.Okay, JournalText: "better"},
		&entry.Entry{ID: 4, Date: "2025-11-10", Mood: mood.PrettyGood},
	)
}

func loaded(t *testing.T, m *storetest.Memory, date string) *Store {
	t.Helper()
	s := New(m, date)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoadOrdersNewestFirst(t *testing.T) {
	s := loaded(t, nov9(), "2025-11-09")
	got := s.Entries()
	if len(got) != 2 || got[0].ID != 5 || got[1].ID != 3 {
		t.Fatalf("expected ids [5 3], got %v", got)
	}
	if i, ok := s.Index(); !ok || i != 0 {
		t.Fatalf("expected cursor 0, got %d (%v)", i, ok)
	}
	if s.Position() != "Entries 1 of 2" {
		t.Fatalf("unexpected position %q", s.Position())
	}
}

func TestLoadResetsCursor(t *testing.T) {
	s := loaded(t, nov9(), "2025-11-09")
	if !s.SetIndex(1) {
		t.Fatalf("expected cursor to move")
	}
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if i, _ := s.Index(); i != 0 {
		t.Fatalf("expected cursor reset to 0, got %d", i)
	}
}

func TestLoadFailureLooksEmpty(t *testing.T) {
	m := nov9()
	s := loaded(t, m, "2025-11-09")

	boom := errors.New("timeout")
	m.Fail(storetest.OpList, boom)
	if err := s.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty list after failed load")
	}
	if _, ok := s.Index(); ok {
		t.Fatalf("expected no cursor after failed load")
	}
	if s.Position() != "" {
		t.Fatalf("expected no position, got %q", s.Position())
	}
}

func TestDeleteScenario(t *testing.T) {
	s := loaded(t, nov9(), "2025-11-09")
	cur, _ := s.Current()
	if cur.Mood != mood.Okay {
		t.Fatalf("expected okay, got %q", cur.Mood)
	}

	emptied, err := s.DeleteCurrent(context.Background())
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if emptied {
		t.Fatalf("one entry should remain")
	}
	got := s.Entries()
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected only id 3, got %v", got)
	}
	if i, _ := s.Index(); i != 0 {
		t.Fatalf("expected cursor 0, got %d", i)
	}
	cur, _ = s.Current()
	if cur.Mood != mood.PrettyBad {
		t.Fatalf("expected pretty bad, got %q", cur.Mood)
	}
}

func TestDeleteLastClampsCursor(t *testing.T) {
	s := loaded(t, nov9(), "2025-11-09")
	s.SetIndex(1)
	emptied, err := s.DeleteCurrent(context.Background())
	if err != nil || emptied {
		t.Fatalf("unexpected result emptied=%v err=%v", emptied, err)
	}
	if i, _ := s.Index(); i != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", i)
	}
	if e, ok := s.Current(); !ok || e.ID != 3 {
		t.Fatalf("cursor should stay on id 3, got %+v", e)
	}
}

func TestDeleteSoleEntryEmpties(t *testing.T) {
	s := loaded(t, nov9(), "2025-11-10")
	emptied, err := s.DeleteCurrent(context.Background())
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !emptied {
		t.Fatalf("expected emptied signal")
	}
	if _, ok := s.Index(); ok {
		t.Fatalf("expected no cursor")
	}
	if _, err := s.DeleteCurrent(context.Background()); !errors.Is(err, ErrNoCurrent) {
		t.Fatalf("expected ErrNoCurrent, got %v", err)
	}
}

func TestDeleteFailureKeepsList(t *testing.T) {
	m := nov9()
	s := loaded(t, m, "2025-11-09")
	m.Fail(storetest.OpDelete, errors.New("denied"))

	if _, err := s.DeleteCurrent(context.Background()); err == nil {
		t.Fatalf("expected delete error")
	}
	if s.Len() != 2 {
		t.Fatalf("expected list untouched, got %d entries", s.Len())
	}
}

func TestPatchIsOptimisticWithoutRollback(t *testing.T) {
	m := nov9()
	s := loaded(t, m, "2025-11-09")
	m.Fail(storetest.OpUpdate, errors.New("offline"))

	if err := s.ApplyFieldPatch(context.Background(), entry.MoodPatch(mood.SuperAwesome)); err == nil {
		t.Fatalf("expected update error")
	}
	cur, _ := s.Current()
	if cur.Mood != mood.SuperAwesome {
		t.Fatalf("expected local mood kept, got %q", cur.Mood)
	}
	remote, err := m.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if remote.Mood != mood.Okay {
		t.Fatalf("remote should be unchanged, got %q", remote.Mood)
	}

	// The next load converges on the remote value.
	m.Fail(storetest.OpUpdate, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	cur, _ = s.Current()
	if cur.Mood != mood.Okay {
		t.Fatalf("expected remote mood after reload, got %q", cur.Mood)
	}
}

func TestPatchPersists(t *testing.T) {
	m := nov9()
	s := loaded(t, m, "2025-11-09")
	if err := s.ApplyFieldPatch(context.Background(), entry.TextPatch("rewritten")); err != nil {
		t.Fatalf("patch: %v", err)
	}
	remote, _ := m.Get(context.Background(), 5)
	if remote.JournalText != "rewritten" || remote.Mood != mood.Okay {
		t.Fatalf("unexpected remote entry %+v", remote)
	}
}

func TestMutationTargetsIssuedID(t *testing.T) {
	m := nov9()
	s := loaded(t, m, "2025-11-09")
	release := m.Hold(storetest.OpDelete)

	type result struct {
		emptied bool
		err     error
	}
	done := make(chan result, 1)
	go func() {
		emptied, err := s.DeleteCurrent(context.Background())
		done <- result{emptied, err}
	}()

	waitForCall(t, m, storetest.OpDelete)
	// The user pages to the older entry while the delete is in flight.
	s.SetIndex(1)
	release()

	r := <-done
	if r.err != nil || r.emptied {
		t.Fatalf("unexpected result %+v", r)
	}
	got := s.Entries()
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected id 5 removed, got %v", got)
	}
	if i, _ := s.Index(); i != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", i)
	}
}

func TestContinuationAfterCloseIsDropped(t *testing.T) {
	m := nov9()
	s := loaded(t, m, "2025-11-09")
	release := m.Hold(storetest.OpDelete)

	done := make(chan error, 1)
	go func() {
		_, err := s.DeleteCurrent(context.Background())
		done <- err
	}()
	waitForCall(t, m, storetest.OpDelete)
	s.Close()
	release()

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("closed store was mutated")
	}
	if _, err := m.Get(context.Background(), 5); err == nil {
		t.Fatalf("remote delete should still have completed")
	}
	if err := s.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected load after close to fail, got %v", err)
	}
}

func TestSetIndexBounds(t *testing.T) {
	s := loaded(t, nov9(), "2025-11-09")
	if s.SetIndex(0) {
		t.Fatalf("same index should not report a move")
	}
	if s.SetIndex(2) || s.SetIndex(-1) {
		t.Fatalf("out of range index should be ignored")
	}
	if !s.SetIndex(1) {
		t.Fatalf("expected move to 1")
	}
	if s.Position() != "Entries 2 of 2" {
		t.Fatalf("unexpected position %q", s.Position())
	}
}

func waitForCall(t *testing.T, m *storetest.Memory, op storetest.Op) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if m.Count(op) > 0 {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("%s was never called", op)
}
