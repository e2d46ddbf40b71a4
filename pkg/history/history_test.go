package history

import (
	"context"
	"strings"
	"testing"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/entrystore"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/pager"
	"tableflip.dev/moodlog/pkg/store/storetest"
)

func newSheet(t *testing.T) (*Sheet, *entrystore.Store, *int) {
	t.Helper()
	remote := storetest.NewMemory(
		&entry.Entry{ID: 1, Date: "2025-11-09", Mood: mood.ReallyTerrible, JournalText: strings.Repeat("long ", 20)},
		&entry.Entry{ID: 2, Date: "2025-11-09", Mood: mood.PrettyBad},
		&entry.Entry{ID: 3, Date: "2025-11-09", Mood: mood.Okay, JournalText: "fine"},
	)
	s := entrystore.New(remote, "2025-11-09")
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	resets := 0
	return New(s, pager.New(s), func() { resets++ }), s, &resets
}

func TestRows(t *testing.T) {
	sheet, _, _ := newSheet(t)
	rows := sheet.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	want := []string{"Latest", "Mood #1", "Mood #2"}
	for i, r := range rows {
		if r.Label != want[i] {
			t.Fatalf("row %d label %q, want %q", i, r.Label, want[i])
		}
	}
	if !rows[0].Current || rows[1].Current {
		t.Fatalf("expected only the first row current")
	}
	if rows[0].Mood != mood.Okay || rows[0].Preview != "fine" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if !strings.HasSuffix(rows[2].Preview, "…") || len([]rune(rows[2].Preview)) != 60 {
		t.Fatalf("expected truncated preview, got %q", rows[2].Preview)
	}
	if sheet.Title() != "Entries for Sunday, November 9, 2025" {
		t.Fatalf("unexpected title %q", sheet.Title())
	}
}

func TestSelectMovesCursor(t *testing.T) {
	sheet, store, resets := newSheet(t)
	if !sheet.Select(2) {
		t.Fatalf("expected select to succeed")
	}
	if i, _ := store.Index(); i != 2 {
		t.Fatalf("expected cursor 2, got %d", i)
	}
	if !sheet.Rows()[2].Current {
		t.Fatalf("sheet does not reflect the new cursor")
	}
	if *resets != 1 {
		t.Fatalf("expected one reset, got %d", *resets)
	}

	// Choosing the row that is already current still ends the edit session.
	sheet.Select(2)
	if *resets != 2 {
		t.Fatalf("expected reset on reselect, got %d", *resets)
	}
	if sheet.Select(3) {
		t.Fatalf("out of range select should fail")
	}
}

func TestRowsFollowDeletes(t *testing.T) {
	sheet, store, _ := newSheet(t)
	if _, err := store.DeleteCurrent(context.Background()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows := sheet.Rows()
	if len(rows) != 2 || rows[0].ID != 2 || rows[0].Label != "Latest" {
		t.Fatalf("sheet did not follow the store: %+v", rows)
	}
}
