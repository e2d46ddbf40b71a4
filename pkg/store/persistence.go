// Package store defines the mood_entries persistence contract and its
// default diskv backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
)

// ErrNotFound is returned when no entry has the requested id.
var ErrNotFound = errors.New("store: entry not found")

// Persistence is the remote collection of mood entries.
type Persistence interface {
	// ListByDate returns the entries dated date, newest (highest id) first.
	ListByDate(ctx context.Context, date string) ([]*entry.Entry, error)
	// ListByDates returns the entries whose date is in dates, newest first.
	ListByDates(ctx context.Context, dates []string) ([]*entry.Entry, error)
	// MoodRows returns the (date, mood, id) projection of every entry.
	MoodRows(ctx context.Context) ([]MoodRow, error)
	Get(ctx context.Context, id int64) (*entry.Entry, error)
	// Insert stores e and assigns it the next id.
	Insert(ctx context.Context, e *entry.Entry) error
	Update(ctx context.Context, id int64, p entry.Patch) error
	Delete(ctx context.Context, id int64) error
	// Watch streams change events until ctx is cancelled. The channel is
	// closed once ctx is done or the watcher cannot continue. Slow readers
	// miss events rather than block the producer.
	Watch(ctx context.Context) (<-chan Change, error)
	Close() error
}

// MoodRow is the slice of an entry the calendar index needs.
type MoodRow struct {
	ID   int64     `json:"id"`
	Date string    `json:"date"`
	Mood mood.Mood `json:"mood,omitempty"`
}

// ChangeType describes the nature of a change notification.
type ChangeType int

const (
	ChangeInsert ChangeType = iota
	ChangeUpdate
	ChangeDelete
)

func (t ChangeType) String() string {
	switch t {
	case ChangeInsert:
		return "insert"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	}
	return fmt.Sprintf("ChangeType(%d)", int(t))
}

// ParseChangeType maps the lower-case names back to a ChangeType.
func ParseChangeType(s string) (ChangeType, error) {
	switch s {
	case "insert", "INSERT":
		return ChangeInsert, nil
	case "update", "UPDATE":
		return ChangeUpdate, nil
	case "delete", "DELETE":
		return ChangeDelete, nil
	}
	return 0, fmt.Errorf("store: unknown change type %q", s)
}

// Change is emitted by Persistence.Watch. Row.Mood is empty for deletes.
type Change struct {
	Type ChangeType
	Row  MoodRow
}

func (c Change) String() string {
	if c.Type == ChangeDelete {
		return fmt.Sprintf("%s #%d %s", c.Type, c.Row.ID, c.Row.Date)
	}
	return fmt.Sprintf("%s #%d %s %s", c.Type, c.Row.ID, c.Row.Date, c.Row.Mood)
}

// RowOf projects an entry to its MoodRow.
func RowOf(e *entry.Entry) MoodRow {
	return MoodRow{ID: e.ID, Date: e.Date, Mood: e.Mood}
}

// SortNewestFirst orders entries by id, descending.
func SortNewestFirst(entries []*entry.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ID > entries[j].ID
	})
}

// ValidateInsert checks an entry before it is handed to a backend.
func ValidateInsert(e *entry.Entry) error {
	if e == nil {
		return errors.New("store: nil entry")
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// ValidatePatch checks a patch before it is handed to a backend.
func ValidatePatch(p entry.Patch) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Dedupe returns dates without repeats, keeping first-seen order.
func Dedupe(dates []string) []string {
	seen := make(map[string]struct{}, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
