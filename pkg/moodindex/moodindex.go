// Package moodindex keeps the process-wide date to mood summary that colors
// the calendar.
//
// The index is rebuilt in full by Hydrate and patched by Apply from the
// store's change stream. The two paths have different guarantees:
//
//   - After Hydrate, Mood(d) is the mood of the highest-id entry dated d.
//   - Apply on insert or update sets the row's date to the row's mood without
//     comparing ids, so a late event for an older entry wins.
//   - Apply on delete removes the date outright, even if other entries for
//     that date remain. The next Hydrate repairs it.
//
// Callers that need the exact per-date summary should Hydrate again, which
// the calendar does every time it regains focus.
package moodindex

import (
	"context"
	"sort"
	"sync"
	"time"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store"
)

// Source is the part of store.Persistence the index reads.
type Source interface {
	MoodRows(ctx context.Context) ([]store.MoodRow, error)
	Watch(ctx context.Context) (<-chan store.Change, error)
}

// Cache maps calendar dates to moods. Change delivery happens on its own
// goroutine, so reads and writes are guarded.
type Cache struct {
	src Source

	mu     sync.RWMutex
	byDate map[string]mood.Mood
	// While a hydrate is fetching, applied changes are also kept here and
	// replayed over the fetched rows, which may predate them.
	hydrating int
	pending   []store.Change
}

// New returns an empty cache over src.
func New(src Source) *Cache {
	return &Cache{
		src:    src,
		byDate: make(map[string]mood.Mood),
	}
}

// Hydrate rebuilds the index from every row, keeping the max-id row per date.
// A failed fetch leaves the index empty and returns the error.
func (c *Cache) Hydrate(ctx context.Context) error {
	c.mu.Lock()
	c.hydrating++
	mark := len(c.pending)
	c.mu.Unlock()

	rows, err := c.src.MoodRows(ctx)
	if err != nil {
		logging.Warn("moodindex: hydrate failed", "err", err)
		rows = nil
	}
	next := Reduce(rows)

	c.mu.Lock()
	for _, ch := range c.pending[mark:] {
		apply(next, ch)
	}
	c.hydrating--
	if c.hydrating == 0 {
		c.pending = nil
	}
	c.byDate = next
	c.mu.Unlock()
	return err
}

// Reduce keeps, for each date, the mood of the row with the greatest id.
func Reduce(rows []store.MoodRow) map[string]mood.Mood {
	best := make(map[string]store.MoodRow, len(rows))
	for _, r := range rows {
		if cur, ok := best[r.Date]; !ok || r.ID > cur.ID {
			best[r.Date] = r
		}
	}
	out := make(map[string]mood.Mood, len(best))
	for d, r := range best {
		out[d] = r.Mood
	}
	return out
}

// Apply folds one change event into the index.
func (c *Cache) Apply(ch store.Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hydrating > 0 {
		c.pending = append(c.pending, ch)
	}
	apply(c.byDate, ch)
}

func apply(byDate map[string]mood.Mood, ch store.Change) {
	switch ch.Type {
	case store.ChangeInsert, store.ChangeUpdate:
		byDate[ch.Row.Date] = ch.Row.Mood
	case store.ChangeDelete:
		delete(byDate, ch.Row.Date)
	}
}

// Mood returns the cached mood for date.
func (c *Cache) Mood(date string) (mood.Mood, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byDate[date]
	return m, ok
}

// Len returns the number of dates with a mood.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byDate)
}

// Snapshot returns a copy of the index.
func (c *Cache) Snapshot() map[string]mood.Mood {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]mood.Mood, len(c.byDate))
	for d, m := range c.byDate {
		out[d] = m
	}
	return out
}

// Day is one cached date of a month.
type Day struct {
	Date string
	Mood mood.Mood
}

// Month returns the cached days of the given month in date order.
func (c *Cache) Month(year int, month time.Month) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Day, 0)
	for d, m := range c.byDate {
		if entry.SameMonth(d, first) {
			out = append(out, Day{Date: d, Mood: m})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
