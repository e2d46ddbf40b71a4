// Package entrystore holds the ordered entries of one calendar date and the
// cursor selecting the current one.
package entrystore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/store"
)

var (
	// ErrNoCurrent is returned by mutations when the list is empty.
	ErrNoCurrent = errors.New("entrystore: no current entry")
	// ErrClosed is returned when a call completes after Close.
	ErrClosed = errors.New("entrystore: closed")
)

// Remote is the part of store.Persistence a date screen uses.
type Remote interface {
	ListByDate(ctx context.Context, date string) ([]*entry.Entry, error)
	Update(ctx context.Context, id int64, p entry.Patch) error
	Delete(ctx context.Context, id int64) error
}

// Store is the per-date list. Entries are ordered newest first and the
// cursor, when the list is not empty, is always in range.
//
// Remote calls run without the lock held. Mutations act on the id of the
// entry that was current when the call was issued; overlapping calls are not
// serialised and complete in arrival order.
type Store struct {
	remote Remote
	date   string

	mu      sync.Mutex
	entries []*entry.Entry
	index   int // -1 when empty
	closed  bool
}

// New returns an empty store for date. Call Load to fill it.
func New(remote Remote, date string) *Store {
	return &Store{
		remote:  remote,
		date:    date,
		entries: []*entry.Entry{},
		index:   -1,
	}
}

// Date returns the calendar date this store lists.
func (s *Store) Date() string {
	return s.date
}

// Load replaces the list with the date's entries and moves the cursor to the
// newest. On failure the list is emptied, exactly as if the date had no
// entries, and the error is returned for logging.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.remote.ListByDate(ctx, s.date)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err != nil {
		logging.Warn("entrystore: load failed", "date", s.date, "err", err)
		list = nil
	}
	s.entries = make([]*entry.Entry, 0, len(list))
	for _, e := range list {
		s.entries = append(s.entries, e.Clone())
	}
	store.SortNewestFirst(s.entries)
	s.index = -1
	if len(s.entries) > 0 {
		s.index = 0
	}
	if err != nil {
		return fmt.Errorf("entrystore: load %s: %w", s.date, err)
	}
	return nil
}

// Entries returns a copy of the list, newest first.
func (s *Store) Entries() []*entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entry.Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Index returns the cursor, or false when the list is empty.
func (s *Store) Index() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, s.index >= 0
}

// Current returns a copy of the entry under the cursor.
func (s *Store) Current() (*entry.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return nil, false
	}
	return s.entries[s.index].Clone(), true
}

// At returns a copy of the entry at i.
func (s *Store) At(i int) (*entry.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.entries) {
		return nil, false
	}
	return s.entries[i].Clone(), true
}

// SetIndex moves the cursor. It reports whether the cursor moved; indexes
// out of range are ignored.
func (s *Store) SetIndex(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.entries) || i == s.index {
		return false
	}
	s.index = i
	return true
}

// Position renders "Entries i of N", or "" for an empty list.
func (s *Store) Position() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return ""
	}
	return fmt.Sprintf("Entries %d of %d", s.index+1, len(s.entries))
}

// ApplyFieldPatch writes p into the current entry, then persists it. A
// failed remote update is returned but the local change is kept.
func (s *Store) ApplyFieldPatch(ctx context.Context, p entry.Patch) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("entrystore: %w", err)
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.index < 0 {
		s.mu.Unlock()
		return ErrNoCurrent
	}
	cur := s.entries[s.index]
	cur.Apply(p)
	id := cur.ID
	s.mu.Unlock()

	if err := s.remote.Update(ctx, id, p); err != nil {
		logging.Error("entrystore: update failed", "id", id, "err", err)
		return fmt.Errorf("entrystore: update %d: %w", id, err)
	}
	return nil
}

// DeleteCurrent deletes the current entry remotely and, once that succeeds,
// drops it from the list. emptied reports that no entries remain and the
// caller should leave the date.
func (s *Store) DeleteCurrent(ctx context.Context) (emptied bool, err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	if s.index < 0 {
		s.mu.Unlock()
		return false, ErrNoCurrent
	}
	id := s.entries[s.index].ID
	s.mu.Unlock()

	if err := s.remote.Delete(ctx, id); err != nil {
		logging.Error("entrystore: delete failed", "id", id, "err", err)
		return false, fmt.Errorf("entrystore: delete %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			// The cursor may have moved while the delete was in flight.
			// Keep it on the same entry.
			if i < s.index {
				s.index--
			}
			break
		}
	}
	if len(s.entries) == 0 {
		s.index = -1
		return true, nil
	}
	if s.index > len(s.entries)-1 {
		s.index = len(s.entries) - 1
	}
	if s.index < 0 {
		s.index = 0
	}
	return false, nil
}

// Close marks the store as gone. Calls still in flight complete remotely but
// no longer touch the list.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
