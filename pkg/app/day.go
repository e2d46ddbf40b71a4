package app

import (
	"context"
	"fmt"

	"tableflip.dev/moodlog/pkg/editmode"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/entrystore"
	"tableflip.dev/moodlog/pkg/history"
	"tableflip.dev/moodlog/pkg/pager"
)

// Day is everything one date screen needs: the entry list, the pager that
// moves its cursor, the edit session and the history sheet. Any cursor
// change ends the edit session.
type Day struct {
	Store   *entrystore.Store
	Pager   *pager.Controller
	Edit    *editmode.Machine
	History *history.Sheet
}

// NewDay wires a Day for date without loading it.
func (s *Service) NewDay(date string, notify editmode.Notifier) (*Day, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if !entry.ValidDate(date) {
		return nil, fmt.Errorf("app: invalid date %q (want YYYY-MM-DD)", date)
	}
	st := entrystore.New(s.Persistence, date)
	pg := pager.New(st)
	em := editmode.New(st, notify)
	pg.OnChange(func(pager.Signal) { em.Reset() })
	return &Day{
		Store:   st,
		Pager:   pg,
		Edit:    em,
		History: history.New(st, pg, em.Reset),
	}, nil
}

// OpenDay wires and loads a Day. A failed load still returns the Day, which
// then shows the empty state.
func (s *Service) OpenDay(ctx context.Context, date string, notify editmode.Notifier) (*Day, error) {
	d, err := s.NewDay(date, notify)
	if err != nil {
		return nil, err
	}
	return d, d.Store.Load(ctx)
}

// Date is the calendar date shown.
func (d *Day) Date() string {
	return d.Store.Date()
}

// Title is the long-form header, e.g. "Sunday, November 9, 2025".
func (d *Day) Title() string {
	return entry.LongDate(d.Store.Date())
}

// ShowHistory reports whether the history control is offered.
func (d *Day) ShowHistory() bool {
	return d.Store.Len() > 1
}

// Empty reports whether the date has nothing to show.
func (d *Day) Empty() bool {
	return d.Store.Len() == 0
}

// EmptyText is the message shown when the date has no entries.
func (d *Day) EmptyText() string {
	return fmt.Sprintf("No entries found for %s.", d.Store.Date())
}

// Close releases the screen. Remote calls still in flight land nowhere.
func (d *Day) Close() {
	d.Edit.Reset()
	d.Store.Close()
}
