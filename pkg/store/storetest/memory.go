// Package storetest provides an in-memory Persistence and a conformance suite
// shared by the store backends.
package storetest

import (
	"context"
	"sync"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/store"
)

// Op names a Persistence method for failure injection.
type Op string

const (
	OpList      Op = "list"
	OpListDates Op = "list-dates"
	OpMoodRows  Op = "mood-rows"
	OpGet       Op = "get"
	OpInsert    Op = "insert"
	OpUpdate    Op = "update"
	OpDelete    Op = "delete"
	OpWatch     Op = "watch"
)

// Memory is an in-memory Persistence. Mutations publish Changes to watchers
// the way the sqlite backend does.
type Memory struct {
	mu     sync.Mutex
	rows   map[int64]*entry.Entry
	seq    int64
	fail   map[Op]error
	holds  map[Op]chan struct{}
	calls  []Op
	broker *store.Broadcaster
}

var _ store.Persistence = (*Memory)(nil)

// NewMemory returns an empty store. Seed entries keep their ids when set.
func NewMemory(seed ...*entry.Entry) *Memory {
	m := &Memory{
		rows:   make(map[int64]*entry.Entry),
		fail:   make(map[Op]error),
		holds:  make(map[Op]chan struct{}),
		broker: store.NewBroadcaster(),
	}
	for _, e := range seed {
		cp := e.Clone()
		if cp.ID == 0 {
			cp.ID = m.seq + 1
		}
		if cp.ID > m.seq {
			m.seq = cp.ID
		}
		m.rows[cp.ID] = cp
	}
	return m
}

// Fail makes every call of op return err until Fail(op, nil).
func (m *Memory) Fail(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, op)
		return
	}
	m.fail[op] = err
}

// Hold parks calls of op until the returned release func is called.
func (m *Memory) Hold(op Op) (release func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.holds[op] = ch
	m.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.holds[op] == ch {
				delete(m.holds, op)
			}
			m.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns the operations invoked so far, in order.
func (m *Memory) Calls() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Op(nil), m.calls...)
}

// Count returns how many times op was invoked.
func (m *Memory) Count(op Op) int {
	n := 0
	for _, c := range m.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

// enter records the call, waits out any hold, and returns the injected error.
// It returns with m.mu held.
func (m *Memory) enter(ctx context.Context, op Op) error {
	m.mu.Lock()
	m.calls = append(m.calls, op)
	hold := m.holds[op]
	m.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			m.mu.Lock()
			return ctx.Err()
		}
	}
	m.mu.Lock()
	return m.fail[op]
}

func (m *Memory) ListByDate(ctx context.Context, date string) ([]*entry.Entry, error) {
	err := m.enter(ctx, OpList)
	defer m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]*entry.Entry, 0)
	for _, e := range m.rows {
		if e.Date == date {
			out = append(out, e.Clone())
		}
	}
	store.SortNewestFirst(out)
	return out, nil
}

func (m *Memory) ListByDates(ctx context.Context, dates []string) ([]*entry.Entry, error) {
	err := m.enter(ctx, OpListDates)
	defer m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		want[d] = struct{}{}
	}
	out := make([]*entry.Entry, 0)
	for _, e := range m.rows {
		if _, ok := want[e.Date]; ok {
			out = append(out, e.Clone())
		}
	}
	store.SortNewestFirst(out)
	return out, nil
}

func (m *Memory) MoodRows(ctx context.Context) ([]store.MoodRow, error) {
	err := m.enter(ctx, OpMoodRows)
	defer m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]store.MoodRow, 0, len(m.rows))
	for _, e := range m.rows {
		out = append(out, store.RowOf(e))
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	err := m.enter(ctx, OpGet)
	defer m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	e, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e.Clone(), nil
}

func (m *Memory) Insert(ctx context.Context, e *entry.Entry) error {
	err := m.enter(ctx, OpInsert)
	defer m.mu.Unlock()
	if err != nil {
		return err
	}
	if err := store.ValidateInsert(e); err != nil {
		return err
	}
	m.seq++
	e.ID = m.seq
	m.rows[e.ID] = e.Clone()
	m.broker.Publish(store.Change{Type: store.ChangeInsert, Row: store.RowOf(e)})
	return nil
}

func (m *Memory) Update(ctx context.Context, id int64, p entry.Patch) error {
	err := m.enter(ctx, OpUpdate)
	defer m.mu.Unlock()
	if err != nil {
		return err
	}
	if err := store.ValidatePatch(p); err != nil {
		return err
	}
	e, ok := m.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	e.Apply(p)
	m.broker.Publish(store.Change{Type: store.ChangeUpdate, Row: store.RowOf(e)})
	return nil
}

func (m *Memory) Delete(ctx context.Context, id int64) error {
	err := m.enter(ctx, OpDelete)
	defer m.mu.Unlock()
	if err != nil {
		return err
	}
	e, ok := m.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	m.broker.Publish(store.Change{Type: store.ChangeDelete, Row: store.MoodRow{ID: e.ID, Date: e.Date}})
	return nil
}

func (m *Memory) Watch(ctx context.Context) (<-chan store.Change, error) {
	err := m.enter(ctx, OpWatch)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.broker.Subscribe(ctx), nil
}

// Publish injects a change as if another client had written it.
func (m *Memory) Publish(c store.Change) {
	m.broker.Publish(c)
}

func (m *Memory) Close() error {
	m.broker.Close()
	return nil
}
