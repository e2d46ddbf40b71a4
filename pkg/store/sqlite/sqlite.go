// Package sqlite stores mood entries in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS mood_entries (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	date         TEXT NOT NULL,
	mood         TEXT NOT NULL,
	journal_text TEXT
);
CREATE INDEX IF NOT EXISTS mood_entries_date ON mood_entries (date);
`

// Store is a store.Persistence on SQLite. Changes are published in-process,
// so Watch only sees writes made through this Store.
type Store struct {
	path   string
	db     *sql.DB
	broker *store.Broadcaster
}

var _ store.Persistence = (*Store)(nil)

// Open creates or opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("sqlite: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{path: path, db: db, broker: store.NewBroadcaster()}, nil
}

func (s *Store) ListByDate(ctx context.Context, date string) ([]*entry.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, mood, journal_text FROM mood_entries WHERE date = ? ORDER BY id DESC`, date)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", date, err)
	}
	return scanEntries(rows)
}

func (s *Store) ListByDates(ctx context.Context, dates []string) ([]*entry.Entry, error) {
	dates = store.Dedupe(dates)
	if len(dates) == 0 {
		return []*entry.Entry{}, nil
	}
	args := make([]any, len(dates))
	for i, d := range dates {
		args[i] = d
	}
	q := `SELECT id, date, mood, journal_text FROM mood_entries WHERE date IN (` +
		strings.TrimSuffix(strings.Repeat("?,", len(dates)), ",") + `) ORDER BY id DESC`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list dates: %w", err)
	}
	return scanEntries(rows)
}

func (s *Store) MoodRows(ctx context.Context) ([]store.MoodRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, mood FROM mood_entries`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: mood rows: %w", err)
	}
	defer rows.Close()
	out := make([]store.MoodRow, 0)
	for rows.Next() {
		var r store.MoodRow
		var m string
		if err := rows.Scan(&r.ID, &r.Date, &m); err != nil {
			return nil, fmt.Errorf("sqlite: scan mood row: %w", err)
		}
		r.Mood = mood.Mood(m)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, mood, journal_text FROM mood_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %d: %w", id, err)
	}
	return e, nil
}

func (s *Store) Insert(ctx context.Context, e *entry.Entry) error {
	if err := store.ValidateInsert(e); err != nil {
		return err
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO mood_entries (date, mood, journal_text) VALUES (?, ?, ?) RETURNING id`,
		e.Date, string(e.Mood), e.JournalText).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("sqlite: insert: %w", err)
	}
	s.broker.Publish(store.Change{Type: store.ChangeInsert, Row: store.RowOf(e)})
	return nil
}

func (s *Store) Update(ctx context.Context, id int64, p entry.Patch) error {
	if err := store.ValidatePatch(p); err != nil {
		return err
	}
	cols, args := p.Columns()
	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = c + " = ?"
	}
	args = append(args, id)
	q := `UPDATE mood_entries SET ` + strings.Join(set, ", ") + ` WHERE id = ? RETURNING id, date, mood`

	var r store.MoodRow
	var m string
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&r.ID, &r.Date, &m)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("sqlite: update %d: %w", id, err)
	}
	r.Mood = mood.Mood(m)
	s.broker.Publish(store.Change{Type: store.ChangeUpdate, Row: r})
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	var date string
	err := s.db.QueryRowContext(ctx, `DELETE FROM mood_entries WHERE id = ? RETURNING date`, id).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("sqlite: delete %d: %w", id, err)
	}
	s.broker.Publish(store.Change{Type: store.ChangeDelete, Row: store.MoodRow{ID: id, Date: date}})
	return nil
}

func (s *Store) Watch(ctx context.Context) (<-chan store.Change, error) {
	return s.broker.Subscribe(ctx), nil
}

func (s *Store) Close() error {
	s.broker.Close()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*entry.Entry, error) {
	e := &entry.Entry{}
	var m string
	var text sql.NullString
	if err := row.Scan(&e.ID, &e.Date, &m, &text); err != nil {
		return nil, err
	}
	e.Mood = mood.Mood(m)
	e.JournalText = text.String
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]*entry.Entry, error) {
	defer rows.Close()
	out := make([]*entry.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
