// Package postgres stores mood entries in PostgreSQL and streams changes
// through LISTEN/NOTIFY, so Watch sees writes from every client.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store"
)

// Channel is the NOTIFY channel fed by the mood_entries trigger.
const Channel = "mood_entries_changes"

const schema = `
CREATE TABLE IF NOT EXISTS mood_entries (
	id           BIGSERIAL PRIMARY KEY,
	date         DATE NOT NULL,
	mood         TEXT NOT NULL,
	journal_text TEXT
);
CREATE INDEX IF NOT EXISTS mood_entries_date ON mood_entries (date);

CREATE OR REPLACE FUNCTION mood_entries_notify() RETURNS trigger AS $$
DECLARE
	r RECORD;
BEGIN
	IF TG_OP = 'DELETE' THEN
		r := OLD;
	ELSE
		r := NEW;
	END IF;
	PERFORM pg_notify('mood_entries_changes', json_build_object(
		'type', lower(TG_OP),
		'id', r.id,
		'date', to_char(r.date, 'YYYY-MM-DD'),
		'mood', CASE WHEN TG_OP = 'DELETE' THEN '' ELSE r.mood END
	)::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS mood_entries_notify ON mood_entries;
CREATE TRIGGER mood_entries_notify
	AFTER INSERT OR UPDATE OR DELETE ON mood_entries
	FOR EACH ROW EXECUTE FUNCTION mood_entries_notify();
`

const selectEntry = `SELECT id, to_char(date, 'YYYY-MM-DD'), mood, coalesce(journal_text, '') FROM mood_entries`

// Store is a store.Persistence on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Persistence = (*Store)(nil)

// Open connects to dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Pool exposes the pool for maintenance tasks and tests.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) ListByDate(ctx context.Context, date string) ([]*entry.Entry, error) {
	rows, err := s.pool.Query(ctx, selectEntry+` WHERE date = $1::date ORDER BY id DESC`, date)
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", date, err)
	}
	return collectEntries(rows)
}

func (s *Store) ListByDates(ctx context.Context, dates []string) ([]*entry.Entry, error) {
	dates = store.Dedupe(dates)
	if len(dates) == 0 {
		return []*entry.Entry{}, nil
	}
	rows, err := s.pool.Query(ctx, selectEntry+` WHERE date = ANY($1::text[]::date[]) ORDER BY id DESC`, dates)
	if err != nil {
		return nil, fmt.Errorf("postgres: list dates: %w", err)
	}
	return collectEntries(rows)
}

func (s *Store) MoodRows(ctx context.Context) ([]store.MoodRow, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, to_char(date, 'YYYY-MM-DD'), mood FROM mood_entries`)
	if err != nil {
		return nil, fmt.Errorf("postgres: mood rows: %w", err)
	}
	defer rows.Close()
	out := make([]store.MoodRow, 0)
	for rows.Next() {
		var r store.MoodRow
		var m string
		if err := rows.Scan(&r.ID, &r.Date, &m); err != nil {
			return nil, fmt.Errorf("postgres: scan mood row: %w", err)
		}
		r.Mood = mood.Mood(m)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	rows, err := s.pool.Query(ctx, selectEntry+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: get %d: %w", id, err)
	}
	list, err := collectEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, store.ErrNotFound
	}
	return list[0], nil
}

func (s *Store) Insert(ctx context.Context, e *entry.Entry) error {
	if err := store.ValidateInsert(e); err != nil {
		return err
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO mood_entries (date, mood, journal_text) VALUES ($1::date, $2, $3) RETURNING id`,
		e.Date, string(e.Mood), e.JournalText).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("postgres: insert: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, id int64, p entry.Patch) error {
	if err := store.ValidatePatch(p); err != nil {
		return err
	}
	cols, args := p.Columns()
	set := make([]string, len(cols))
	for i, c := range cols {
		cast := ""
		if c == "date" {
			cast = "::date"
		}
		set[i] = fmt.Sprintf("%s = $%d%s", c, i+1, cast)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE mood_entries SET %s WHERE id = $%d RETURNING id`, strings.Join(set, ", "), len(args))

	var got int64
	err := s.pool.QueryRow(ctx, q, args...).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres: update %d: %w", id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM mood_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// notification is the JSON payload built by mood_entries_notify().
type notification struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Mood string `json:"mood"`
}

func decodeNotification(payload string) (store.Change, error) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return store.Change{}, fmt.Errorf("postgres: decode notification: %w", err)
	}
	typ, err := store.ParseChangeType(n.Type)
	if err != nil {
		return store.Change{}, err
	}
	c := store.Change{Type: typ, Row: store.MoodRow{ID: n.ID, Date: n.Date}}
	if typ != store.ChangeDelete {
		c.Row.Mood = mood.Mood(n.Mood)
	}
	return c, nil
}

// Watch holds one pool connection in LISTEN until ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan store.Change, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: acquire listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("postgres: listen: %w", err)
	}

	log := logging.With("postgres")
	events := make(chan store.Change, 64)
	go func() {
		defer close(events)
		defer func() {
			cleanup, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if _, err := conn.Exec(cleanup, "UNLISTEN *"); err != nil {
				// Do not hand a listening connection back to the pool.
				_ = conn.Hijack().Close(cleanup)
				return
			}
			conn.Release()
		}()

		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("listener stopped", "err", err)
				}
				return
			}
			c, err := decodeNotification(n.Payload)
			if err != nil {
				log.Warn("bad notification", "payload", n.Payload, "err", err)
				continue
			}
			select {
			case events <- c:
			default:
				log.Debug("dropped change", "change", c)
			}
		}
	}()
	return events, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func collectEntries(rows pgx.Rows) ([]*entry.Entry, error) {
	defer rows.Close()
	out := make([]*entry.Entry, 0)
	for rows.Next() {
		e := &entry.Entry{}
		var m string
		if err := rows.Scan(&e.ID, &e.Date, &m, &e.JournalText); err != nil {
			return nil, fmt.Errorf("postgres: scan entry: %w", err)
		}
		e.Mood = mood.Mood(m)
		out = append(out, e)
	}
	return out, rows.Err()
}
