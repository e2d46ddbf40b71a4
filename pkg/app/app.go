package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/moodlog/pkg/config"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/logging"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/moodindex"
	"tableflip.dev/moodlog/pkg/store"
	"tableflip.dev/moodlog/pkg/store/postgres"
	"tableflip.dev/moodlog/pkg/store/sqlite"
)

// Service provides high-level operations over mood entries.
// It wraps persistence so the TUI and the CLI share logic.
type Service struct {
	Persistence store.Persistence
}

var errNoPersistence = errors.New("app: no persistence configured")

// OpenPersistence opens the backend named by cfg.
func OpenPersistence(ctx context.Context, cfg *config.Config) (store.Persistence, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	logging.Debug("app: opening persistence", "backend", cfg.Backend, "path", cfg.Path)
	switch cfg.Backend {
	case config.BackendDisk, "":
		return store.Load(cfg)
	case config.BackendSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath())
	case config.BackendPostgres:
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, errors.New("app: postgres backend needs a dsn (MOODLOG_DSN or `moodlog secret set postgres-dsn`)")
		}
		return postgres.Open(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("app: unknown backend %q", cfg.Backend)
	}
}

// Record stores a new entry. An empty date means today and an empty mood
// means mood.Default.
func (s *Service) Record(ctx context.Context, date string, m mood.Mood, text string) (*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if date == "" {
		date = entry.Today()
	}
	if m == "" {
		m = mood.Default
	}
	e := entry.New(date, m, text)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.Persistence.Insert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Entries lists the entries for date, newest first.
func (s *Service) Entries(ctx context.Context, date string) ([]*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if !entry.ValidDate(date) {
		return nil, fmt.Errorf("app: invalid date %q (want YYYY-MM-DD)", date)
	}
	return s.Persistence.ListByDate(ctx, date)
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Get(ctx, id)
}

// Edit replaces the journal text of the entry with the given id.
func (s *Service) Edit(ctx context.Context, id int64, text string) (*entry.Entry, error) {
	return s.patch(ctx, id, entry.TextPatch(text))
}

// SetMood changes the mood of the entry with the given id.
func (s *Service) SetMood(ctx context.Context, id int64, m mood.Mood) (*entry.Entry, error) {
	return s.patch(ctx, id, entry.MoodPatch(m))
}

func (s *Service) patch(ctx context.Context, id int64, p entry.Patch) (*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.Persistence.Update(ctx, id, p); err != nil {
		return nil, err
	}
	return s.Persistence.Get(ctx, id)
}

// Delete removes an entry permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	return s.Persistence.Delete(ctx, id)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Change, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Moods returns a hydrated mood index. A failed hydrate still returns the
// (empty) index along with the error.
func (s *Service) Moods(ctx context.Context) (*moodindex.Cache, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	idx := moodindex.New(s.Persistence)
	return idx, idx.Hydrate(ctx)
}
