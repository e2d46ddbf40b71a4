package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/moodlog/pkg/entry"
)

// sequenceKey holds the last id handed out. It transforms to
// <base>/moodlog/sequence, outside the YYYY/MM/DD tree.
const sequenceKey = "moodlog-sequence"

// Load creates a Persistence backed by diskv using the provided config.
// Entries live at <base>/YYYY/MM/DD/<id> as JSON.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil || cfg.BasePath() == "" {
		return nil, errors.New("store: base path required")
	}
	basePath := cfg.BasePath()
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	p := &persistence{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// Files may be written by other processes; always read through.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
	}
	if err := p.seedSequence(); err != nil {
		return nil, err
	}
	return p, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string

	// mu serialises id assignment and read-modify-write updates.
	mu  sync.Mutex
	seq int64
}

func (p *persistence) seedSequence() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if raw, err := p.d.Read(sequenceKey); err == nil {
		n, perr := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
		if perr != nil {
			return fmt.Errorf("store: corrupt sequence: %w", perr)
		}
		p.seq = n
	}
	// The sequence file can lag behind entries written by hand or by an
	// older process; never hand out an id that is already on disk.
	for key := range p.d.Keys(nil) {
		if _, id, ok := parseKey(key); ok && id > p.seq {
			p.seq = id
		}
	}
	return nil
}

func (p *persistence) read(key string) (*entry.Entry, error) {
	date, id, ok := parseKey(key)
	if !ok {
		return nil, fmt.Errorf("store: not an entry key %q", key)
	}
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	e := &entry.Entry{}
	if err := json.Unmarshal(val, e); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	// The path is authoritative for identity.
	e.ID = id
	e.Date = date
	return e, nil
}

func (p *persistence) write(e *entry.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(e.Date, e.ID), data)
}

func (p *persistence) ListByDate(ctx context.Context, date string) ([]*entry.Entry, error) {
	if !entry.ValidDate(date) {
		return nil, fmt.Errorf("store: invalid date %q", date)
	}
	if !p.dateDirExists(date) {
		return []*entry.Entry{}, nil
	}
	all := make([]*entry.Entry, 0)
	for key := range p.d.KeysPrefix(date+"-", ctx.Done()) {
		if _, _, ok := parseKey(key); !ok {
			continue
		}
		e, err := p.read(key)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		all = append(all, e)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	SortNewestFirst(all)
	return all, nil
}

func (p *persistence) ListByDates(ctx context.Context, dates []string) ([]*entry.Entry, error) {
	all := make([]*entry.Entry, 0)
	for _, date := range Dedupe(dates) {
		list, err := p.ListByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}
	SortNewestFirst(all)
	return all, nil
}

func (p *persistence) MoodRows(ctx context.Context) ([]MoodRow, error) {
	rows := make([]MoodRow, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if _, _, ok := parseKey(key); !ok {
			continue
		}
		e, err := p.read(key)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		rows = append(rows, RowOf(e))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *persistence) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	key, err := p.keyFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.read(key)
}

func (p *persistence) Insert(ctx context.Context, e *entry.Entry) error {
	if err := ValidateInsert(e); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.seq + 1
	if err := p.d.Write(sequenceKey, []byte(strconv.FormatInt(next, 10))); err != nil {
		return fmt.Errorf("store: advance sequence: %w", err)
	}
	p.seq = next
	e.ID = next
	if err := p.write(e); err != nil {
		return fmt.Errorf("store: insert: %w", err)
	}
	return nil
}

func (p *persistence) Update(ctx context.Context, id int64, patch entry.Patch) error {
	if err := ValidatePatch(patch); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	key, err := p.keyFor(ctx, id)
	if err != nil {
		return err
	}
	e, err := p.read(key)
	if err != nil {
		return err
	}
	e.Apply(patch)
	if err := p.write(e); err != nil {
		return fmt.Errorf("store: update: %w", err)
	}
	if newKey := toKey(e.Date, e.ID); newKey != key {
		if err := p.d.Erase(key); err != nil {
			return fmt.Errorf("store: move: %w", err)
		}
	}
	return nil
}

func (p *persistence) Delete(ctx context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, err := p.keyFor(ctx, id)
	if err != nil {
		return err
	}
	if err := p.d.Erase(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("store: delete: %w", err)
	}
	return nil
}

func (p *persistence) Close() error {
	return nil
}

// keyFor scans for the key holding id. Ids are unique across dates.
func (p *persistence) keyFor(ctx context.Context, id int64) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	suffix := "-" + strconv.FormatInt(id, 10)
	for key := range p.d.Keys(ctx.Done()) {
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		if _, kid, ok := parseKey(key); ok && kid == id {
			return key, nil
		}
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return "", err
	}
	return "", ErrNotFound
}

func (p *persistence) dateDirExists(date string) bool {
	info, err := os.Stat(filepath.Join(append([]string{p.basePath}, strings.Split(date, "-")...)...))
	return err == nil && info.IsDir()
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `YYYY-MM-DD-id`.
func toKey(date string, id int64) string {
	return fmt.Sprintf("%s-%d", date, id)
}

// parseKey splits `YYYY-MM-DD-id`, rejecting anything else stored under base.
func parseKey(key string) (string, int64, bool) {
	i := strings.LastIndex(key, "-")
	if i < 0 {
		return "", 0, false
	}
	date, rawID := key[:i], key[i+1:]
	if !entry.ValidDate(date) {
		return "", 0, false
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return date, id, true
}
