package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/logging"
)

// Watch streams entry changes until ctx is cancelled. Callers should drain the
// returned channel; events are dropped when the reader is not ready.
func (p *persistence) Watch(ctx context.Context) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	log := logging.With("store")
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				log.Warn("watcher close", "err", err)
			}
		})
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Change, 64)
	var sendMu sync.Mutex
	done := false

	go func() {
		// Track directories we already watch so new date buckets can be added
		// at runtime without duplicating watches.
		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(c Change) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if done {
				return
			}
			select {
			case events <- c:
			default:
				log.Debug("dropped change", "change", c)
			}
		}

		throttle := newChangeThrottle(100*time.Millisecond, p.resolve, send)
		defer func() {
			throttle.Stop()
			closeWatcher()
			sendMu.Lock()
			done = true
			close(events)
			sendMu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", "err", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						// A new date bucket. Files may already be inside it by
						// the time the watch attaches, so walk it too.
						p.adopt(watcher, filepath.Clean(evt.Name), watched, throttle)
						continue
					}
				}

				if _, _, ok := p.entryForPath(evt.Name); !ok {
					continue
				}
				throttle.Enqueue(evt.Name, evt.Op)
			}
		}
	}()

	return events, nil
}

// adopt watches dir and every directory below it, and reports the entry
// files already present as creations.
func (p *persistence) adopt(watcher *fsnotify.Watcher, dir string, watched map[string]struct{}, throttle *changeThrottle) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			path = filepath.Clean(path)
			if _, found := watched[path]; !found {
				if err := watcher.Add(path); err != nil {
					return err
				}
				watched[path] = struct{}{}
			}
			return nil
		}
		if _, _, ok := p.entryForPath(path); ok {
			throttle.Enqueue(path, fsnotify.Create)
		}
		return nil
	})
	if err != nil {
		logging.Warn("store: watch new directory", "dir", dir, "err", err)
	}
}

// resolve turns the ops accumulated for one file into a Change.
func (p *persistence) resolve(path string, op fsnotify.Op) (Change, bool) {
	date, id, ok := p.entryForPath(path)
	if !ok {
		return Change{}, false
	}
	e, err := p.read(toKey(date, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Change{Type: ChangeDelete, Row: MoodRow{ID: id, Date: date}}, true
		}
		// Partially written files decode badly; the completing write
		// produces another event.
		logging.Debug("store: unreadable entry", "path", path, "err", err)
		return Change{}, false
	}
	typ := ChangeUpdate
	if op&fsnotify.Create == fsnotify.Create {
		typ = ChangeInsert
	} else if op&(fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		// chmod only
		return Change{}, false
	}
	return Change{Type: typ, Row: RowOf(e)}, true
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// entryForPath derives date and id from <base>/YYYY/MM/DD/<id>.
func (p *persistence) entryForPath(path string) (string, int64, bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil {
		return "", 0, false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) != 4 {
		return "", 0, false
	}
	date := strings.Join(parts[:3], "-")
	if !entry.ValidDate(date) {
		return "", 0, false
	}
	id, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return date, id, true
}

// changeThrottle coalesces the burst of filesystem events one write produces
// into a single Change per file.
type changeThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]fsnotify.Op
	order   []string
	delay   time.Duration
	resolve func(string, fsnotify.Op) (Change, bool)
	send    func(Change)
}

func newChangeThrottle(delay time.Duration, resolve func(string, fsnotify.Op) (Change, bool), send func(Change)) *changeThrottle {
	return &changeThrottle{
		delay:   delay,
		pending: make(map[string]fsnotify.Op),
		resolve: resolve,
		send:    send,
	}
}

func (t *changeThrottle) Enqueue(path string, op fsnotify.Op) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.pending[path]; !ok {
		t.order = append(t.order, path)
	}
	t.pending[path] |= op

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
}

func (t *changeThrottle) flush() {
	t.mu.Lock()
	pending := t.pending
	order := t.order
	t.pending = make(map[string]fsnotify.Op)
	t.order = nil
	t.timer = nil
	t.mu.Unlock()

	for _, path := range order {
		if c, ok := t.resolve(path, pending[path]); ok {
			t.send(c)
		}
	}
}

func (t *changeThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
