// Package flags is a small durable key/value store for UI flags, and the
// once-a-day support prompt gate built on it.
package flags

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Store keeps one file per flag under a directory.
type Store struct {
	d *diskv.Diskv
}

// Open returns a flag store rooted at dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("flags: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("flags: ensure directory: %w", err)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: 64 * 1024,
	})}, nil
}

// Get returns the value of key and whether it is set.
func (s *Store) Get(key string) (string, bool, error) {
	if !keyPattern.MatchString(key) {
		return "", false, fmt.Errorf("flags: invalid key %q", key)
	}
	if !s.d.Has(key) {
		return "", false, nil
	}
	v, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("flags: read %s: %w", key, err)
	}
	return strings.TrimSpace(string(v)), true, nil
}

// Set writes key.
func (s *Store) Set(key, value string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("flags: invalid key %q", key)
	}
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("flags: write %s: %w", key, err)
	}
	return nil
}

// Clear removes key. Clearing an unset key is not an error.
func (s *Store) Clear(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}
