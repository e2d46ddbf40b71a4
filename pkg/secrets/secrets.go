// Package secrets keeps credentials in the OS keyring.
package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Service is the keyring service name all secrets are filed under.
const Service = "moodlog"

// Known secret names.
const (
	AssistantKey = "assistant-api-key"
	PostgresDSN  = "postgres-dsn"
)

var (
	// ErrNotFound is returned when the keyring holds no such secret.
	ErrNotFound = errors.New("secrets: not found in keyring")
	// ErrUnavailable is returned when the OS keyring cannot be reached.
	ErrUnavailable = errors.New("secrets: OS keyring is not available")
)

// Names lists the secrets the CLI manages.
func Names() []string {
	return []string{AssistantKey, PostgresDSN}
}

// Known reports whether name is a managed secret.
func Known(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Get reads a secret.
func Get(name string) (string, error) {
	v, err := keyring.Get(Service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, nil
}

// Set stores a secret.
func Set(name, value string) error {
	if value == "" {
		return fmt.Errorf("secrets: %s cannot be empty", name)
	}
	if err := keyring.Set(Service, name, value); err != nil {
		return fmt.Errorf("secrets: store %s: %w", name, err)
	}
	return nil
}

// Delete removes a secret.
func Delete(name string) error {
	if err := keyring.Delete(Service, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("secrets: delete %s: %w", name, err)
	}
	return nil
}

// Lookup returns the first non-empty of env and the keyring value for name.
// A missing or unavailable keyring yields "".
func Lookup(env, name string) string {
	if env != "" {
		return env
	}
	v, err := Get(name)
	if err != nil {
		return ""
	}
	return v
}
