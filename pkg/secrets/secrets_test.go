package secrets

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetGetDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(AssistantKey, "sk-test"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, err := Get(AssistantKey)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "sk-test" {
		t.Fatalf("Get() = %q, want sk-test", got)
	}
	if err := Delete(AssistantKey); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(AssistantKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := Delete(AssistantKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := Set(PostgresDSN, ""); err == nil {
		t.Fatalf("Set() with empty value should fail")
	}
}

func TestLookupPrefersEnv(t *testing.T) {
	gokeyring.MockInit()
	_ = Set(AssistantKey, "from-keyring")

	if got := Lookup("from-env", AssistantKey); got != "from-env" {
		t.Fatalf("Lookup() = %q, want from-env", got)
	}
	if got := Lookup("", AssistantKey); got != "from-keyring" {
		t.Fatalf("Lookup() = %q, want from-keyring", got)
	}
	if got := Lookup("", PostgresDSN); got != "" {
		t.Fatalf("Lookup() = %q, want empty", got)
	}
}

func TestKnown(t *testing.T) {
	if !Known(PostgresDSN) || Known("nope") {
		t.Fatalf("unexpected Known() results")
	}
}
