package postgres

import (
	"context"
	"os"
	"testing"

	"tableflip.dev/moodlog/pkg/store"
	"tableflip.dev/moodlog/pkg/store/storetest"
)

func TestDecodeNotification(t *testing.T) {
	c, err := decodeNotification(`{"type":"insert","id":5,"date":"2025-11-09","mood":"okay"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Type != store.ChangeInsert || c.Row.ID != 5 || c.Row.Date != "2025-11-09" || c.Row.Mood != "okay" {
		t.Fatalf("unexpected change %+v", c)
	}

	c, err = decodeNotification(`{"type":"delete","id":3,"date":"2025-11-09","mood":"pretty bad"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Type != store.ChangeDelete || c.Row.Mood != "" {
		t.Fatalf("deletes should carry no mood, got %+v", c)
	}

	if _, err := decodeNotification(`{"type":"truncate"}`); err == nil {
		t.Fatalf("expected unknown type to fail")
	}
	if _, err := decodeNotification(`not json`); err == nil {
		t.Fatalf("expected bad payload to fail")
	}
}

// TestConformance runs against a real server when MOODLOG_POSTGRES_TEST_URL
// points at a disposable database.
func TestConformance(t *testing.T) {
	dsn := os.Getenv("MOODLOG_POSTGRES_TEST_URL")
	if dsn == "" {
		t.Skip("MOODLOG_POSTGRES_TEST_URL not set")
	}
	storetest.Run(t, func(t *testing.T) store.Persistence {
		ctx := context.Background()
		s, err := Open(ctx, dsn)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if _, err := s.Pool().Exec(ctx, `TRUNCATE mood_entries RESTART IDENTITY`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return s
	})
}
