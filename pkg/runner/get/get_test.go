package get

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store/storetest"
)

func seeded() *app.Service {
	a := entry.New("2025-11-09", mood.PrettyBad, "rough start")
	a.ID = 3
	b := entry.New("2025-11-09", mood.Okay, "better by lunch")
	b.ID = 5
	return &app.Service{Persistence: storetest.NewMemory(a, b)}
}

func TestGetDateJSON(t *testing.T) {
	var out bytes.Buffer
	g := Get{Date: "2025-11-09", JSON: true, Service: seeded(), Out: &out}
	if err := g.Do(context.Background()); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	var got []entry.Entry
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("bad json %q: %v", out.String(), err)
	}
	if len(got) != 2 || got[0].ID != 5 || got[1].ID != 3 {
		t.Fatalf("want ids [5 3], got %+v", got)
	}
}

func TestGetByID(t *testing.T) {
	var out bytes.Buffer
	g := Get{ID: 3, Service: seeded(), Out: &out}
	if err := g.Do(context.Background()); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if !strings.Contains(out.String(), "rough start") {
		t.Fatalf("entry text missing:\n%s", out.String())
	}
}

func TestGetMissingID(t *testing.T) {
	g := Get{ID: 42, Service: seeded(), Out: &bytes.Buffer{}}
	if err := g.Do(context.Background()); err == nil {
		t.Fatalf("expected error for missing id")
	}
}
