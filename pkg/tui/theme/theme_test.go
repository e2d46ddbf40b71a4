package theme

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/moodlog/pkg/mood"
)

func TestMoodColors(t *testing.T) {
	th := New(true)
	for _, g := range mood.DefaultGlyphs() {
		c, ok := colorful.MakeColor(th.MoodColor(g.Mood))
		if !ok {
			t.Fatalf("%s: color not convertible", g.Mood)
		}
		want, err := colorful.Hex(g.Color)
		if err != nil {
			t.Fatalf("%s: bad legend color %q: %v", g.Mood, g.Color, err)
		}
		if c.Hex() != want.Hex() {
			t.Fatalf("%s: expected %s, got %s", g.Mood, g.Color, c.Hex())
		}
	}
}

func TestDimmedSitsBetweenMoodAndBackground(t *testing.T) {
	th := New(true)
	base, err := colorful.Hex("#F7A1C4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dim, ok := colorful.MakeColor(th.Dimmed(mood.SuperAwesome))
	if !ok {
		t.Fatalf("dimmed color not convertible")
	}
	l1, _, _ := base.Lab()
	l2, _, _ := dim.Lab()
	if l2 >= l1 {
		t.Fatalf("expected dimmed color darker on dark theme: %v >= %v", l2, l1)
	}
}
