// Package mood defines the fixed set of moods an entry can carry.
package mood

import (
	"fmt"
	"strings"
)

// Mood is one of the five labels stored in the mood column.
type Mood string

const (
	SuperAwesome   Mood = "super awesome"
	PrettyGood     Mood = "pretty good"
	Okay           Mood = "okay"
	PrettyBad      Mood = "pretty bad"
	ReallyTerrible Mood = "really terrible"
)

// Default is the mood preselected when recording a new entry.
const Default = PrettyGood

// Glyph describes how a mood is presented in legends and calendars.
type Glyph struct {
	Mood    Mood
	Face    string
	Color   string // hex, used for calendar days and mood blocks
	Aliases []string
	Order   int
}

func (g Glyph) String() string {
	return g.Face
}

// DefaultGlyphs returns the legend in display order, happiest first.
func DefaultGlyphs() []Glyph {
	return []Glyph{{
		Mood:    SuperAwesome,
		Face:    "◉‿◉",
		Color:   "#F7A1C4",
		Aliases: []string{"awesome", "great", "5"},
		Order:   0,
	}, {
		Mood:    PrettyGood,
		Face:    "◠‿◠",
		Color:   "#FDB777",
		Aliases: []string{"good", "4"},
		Order:   1,
	}, {
		Mood:    Okay,
		Face:    "•_•",
		Color:   "#8FD3B6",
		Aliases: []string{"ok", "meh", "3"},
		Order:   2,
	}, {
		Mood:    PrettyBad,
		Face:    "◡︵◡",
		Color:   "#8DB8E8",
		Aliases: []string{"bad", "2"},
		Order:   3,
	}, {
		Mood:    ReallyTerrible,
		Face:    "ಥ︵ಥ",
		Color:   "#B39DDB",
		Aliases: []string{"terrible", "awful", "1"},
		Order:   4,
	}}
}

// All returns every mood in legend order.
func All() []Mood {
	glyphs := DefaultGlyphs()
	all := make([]Mood, 0, len(glyphs))
	for _, g := range glyphs {
		all = append(all, g.Mood)
	}
	return all
}

// Glyph returns the legend entry for m. Unknown moods get a grey placeholder.
func (m Mood) Glyph() Glyph {
	for _, g := range DefaultGlyphs() {
		if g.Mood == m {
			return g
		}
	}
	return Glyph{Mood: m, Face: "?", Color: "#D1D5DB", Order: len(DefaultGlyphs())}
}

// Valid reports whether m is one of the five known moods.
func (m Mood) Valid() bool {
	for _, g := range DefaultGlyphs() {
		if g.Mood == m {
			return true
		}
	}
	return false
}

// Low reports whether m is one of the two unhappy moods.
func (m Mood) Low() bool {
	return m == PrettyBad || m == ReallyTerrible
}

func (m Mood) String() string {
	return string(m)
}

// Parse resolves a label or alias (case-insensitive) to a Mood.
func Parse(raw string) (Mood, error) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return "", fmt.Errorf("mood: empty mood")
	}
	for _, g := range DefaultGlyphs() {
		if string(g.Mood) == needle {
			return g.Mood, nil
		}
		for _, alias := range g.Aliases {
			if alias == needle {
				return g.Mood, nil
			}
		}
	}
	return "", fmt.Errorf("mood: unknown mood %q", raw)
}

// ByOrder sorts glyphs by legend order.
type ByOrder []Glyph

func (a ByOrder) Len() int           { return len(a) }
func (a ByOrder) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ByOrder) Less(i, j int) bool { return a[i].Order < a[j].Order }
