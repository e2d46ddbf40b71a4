package entry

import (
	"strings"
	"testing"
	"time"

	"tableflip.dev/moodlog/pkg/mood"
)

func TestValidate(t *testing.T) {
	if err := New("2025-11-09", mood.Okay, "").Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := New("2025-11-9", mood.Okay, "").Validate(); err == nil {
		t.Fatalf("expected error for non-canonical date")
	}
	if err := New("2025-11-09", mood.Mood("meh"), "").Validate(); err == nil {
		t.Fatalf("expected error for unknown mood")
	}
}

func TestApplyPatch(t *testing.T) {
	e := New("2025-11-09", mood.Okay, "first")
	e.Apply(MoodPatch(mood.PrettyBad))
	if e.Mood != mood.PrettyBad || e.JournalText != "first" {
		t.Fatalf("mood patch applied incorrectly: %+v", e)
	}
	e.Apply(TextPatch(""))
	if e.JournalText != "" {
		t.Fatalf("expected empty text, got %q", e.JournalText)
	}
	e.Apply(DatePatch("2025-11-10"))
	if e.Date != "2025-11-10" {
		t.Fatalf("expected moved date, got %q", e.Date)
	}
}

func TestPatchColumnsAndValidate(t *testing.T) {
	p := Patch{}
	if err := p.Validate(); err == nil {
		t.Fatalf("expected empty patch to be rejected")
	}
	m := mood.Okay
	text := "hi"
	p = Patch{Mood: &m, JournalText: &text}
	cols, vals := p.Columns()
	if strings.Join(cols, ",") != "mood,journal_text" {
		t.Fatalf("unexpected columns %v", cols)
	}
	if vals[0] != "okay" || vals[1] != "hi" {
		t.Fatalf("unexpected values %v", vals)
	}
	if !p.TouchesIndex() {
		t.Fatalf("mood patch should touch the index")
	}
	if TextPatch("x").TouchesIndex() {
		t.Fatalf("text patch should not touch the index")
	}
	bad := mood.Mood("nope")
	if err := (Patch{Mood: &bad}).Validate(); err == nil {
		t.Fatalf("expected invalid mood to be rejected")
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("", 60); got != "" {
		t.Fatalf("expected empty preview, got %q", got)
	}
	short := "a short day"
	if got := Preview(short, 60); got != short {
		t.Fatalf("expected untouched preview, got %q", got)
	}
	long := strings.Repeat("x", 80)
	got := Preview(long, 60)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if n := len([]rune(got)); n != 60 {
		t.Fatalf("expected 60 runes, got %d", n)
	}
	if got := Preview("line one\nline two", 60); got != "line one line two" {
		t.Fatalf("expected flattened preview, got %q", got)
	}
}

func TestLongDate(t *testing.T) {
	if got := LongDate("2025-11-09"); got != "Sunday, November 9, 2025" {
		t.Fatalf("unexpected long date %q", got)
	}
	if got := LongDate("garbage"); got != "garbage" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestSameMonth(t *testing.T) {
	then := time.Date(2025, time.November, 20, 0, 0, 0, 0, time.Local)
	if !SameMonth("2025-11-01", then) {
		t.Fatalf("expected same month")
	}
	if SameMonth("2025-10-31", then) {
		t.Fatalf("expected different month")
	}
}
