// Package entry holds the dated mood/journal record and the patches applied to it.
package entry

import (
	"errors"
	"fmt"
	"strconv"

	"tableflip.dev/moodlog/pkg/mood"
)

// Entry is one row of the mood_entries collection.
type Entry struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Mood        mood.Mood `json:"mood"`
	JournalText string    `json:"journal_text,omitempty"`
}

// New returns an unsaved entry. The store assigns the id on insert.
func New(date string, m mood.Mood, text string) *Entry {
	return &Entry{
		Date:        date,
		Mood:        m,
		JournalText: text,
	}
}

// Validate checks the date format and mood enumeration.
func (e *Entry) Validate() error {
	if e == nil {
		return errors.New("entry: nil entry")
	}
	if !ValidDate(e.Date) {
		return fmt.Errorf("entry: invalid date %q", e.Date)
	}
	if !e.Mood.Valid() {
		return fmt.Errorf("entry: invalid mood %q", e.Mood)
	}
	return nil
}

// Clone returns a copy that shares no memory with e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// Apply writes the non-nil fields of p into e.
func (e *Entry) Apply(p Patch) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.JournalText != nil {
		e.JournalText = *p.JournalText
	}
}

// Row returns the id, mood and preview columns used by table printers.
func (e *Entry) Row() (string, string, string) {
	return strconv.FormatInt(e.ID, 10), e.Mood.String(), Preview(e.JournalText, DefaultPreviewWidth)
}

func (e *Entry) String() string {
	return fmt.Sprintf("#%d %s %s  %s", e.ID, e.Date, e.Mood.Glyph().Face, e.Mood)
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Date        *string    `json:"date,omitempty"`
	Mood        *mood.Mood `json:"mood,omitempty"`
	JournalText *string    `json:"journal_text,omitempty"`
}

// TextPatch replaces the journal text.
func TextPatch(text string) Patch {
	return Patch{JournalText: &text}
}

// MoodPatch replaces the mood.
func MoodPatch(m mood.Mood) Patch {
	return Patch{Mood: &m}
}

// DatePatch moves the entry to another date.
func DatePatch(date string) Patch {
	return Patch{Date: &date}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Date == nil && p.Mood == nil && p.JournalText == nil
}

// Validate rejects malformed dates and unknown moods.
func (p Patch) Validate() error {
	if p.Empty() {
		return errors.New("entry: empty patch")
	}
	if p.Date != nil && !ValidDate(*p.Date) {
		return fmt.Errorf("entry: invalid date %q", *p.Date)
	}
	if p.Mood != nil && !p.Mood.Valid() {
		return fmt.Errorf("entry: invalid mood %q", *p.Mood)
	}
	return nil
}

// Columns returns the patch as column name to value, in a stable order.
func (p Patch) Columns() ([]string, []any) {
	var cols []string
	var vals []any
	if p.Date != nil {
		cols = append(cols, "date")
		vals = append(vals, *p.Date)
	}
	if p.Mood != nil {
		cols = append(cols, "mood")
		vals = append(vals, string(*p.Mood))
	}
	if p.JournalText != nil {
		cols = append(cols, "journal_text")
		vals = append(vals, *p.JournalText)
	}
	return cols, vals
}

// TouchesIndex reports whether the patch changes a field the calendar index uses.
func (p Patch) TouchesIndex() bool {
	return p.Date != nil || p.Mood != nil
}
