// Package history projects a date's entries into the quick-jump sheet.
// It holds no copy of the list, so it always reflects the store.
package history

import (
	"fmt"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
)

// Source is the date list, normally an *entrystore.Store.
type Source interface {
	Date() string
	Entries() []*entry.Entry
	Index() (int, bool)
}

// Jumper moves the pager, normally a *pager.Controller.
type Jumper interface {
	JumpTo(index int) bool
}

// Row is one line of the sheet.
type Row struct {
	Index   int
	ID      int64
	Label   string
	Mood    mood.Mood
	Preview string
	Current bool
}

// Sheet is the history listing for one date.
type Sheet struct {
	src   Source
	jump  Jumper
	reset func()
}

// New returns a sheet over src. reset, when set, ends any edit session on
// selection even if the chosen row is already current.
func New(src Source, jump Jumper, reset func()) *Sheet {
	return &Sheet{src: src, jump: jump, reset: reset}
}

// Title is the sheet heading.
func (s *Sheet) Title() string {
	return "Entries for " + entry.LongDate(s.src.Date())
}

// Rows lists the entries newest first.
func (s *Sheet) Rows() []Row {
	list := s.src.Entries()
	cur, ok := s.src.Index()
	rows := make([]Row, len(list))
	for i, e := range list {
		rows[i] = Row{
			Index:   i,
			ID:      e.ID,
			Label:   Label(i),
			Mood:    e.Mood,
			Preview: entry.Preview(e.JournalText, entry.DefaultPreviewWidth),
			Current: ok && i == cur,
		}
	}
	return rows
}

// Label names row i: "Latest" for the newest entry, "Mood #i" otherwise.
func Label(i int) string {
	if i == 0 {
		return "Latest"
	}
	return fmt.Sprintf("Mood #%d", i)
}

// Select makes row i current and jumps the pager to it.
func (s *Sheet) Select(i int) bool {
	if i < 0 || i >= len(s.src.Entries()) {
		return false
	}
	if s.reset != nil {
		s.reset()
	}
	s.jump.JumpTo(i)
	return true
}
