// Package editmode is the view/edit state machine for the entry under the
// cursor of a date screen.
//
//	Viewing --StartEdit--> Editing --Save ok / Cancel / ConfirmDelete ok--> Viewing
//	Editing --FocusDraft--> FullEditor --CloseFullEditor / Save--> Editing
//	Editing --OpenMoodPicker--> MoodPicking --PickMood / CloseMoodPicker--> Editing
//	any --Reset--> Viewing
//
// Only the current entry is ever editable. Reset is called whenever the
// cursor moves and drops any unsaved draft.
package editmode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
)

var (
	// ErrInvalidTransition is returned for a trigger the current mode does not accept.
	ErrInvalidTransition = errors.New("editmode: invalid transition")
	// ErrNotCurrent is returned when editing is requested for a page other
	// than the current one.
	ErrNotCurrent = errors.New("editmode: entry is not current")
)

// Mode is the edit state of the current entry.
type Mode int

const (
	Viewing Mode = iota
	Editing
	FullEditor
	MoodPicking
)

func (m Mode) String() string {
	switch m {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case FullEditor:
		return "full-editor"
	case MoodPicking:
		return "mood-picking"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Entries is the date list the machine edits, normally an *entrystore.Store.
type Entries interface {
	Index() (int, bool)
	Current() (*entry.Entry, bool)
	ApplyFieldPatch(ctx context.Context, p entry.Patch) error
	DeleteCurrent(ctx context.Context) (emptied bool, err error)
}

// Machine tracks the edit session of the current entry.
type Machine struct {
	entries Entries
	notify  Notifier

	mu         sync.Mutex
	mode       Mode
	draft      string
	confirming bool
	// session increments on every Reset so a remote call that completes
	// after the cursor moved does not change the new session's mode.
	session uint64
	// editID is the entry the draft was seeded from.
	editID int64
}

// New returns a machine in Viewing. notify may be nil.
func New(entries Entries, notify Notifier) *Machine {
	if notify == nil {
		notify = NotifierFunc(func(Notice) {})
	}
	return &Machine{entries: entries, notify: notify}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Draft returns the in-progress journal text.
func (m *Machine) Draft() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Confirming reports whether a delete confirmation is showing.
func (m *Machine) Confirming() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirming
}

// Editable reports whether the page at index renders as editable. Peer
// pages are always read-only.
func (m *Machine) Editable(index int) bool {
	m.mu.Lock()
	mode := m.mode
	m.mu.Unlock()
	if mode == Viewing {
		return false
	}
	cur, ok := m.entries.Index()
	return ok && cur == index
}

// StartEdit enters Editing for the page at index, seeding the draft with the
// entry's journal text.
func (m *Machine) StartEdit(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != Viewing {
		return fmt.Errorf("%w: start edit from %s", ErrInvalidTransition, m.mode)
	}
	cur, ok := m.entries.Index()
	if !ok || cur != index {
		return ErrNotCurrent
	}
	e, ok := m.entries.Current()
	if !ok {
		return ErrNotCurrent
	}
	m.mode = Editing
	m.draft = e.JournalText
	m.confirming = false
	m.editID = e.ID
	return nil
}

// stale ends the session when the current entry is no longer the one being
// edited, which happens when a late delete shifts the list. Callers hold mu.
func (m *Machine) stale() bool {
	if m.mode == Viewing {
		return false
	}
	if e, ok := m.entries.Current(); ok && e.ID == m.editID {
		return false
	}
	m.mode = Viewing
	m.draft = ""
	m.confirming = false
	m.session++
	return true
}

// FocusDraft opens the full-screen editor over Editing.
func (m *Machine) FocusDraft() error {
	return m.move(Editing, FullEditor)
}

// CloseFullEditor returns to Editing, keeping the draft.
func (m *Machine) CloseFullEditor() error {
	return m.move(FullEditor, Editing)
}

// OpenMoodPicker shows the mood modal over Editing.
func (m *Machine) OpenMoodPicker() error {
	return m.move(Editing, MoodPicking)
}

// CloseMoodPicker dismisses the mood modal without choosing.
func (m *Machine) CloseMoodPicker() error {
	return m.move(MoodPicking, Editing)
}

func (m *Machine) move(from, to Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != from {
		return fmt.Errorf("%w: %s to %s from %s", ErrInvalidTransition, from, to, m.mode)
	}
	m.mode = to
	return nil
}

// SetDraft replaces the draft text.
func (m *Machine) SetDraft(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != Editing && m.mode != FullEditor {
		return fmt.Errorf("%w: set draft in %s", ErrInvalidTransition, m.mode)
	}
	m.draft = text
	return nil
}

// PickMood closes the mood modal and writes mood into the current entry.
// On failure the local change stays, a notice is shown and the machine
// remains in Editing.
func (m *Machine) PickMood(ctx context.Context, md mood.Mood) error {
	if !md.Valid() {
		return fmt.Errorf("editmode: invalid mood %q", md)
	}
	if err := m.move(MoodPicking, Editing); err != nil {
		return err
	}
	m.mu.Lock()
	stale := m.stale()
	m.mu.Unlock()
	if stale {
		return ErrNotCurrent
	}
	if err := m.entries.ApplyFieldPatch(ctx, entry.MoodPatch(md)); err != nil {
		m.notify.Notify(Notice{Level: LevelError, Text: NoticeMoodFailed})
		return err
	}
	return nil
}

// Save persists the draft as the entry's journal text. From FullEditor it
// also closes the overlay. On success the machine returns to Viewing; on
// failure it stays in Editing with a notice.
func (m *Machine) Save(ctx context.Context) error {
	m.mu.Lock()
	if m.mode != Editing && m.mode != FullEditor {
		mode := m.mode
		m.mu.Unlock()
		return fmt.Errorf("%w: save from %s", ErrInvalidTransition, mode)
	}
	if m.stale() {
		m.mu.Unlock()
		return ErrNotCurrent
	}
	m.mode = Editing
	m.confirming = false
	draft := m.draft
	session := m.session
	m.mu.Unlock()

	if err := m.entries.ApplyFieldPatch(ctx, entry.TextPatch(draft)); err != nil {
		m.notify.Notify(Notice{Level: LevelError, Text: NoticeSaveFailed})
		return err
	}

	m.mu.Lock()
	if m.session == session && m.mode == Editing {
		m.mode = Viewing
		m.draft = ""
	}
	m.mu.Unlock()
	m.notify.Notify(Notice{Level: LevelInfo, Text: NoticeSaved})
	return nil
}

// Cancel drops the draft without any remote call.
func (m *Machine) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != Editing {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, m.mode)
	}
	m.mode = Viewing
	m.draft = ""
	m.confirming = false
	return nil
}

// RequestDelete asks for confirmation before deleting the current entry.
func (m *Machine) RequestDelete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != Editing {
		return fmt.Errorf("%w: delete from %s", ErrInvalidTransition, m.mode)
	}
	m.confirming = true
	return nil
}

// DismissDelete closes the confirmation without deleting.
func (m *Machine) DismissDelete() {
	m.mu.Lock()
	m.confirming = false
	m.mu.Unlock()
}

// ConfirmDelete deletes the current entry. navigateBack reports that the
// date has no entries left.
func (m *Machine) ConfirmDelete(ctx context.Context) (navigateBack bool, err error) {
	m.mu.Lock()
	if m.mode != Editing || !m.confirming {
		m.mu.Unlock()
		return false, fmt.Errorf("%w: confirm delete without request", ErrInvalidTransition)
	}
	m.confirming = false
	session := m.session
	m.mu.Unlock()

	emptied, err := m.entries.DeleteCurrent(ctx)
	if err != nil {
		m.notify.Notify(Notice{Level: LevelError, Text: NoticeDeleteFailed})
		return false, err
	}

	m.mu.Lock()
	if m.session == session {
		m.mode = Viewing
		m.draft = ""
	} else {
		m.stale()
	}
	m.mu.Unlock()
	m.notify.Notify(Notice{Level: LevelInfo, Text: NoticeDeleted})
	return emptied, nil
}

// Reset returns to Viewing from any mode, discarding the draft.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = Viewing
	m.draft = ""
	m.confirming = false
	m.session++
}
