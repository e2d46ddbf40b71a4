package editmode

// Level separates confirmations from failures.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// User-facing notice texts.
const (
	NoticeSaved        = "Entry saved!"
	NoticeSaveFailed   = "Failed to save changes."
	NoticeMoodFailed   = "Failed to update mood."
	NoticeDeleted      = "Entry deleted."
	NoticeDeleteFailed = "Failed to delete entry."

	DeleteConfirmText = "Delete this entry? This can't be undone."
)

// Notice is a blocking message for the user.
type Notice struct {
	Level Level
	Text  string
}

// Notifier shows notices.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }
