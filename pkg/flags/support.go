package flags

import (
	"tableflip.dev/moodlog/pkg/mood"
)

// LastSupportPrompt records the calendar date the support prompt last showed.
const LastSupportPrompt = "last-support-prompt"

// SupportMessage is shown at most once a day after a low mood is recorded.
const SupportMessage = "Rough day? You don't have to carry it alone. Run `moodlog chat` to talk it through."

// KV is the part of Store the gate needs.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// SupportGate decides when to show the support prompt.
type SupportGate struct {
	kv KV
}

// NewSupportGate returns a gate backed by kv.
func NewSupportGate(kv KV) *SupportGate {
	return &SupportGate{kv: kv}
}

// Check reports whether the prompt should show for today's mood and, when it
// should, records today so it will not show again until tomorrow.
func (g *SupportGate) Check(today string, m mood.Mood, known bool) (bool, error) {
	if !known || !m.Low() {
		return false, nil
	}
	last, ok, err := g.kv.Get(LastSupportPrompt)
	if err != nil {
		return false, err
	}
	if ok && last == today {
		return false, nil
	}
	if err := g.kv.Set(LastSupportPrompt, today); err != nil {
		return false, err
	}
	return true, nil
}
