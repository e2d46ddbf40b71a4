package app

import (
	"context"
	"time"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/timeutil"
)

// Report summarises the entries recorded over a window of days.
type Report struct {
	Label   string
	Dates   []string
	Entries []*entry.Entry
}

// Count is the number of entries with one mood.
type Count struct {
	Mood  mood.Mood
	Count int
}

// Report fetches the entries of the window ending on end, e.g. "2w".
func (s *Service) Report(ctx context.Context, window string, end time.Time) (*Report, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	days, label, err := timeutil.ParseWindow(window)
	if err != nil {
		return nil, err
	}
	dates := timeutil.Dates(end, days)
	list, err := s.Persistence.ListByDates(ctx, dates)
	if err != nil {
		return nil, err
	}
	return &Report{Label: label, Dates: dates, Entries: list}, nil
}

// Counts tallies entries per mood in legend order. Moods with no entries
// are included with a zero count.
func (r *Report) Counts() []Count {
	tally := make(map[mood.Mood]int, len(r.Entries))
	for _, e := range r.Entries {
		tally[e.Mood]++
	}
	all := mood.All()
	out := make([]Count, 0, len(all))
	for _, m := range all {
		out = append(out, Count{Mood: m, Count: tally[m]})
	}
	return out
}

// Latest returns, per date, the newest entry in the report.
func (r *Report) Latest() map[string]*entry.Entry {
	out := make(map[string]*entry.Entry)
	for _, e := range r.Entries {
		if cur, ok := out[e.Date]; !ok || e.ID > cur.ID {
			out[e.Date] = e
		}
	}
	return out
}
