// Package report prints mood counts over a window of days, and the month
// calendar.
package report

import (
	"context"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/printers"
)

// Report prints per-mood counts for the window ending today.
type Report struct {
	Window  string
	ShowAll bool
	ShowID  bool

	Service *app.Service
	Out     io.Writer
	Now     func() time.Time
}

func (r *Report) Do(ctx context.Context) error {
	out := r.Out
	if out == nil {
		out = color.Output
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	res, err := r.Service.Report(ctx, r.Window, now())
	if err != nil {
		return err
	}
	pp := printers.New(out)
	pp.ShowID = r.ShowID
	pp.Report(res.Label, res.Entries)
	if r.ShowAll {
		pp.Entries(res.Entries...)
	}
	return nil
}

// Month prints a calendar of the latest mood per day.
type Month struct {
	Year  int
	Month time.Month

	Service *app.Service
	Out     io.Writer
}

func (m *Month) Do(ctx context.Context) error {
	out := m.Out
	if out == nil {
		out = color.Output
	}
	idx, err := m.Service.Moods(ctx)
	if err != nil {
		return err
	}
	byDate := idx.Snapshot()
	pp := printers.New(out)
	pp.Month(m.Year, m.Month, byDate)
	pp.Legend()
	return nil
}
