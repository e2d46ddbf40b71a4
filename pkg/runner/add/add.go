// Package add records a new mood entry from the CLI.
package add

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/printers"
)

// Add inserts one entry and prints the day it landed on.
type Add struct {
	Date   string
	Mood   mood.Mood
	Text   string
	ShowID bool
	JSON   bool

	Service *app.Service
	Out     io.Writer
}

func (a *Add) Do(ctx context.Context) error {
	out := a.Out
	if out == nil {
		out = color.Output
	}
	e, err := a.Service.Record(ctx, a.Date, a.Mood, a.Text)
	if err != nil {
		return err
	}
	if a.JSON {
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	all, err := a.Service.Entries(ctx, e.Date)
	if err != nil {
		return err
	}
	pp := printers.New(out)
	pp.ShowID = a.ShowID
	pp.TitleWithCount(entry.LongDate(e.Date), len(all))
	pp.Entries(all...)
	return nil
}
