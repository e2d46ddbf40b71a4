// Package get prints the entries of one date, or a single entry by id.
package get

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/printers"
)

// Get lists a date (newest first) or shows the entry with ID.
type Get struct {
	Date   string
	ID     int64
	ShowID bool
	JSON   bool

	Service *app.Service
	Out     io.Writer
}

func (g *Get) Do(ctx context.Context) error {
	out := g.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.New(out)
	pp.ShowID = g.ShowID

	if g.ID != 0 {
		e, err := g.Service.Get(ctx, g.ID)
		if err != nil {
			return err
		}
		if g.JSON {
			return writeJSON(out, e)
		}
		pp.Entry(e)
		return nil
	}

	date := g.Date
	if date == "" {
		date = entry.Today()
	}
	list, err := g.Service.Entries(ctx, date)
	if err != nil {
		return err
	}
	if g.JSON {
		return writeJSON(out, list)
	}
	pp.TitleWithCount(entry.LongDate(date), len(list))
	pp.Entries(list...)
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, string(b))
	return nil
}
