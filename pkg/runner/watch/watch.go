// Package watch streams store changes to the terminal while keeping a live
// mood index.
package watch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/store"
)

// Watch prints each change and the date's indexed mood afterwards.
type Watch struct {
	Service *app.Service
	Out     io.Writer
}

func (w *Watch) Do(ctx context.Context) error {
	out := w.Out
	if out == nil {
		out = color.Output
	}
	kind := map[store.ChangeType]*color.Color{
		store.ChangeInsert: color.New(color.FgGreen),
		store.ChangeUpdate: color.New(color.FgYellow),
		store.ChangeDelete: color.New(color.FgRed),
	}
	faint := color.New(color.Faint)

	idx, err := w.Service.Moods(ctx)
	if err != nil {
		return err
	}
	_, _ = faint.Fprintf(out, "watching, %d days indexed (ctrl+c to stop)\n", idx.Len())

	var mu sync.Mutex
	return idx.Run(ctx, func(c store.Change) {
		mu.Lock()
		defer mu.Unlock()
		label := fmt.Sprintf("%-6s", c.Type)
		if k, ok := kind[c.Type]; ok {
			label = k.Sprint(label)
		}
		indexed := "-"
		if m, ok := idx.Mood(c.Row.Date); ok {
			indexed = m.String()
		}
		_, _ = fmt.Fprintf(out, "%s #%d %s %s ", label, c.Row.ID, c.Row.Date, c.Row.Mood)
		_, _ = faint.Fprintf(out, "(calendar: %s)\n", indexed)
	})
}
