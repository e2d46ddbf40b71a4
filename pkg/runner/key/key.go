// Package key provides CLI helpers to display the mood legend.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/printers"
)

// Key prints the legend describing every mood.
type Key struct {
	Out io.Writer
}

// Do renders the mood legend to stdout.
func (k *Key) Do(_ context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, "")
	printers.New(out).Legend()
	return nil
}
