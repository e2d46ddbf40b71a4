// Package chat sends one prompt to the assistant and prints the reply.
package chat

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/moodlog/pkg/assistant"
)

// Chat is a single request and response.
type Chat struct {
	Prompt string
	Width  int

	Client *assistant.Client
	Out    io.Writer
}

func (c *Chat) Do(ctx context.Context) error {
	out := c.Out
	if out == nil {
		out = color.Output
	}
	reply, err := c.Client.Reply(ctx, c.Prompt)
	if err != nil {
		return err
	}
	width := c.Width
	if width <= 0 {
		width = 80
	}
	_, _ = fmt.Fprintln(out, wordwrap.String(reply, width))
	return nil
}
