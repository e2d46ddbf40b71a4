// Package ui launches the interactive interface.
package ui

import (
	"context"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/flags"
	"tableflip.dev/moodlog/pkg/logging"
	teaui "tableflip.dev/moodlog/pkg/tui/app"
	"tableflip.dev/moodlog/pkg/tui/theme"
)

// UI runs the calendar and day screens until the user quits.
type UI struct {
	Service *app.Service
	// FlagsDir holds the support prompt state; empty disables the prompt.
	FlagsDir string
}

func (u *UI) Do(ctx context.Context) error {
	var gate *flags.SupportGate
	if u.FlagsDir != "" {
		kv, err := flags.Open(u.FlagsDir)
		if err != nil {
			logging.Warn("ui: flag store unavailable", "err", err)
		} else {
			gate = flags.NewSupportGate(kv)
		}
	}
	return teaui.Run(ctx, u.Service, theme.Default(), gate)
}
