package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/entry"
)

const (
	layoutLoose    = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions selects a calendar date.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "today",
		`Specify a date, example: --on="2025-11-09", --on="11/9" or --on=yesterday.`)
}

// GetOn resolves the flag to YYYY-MM-DD relative to now.
func (o *OnOptions) GetOn(now time.Time) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(o.OnString))
	switch raw {
	case "", "today":
		return entry.FormatDate(now), nil
	case "yesterday":
		return entry.FormatDate(now.AddDate(0, 0, -1)), nil
	}
	if t, err := time.ParseInLocation(layoutLoose, raw, now.Location()); err == nil {
		return entry.FormatDate(t), nil
	}
	t, err := time.ParseInLocation(layoutISOShort, raw, now.Location())
	if err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD or M/D)", o.OnString)
	}
	t = t.AddDate(now.Year(), 0, 0)
	// A month/day later than today means last year's.
	if t.After(now) {
		t = t.AddDate(-1, 0, 0)
	}
	return entry.FormatDate(t), nil
}
