package options

import (
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/timeutil"
)

// Wrap80 wraps flag help at 80 columns.
func Wrap80(text string) string {
	return base.Wrap80(text)
}

// WindowOptions selects a report window.
type WindowOptions struct {
	Last string
	All  bool
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVar(&o.Last, "last", timeutil.DefaultWindow,
		Wrap80("Time window to include, for example 3d, 1w or 2w3d."))
	cmd.Flags().BoolVar(&o.All, "entries", false,
		"Also list the entries in the window.")
}

// MonthOptions selects a calendar month.
type MonthOptions struct {
	Month string
}

func AddMonthArgs(cmd *cobra.Command, o *MonthOptions) {
	cmd.Flags().StringVar(&o.Month, "month", "",
		`Month to show as YYYY-MM, default the current month.`)
}

func (o *MonthOptions) GetMonth(now time.Time) (int, time.Month, error) {
	if o.Month == "" {
		return now.Year(), now.Month(), nil
	}
	return timeutil.ParseMonth(o.Month)
}
