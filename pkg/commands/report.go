package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/runner/report"
)

func addReport(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Count moods over the last few days",
		Long: `Report counts the moods recorded within the specified time window.

Examples:
  moodlog report
  moodlog report --last 3d
  moodlog report --last 1w2d --entries`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, done, err := openService(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			r := report.Report{
				Window:  wo.Last,
				ShowAll: wo.All,
				ShowID:  true,
				Service: svc,
				Now:     time.Now,
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddWindowArgs(cmd, wo)
	topLevel.AddCommand(cmd)
}

func addMoods(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}

	cmd := &cobra.Command{
		Use:   "moods",
		Short: "Show a month calendar colored by mood",
		Example: `
moodlog moods
moodlog moods --month 2025-11
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, month, err := mo.GetMonth(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			svc, done, err := openService(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			m := report.Month{Year: year, Month: month, Service: svc}
			return output.HandleError(m.Do(cmd.Context()))
		},
	}

	options.AddMonthArgs(cmd, mo)
	topLevel.AddCommand(cmd)
}
