package commands

import (
	"strings"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	mo := &options.MoodOptions{}
	var showID bool

	cmd := &cobra.Command{
		Use:   "add [journal text]",
		Short: "Record how you feel",
		Example: `
moodlog add --mood good walked to the lake after work
moodlog add -m bad --on yesterday
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := oo.GetOn(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			m, err := mo.GetMood()
			if err != nil {
				return output.HandleError(err)
			}
			text := strings.TrimSpace(strings.Join(args, " "))

			svc, done, err := openService(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			a := add.Add{
				Date:    date,
				Mood:    m,
				Text:    text,
				ShowID:  showID,
				JSON:    output.JSON,
				Service: svc,
			}
			return output.HandleError(a.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, oo)
	options.AddMoodArgs(cmd, mo)
	cmd.Flags().BoolVarP(&showID, "show-id", "k", false, "Show the ID of the entry.")
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
