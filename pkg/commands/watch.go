package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream entry changes as they happen",
		Example: `
moodlog watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, done, err := openService(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			w := watch.Watch{Service: svc}
			return output.HandleError(w.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
