package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
moodlog ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			i := ui.UI{Service: svc, FlagsDir: cfg.FlagsPath()}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
