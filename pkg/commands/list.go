package commands

import (
	"errors"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/runner/get"
)

func addList(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	var showID bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "get"},
		Short:   "List the entries of a date, newest first",
		Example: `
moodlog list
moodlog list --on 2025-11-09 -k
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := oo.GetOn(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			svc, done, err := openService(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			g := get.Get{
				Date:    date,
				ShowID:  showID,
				JSON:    output.JSON,
				Service: svc,
			}
			return output.HandleError(g.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, oo)
	cmd.Flags().BoolVarP(&showID, "show-id", "k", false, "Show the ID of each entry.")
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one entry in full",
		Example: `
moodlog show 42
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires an entry id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			svc, done, err := openService(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			g := get.Get{ID: id, ShowID: true, JSON: output.JSON, Service: svc}
			return output.HandleError(g.Do(cmd.Context()))
		},
	}

	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
