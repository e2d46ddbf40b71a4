package commands

import (
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/printers"
)

func addEdit(topLevel *cobra.Command) {
	var text string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace the journal text of an entry",
		Example: `
moodlog edit 42 --text "turned out fine"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires an entry id")
			}
			if !cmd.Flags().Changed("text") {
				return errors.New("requires --text")
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
			e, err := svc.Edit(cmd.Context(), id, strings.TrimSpace(text))
			return output.HandleError(printUpdated(e, err))
		},
	}

	cmd.Flags().StringVar(&text, "text", "", options.Wrap80("New journal text. An empty value clears it."))
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addMood(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "mood ID MOOD",
		Short: "Change the mood of an entry",
		Long:  "Change the mood of an entry.\n\nMoods: " + strings.Join(options.MoodNames(), ", "),
		Example: `
moodlog mood 42 "pretty bad"
moodlog mood 42 great
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires an entry id and a mood")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return options.MoodNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			mo := options.MoodOptions{MoodString: strings.Join(args[1:], " ")}
			m, err := mo.GetMood()
			if err != nil {
				return output.HandleError(err)
			}
			svc, done, err := openService(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer done()
			e, err := svc.SetMood(cmd.Context(), id, m)
			return output.HandleError(printUpdated(e, err))
		},
	}

	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an entry permanently",
		Example: `
moodlog delete 42
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
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return printJSON(map[string]int64{"deleted": id})
			}
			printers.New(colorOutput()).Title("Entry deleted.")
			return nil
		},
	}

	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func printUpdated(e *entry.Entry, err error) error {
	if err != nil {
		return err
	}
	if output.JSON {
		return printJSON(e)
	}
	pp := printers.New(colorOutput())
	pp.ShowID = true
	pp.Entry(e)
	return nil
}
