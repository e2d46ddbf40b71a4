package options

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/mood"
)

// MoodOptions selects a mood by label or alias.
type MoodOptions struct {
	MoodString string
}

func AddMoodArgs(cmd *cobra.Command, o *MoodOptions) {
	cmd.Flags().StringVarP(&o.MoodString, "mood", "m", string(mood.Default),
		Wrap80("Mood for the entry: "+strings.Join(MoodNames(), ", ")+". Aliases such as great, good, meh, bad and awful also work."))
	_ = cmd.RegisterFlagCompletionFunc("mood", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return MoodNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

func (o *MoodOptions) GetMood() (mood.Mood, error) {
	return mood.Parse(o.MoodString)
}

// MoodNames lists every mood label, happiest first.
func MoodNames() []string {
	all := mood.All()
	names := make([]string, 0, len(all))
	for _, m := range all {
		names = append(names, string(m))
	}
	return names
}
