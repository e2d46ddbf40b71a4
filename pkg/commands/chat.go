package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/assistant"
	"tableflip.dev/moodlog/pkg/runner/chat"
)

func addChat(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "chat PROMPT",
		Short: "Ask the assistant something",
		Example: `
moodlog chat rough day, any ideas for winding down?
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a prompt")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			a := cfg.Assistant
			c := chat.Chat{
				Prompt: strings.Join(args, " "),
				Client: assistant.New(a.Endpoint, a.Model, a.APIKey),
			}
			return output.HandleError(c.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
