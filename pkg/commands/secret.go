package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/secrets"
)

func addSecret(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage secrets kept in the OS keyring",
		Long:  "Manage secrets kept in the OS keyring.\n\nNames: " + strings.Join(secrets.Names(), ", "),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addSecretSet(cmd)
	addSecretDelete(cmd)
	topLevel.AddCommand(cmd)
}

func secretName(args []string) error {
	if len(args) < 1 {
		return errors.New("requires a secret name")
	}
	if !secrets.Known(args[0]) {
		return fmt.Errorf("unknown secret %q (want one of %s)", args[0], strings.Join(secrets.Names(), ", "))
	}
	return nil
}

func addSecretSet(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "set NAME [VALUE]",
		Short: "Store a secret; the value is read from stdin when omitted",
		Example: `
moodlog secret set assistant-api-key
echo "$DSN" | moodlog secret set postgres-dsn
`,
		Args:      func(cmd *cobra.Command, args []string) error { return secretName(args) },
		ValidArgs: secrets.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) > 1 {
				value = args[1]
			} else {
				fmt.Fprintf(os.Stderr, "%s: ", args[0])
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return output.HandleError(err)
				}
				value = line
			}
			if err := secrets.Set(args[0], strings.TrimSpace(value)); err != nil {
				return output.HandleError(err)
			}
			fmt.Fprintf(os.Stderr, "stored %s\n", args[0])
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addSecretDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "delete NAME",
		Short:     "Remove a secret",
		Args:      func(cmd *cobra.Command, args []string) error { return secretName(args) },
		ValidArgs: secrets.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.Delete(args[0]); err != nil {
				return output.HandleError(err)
			}
			fmt.Fprintf(os.Stderr, "deleted %s\n", args[0])
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
