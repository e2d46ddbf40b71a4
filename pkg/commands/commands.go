package commands

import (
	"context"
	"fmt"
	"strconv"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/config"
	"tableflip.dev/moodlog/pkg/logging"
)

var (
	output = &base.OutputOptions{}
	cfg    *config.Config
	debug  bool
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "moodlog",
		Short: base.Wrap80("A mood journal for the command line."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			if debug {
				c.Debug = true
			}
			cfg = c
			return logging.Init(logging.Config{Debug: c.Debug, Dir: c.Path})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output to stderr.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addKey(topLevel)
	addAdd(topLevel)
	addList(topLevel)
	addShow(topLevel)
	addEdit(topLevel)
	addMood(topLevel)
	addDelete(topLevel)
	addMoods(topLevel)
	addReport(topLevel)
	addWatch(topLevel)
	addChat(topLevel)
	addSecret(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
}

// openService opens the configured backend. The returned func closes it.
func openService(ctx context.Context) (*app.Service, func(), error) {
	if cfg == nil {
		c, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		cfg = c
	}
	p, err := app.OpenPersistence(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return &app.Service{Persistence: p}, func() {
		if err := p.Close(); err != nil {
			logging.Warn("commands: close persistence", "err", err)
		}
	}, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", raw)
	}
	return id, nil
}
