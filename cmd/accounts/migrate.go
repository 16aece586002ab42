package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply schema migrations (indexes for mongo) and exit",
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c.Context)
			if err != nil {
				return err
			}
			store, err := openStore(c.Context, cfg, log, true)
			if err != nil {
				return err
			}
			return store.Close(context.Background())
		},
	}
}
