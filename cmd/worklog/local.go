package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// ClearLocal wipes the offline database. It never touches the server, even
// when logged in.
func (r *Runner) ClearLocal(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("this deletes every local item and series: pass --yes to confirm")
	}
	local, err := r.localStore(ctx)
	if err != nil {
		return err
	}
	if err := local.Clear(ctx); err != nil {
		return err
	}
	return r.writePlain("cleared local data in %s\n", r.dbPath)
}

func localCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "local",
		Usage: "Manage the offline database used when not logged in",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Delete all local items and series",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm the deletion"}},
				Action: r.ClearLocal,
			},
		},
	}
}
