package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ayush/worklog/internal/logging"
)

func main() {
	logger := logging.NewLogger(os.Stderr, os.Getenv("LOG_LEVEL"))
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatal("worklog", "err", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "worklog",
		Usage: "Personal journal: record work items, group them into series, review them with AI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Usage:   "Path to the session file",
				Sources: cli.EnvVars("WORKLOG_SESSION"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to the local database used when not logged in",
				Sources: cli.EnvVars("WORKLOG_DB"),
			},
		},
		Before:   r.before,
		After:    r.after,
		Commands: r.register(),
	}
}
