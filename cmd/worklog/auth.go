package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ayush/worklog/internal/client"
)

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Usage:   "Backend base URL",
			Value:   "http://localhost:4000",
			Sources: cli.EnvVars("WORKLOG_SERVER"),
		},
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Aliases:  []string{"p"},
			Sources:  cli.EnvVars("WORKLOG_PASSWORD"),
			Required: true,
		},
	}
}

// Register creates an account and saves the session.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	session, err := client.Register(ctx, r.httpClient, cmd.String("server"), cmd.String("username"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return r.saveSession(session)
}

// Login exchanges credentials for a token and saves the session.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	session, err := client.Login(ctx, r.httpClient, cmd.String("server"), cmd.String("username"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return r.saveSession(session)
}

func (r *Runner) saveSession(session client.Session) error {
	if err := client.SaveSession(r.sessionPath, session); err != nil {
		return err
	}
	r.session = session
	r.logger.Info("logged in", "user", session.Username, "server", session.Server)
	return nil
}

// Logout revokes the token on the server and forgets the session. The
// local file is removed even when the server cannot be reached.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if r.session.Valid() {
		if err := client.NewRemote(r.session, r.httpClient).Logout(ctx); err != nil {
			r.logger.Warn("server logout failed", "err", err)
		}
	}
	if err := client.ClearSession(r.sessionPath); err != nil {
		return err
	}
	r.session = client.Session{}
	return r.writePlain("logged out\n")
}

// Whoami prints the account behind the saved session.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Valid() {
		return r.writePlain("not logged in (using local store %s)\n", r.dbPath)
	}
	user, err := client.NewRemote(r.session, r.httpClient).Me(ctx)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	return r.writePlain("%s on %s\n", user.Username, r.session.Server)
}

func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "register",
		Usage:  "Create an account on a server and log in",
		Flags:  credentialFlags(),
		Action: r.Register,
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Log in to a server",
		Flags:  credentialFlags(),
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Revoke the current token and forget the session",
		Action: r.Logout,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged in user",
		Action: r.Whoami,
	}
}
