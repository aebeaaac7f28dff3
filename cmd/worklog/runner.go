package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ayush/worklog/internal/client"
	"github.com/ayush/worklog/internal/summary"
)

// Runner holds the dependencies shared by every command.
type Runner struct {
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	loc         *time.Location
	now         func() time.Time
	sessionPath string
	dbPath      string

	session client.Session
	remote  *client.Remote
	local   *client.LocalStore
	cache   *client.Cache
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

func NewRunner(opts RunnerOpts) *Runner {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 3 * time.Minute}
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		loc:        time.Local,
		now:        time.Now,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		registerCommand, loginCommand, logoutCommand, whoamiCommand,
		itemCommand, seriesCommand, statsCommand, reportCommand, suggestCommand, timerCommand, localCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// before resolves file locations and loads the saved session.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.sessionPath = cmd.String("session")
	if r.sessionPath == "" {
		path, err := client.DefaultSessionPath()
		if err != nil {
			return ctx, err
		}
		r.sessionPath = path
	}
	r.dbPath = cmd.String("db")
	if r.dbPath == "" {
		r.dbPath = filepath.Join(filepath.Dir(r.sessionPath), "worklog.db")
	}

	session, err := client.LoadSession(r.sessionPath)
	if err != nil {
		return ctx, err
	}
	r.session = session
	return ctx, nil
}

func (r *Runner) after(ctx context.Context, cmd *cli.Command) error {
	if r.local != nil {
		return r.local.Close()
	}
	return nil
}

// backend picks the server when logged in and the local store otherwise,
// and loads the cache from it.
func (r *Runner) backend(ctx context.Context) (*client.Cache, error) {
	if r.cache != nil {
		return r.cache, nil
	}

	var b client.Backend
	if r.session.Valid() {
		r.remote = client.NewRemote(r.session, r.httpClient)
		b = r.remote
		r.logger.Debug("using server", "server", r.session.Server)
	} else {
		local, err := r.localStore(ctx)
		if err != nil {
			return nil, err
		}
		b = local
		r.logger.Debug("not logged in, using local store", "path", r.dbPath)
	}

	r.cache = client.NewCache(b)
	if err := r.cache.Refresh(ctx); err != nil {
		return nil, err
	}
	return r.cache, nil
}

// localStore opens the offline database once, creating its directory.
func (r *Runner) localStore(ctx context.Context) (*client.LocalStore, error) {
	if r.local != nil {
		return r.local, nil
	}
	if err := os.MkdirAll(filepath.Dir(r.dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	local, err := client.OpenLocalStore(ctx, r.dbPath)
	if err != nil {
		return nil, err
	}
	r.local = local
	return local, nil
}

// remoteClient returns the server client. AI features and the report
// archive have no local fallback.
func (r *Runner) remoteClient() (*client.Remote, error) {
	if !r.session.Valid() {
		return nil, fmt.Errorf("this command needs a server: run 'worklog login' first")
	}
	if r.remote == nil {
		r.remote = client.NewRemote(r.session, r.httpClient)
	}
	return r.remote, nil
}

func (r *Runner) requester(cmd *cli.Command) (*summary.Requester, error) {
	remote, err := r.remoteClient()
	if err != nil {
		return nil, err
	}
	return summary.NewRequester(remote, cmd.String("model"), r.loc), nil
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := fmt.Fprintln(r.output, string(output)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// parseDate accepts YYYY-MM-DD in the local zone or RFC 3339. Empty means now.
func (r *Runner) parseDate(s string) (time.Time, error) {
	if s == "" {
		return r.now(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, r.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

func modelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "model",
		Usage: "Model to use (default " + summary.DefaultModel + ")",
	}
}
