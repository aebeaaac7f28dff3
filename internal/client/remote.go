package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/models"
)

// Session identifies a logged-in user of a backend. It is passed around
// explicitly and persisted by SaveSession.
type Session struct {
	Server   string `toml:"server"`
	Token    string `toml:"token"`
	Username string `toml:"username"`
}

// Valid reports whether s carries enough to make authenticated calls.
func (s Session) Valid() bool {
	return s.Server != "" && s.Token != ""
}

// Remote talks to the worklog backend on behalf of one session.
type Remote struct {
	session    Session
	httpClient *http.Client
}

func NewRemote(session Session, httpClient *http.Client) *Remote {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	session.Server = strings.TrimRight(session.Server, "/")
	return &Remote{session: session, httpClient: httpClient}
}

// Session returns the session the client is bound to.
func (c *Remote) Session() Session {
	return c.session
}

// Register creates an account and returns a session for it.
func Register(ctx context.Context, httpClient *http.Client, server, username, password string) (Session, error) {
	return authenticate(ctx, httpClient, server, "/api/auth/register", username, password)
}

// Login exchanges credentials for a session.
func Login(ctx context.Context, httpClient *http.Client, server, username, password string) (Session, error) {
	return authenticate(ctx, httpClient, server, "/api/auth/login", username, password)
}

func authenticate(ctx context.Context, httpClient *http.Client, server, path, username, password string) (Session, error) {
	c := NewRemote(Session{Server: server}, httpClient)
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, models.Credentials{Username: username, Password: password}, &resp); err != nil {
		return Session{}, err
	}
	return Session{Server: c.session.Server, Token: resp.Token, Username: resp.Username}, nil
}

// Logout revokes the session token on the server.
func (c *Remote) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Me returns the account behind the session.
func (c *Remote) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Remote) ListItems(ctx context.Context) ([]models.WorkItem, error) {
	var items []models.WorkItem
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Remote) UpsertItem(ctx context.Context, item models.WorkItem) error {
	return c.do(ctx, http.MethodPost, "/api/items", item, nil)
}

func (c *Remote) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil, nil)
}

func (c *Remote) ListSeries(ctx context.Context) ([]models.Series, error) {
	var series []models.Series
	if err := c.do(ctx, http.MethodGet, "/api/series", nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}

func (c *Remote) UpsertSeries(ctx context.Context, series models.Series) error {
	return c.do(ctx, http.MethodPost, "/api/series", series, nil)
}

func (c *Remote) DeleteSeries(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/series/"+url.PathEscape(id), nil, nil)
}

// Generate calls the backend generation proxy.
func (c *Remote) Generate(ctx context.Context, model, prompt string) (string, error) {
	var resp models.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", models.GenerateRequest{Model: model, Prompt: prompt}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// ArchiveReport stores a generated report on the server and returns its name.
func (c *Remote) ArchiveReport(ctx context.Context, name, text string) (string, error) {
	var resp struct {
		Name string `json:"name"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/reports", models.ArchiveRequest{Name: name, Text: text}, &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

func (c *Remote) ListReports(ctx context.Context) ([]models.ReportObject, error) {
	var reports []models.ReportObject
	if err := c.do(ctx, http.MethodGet, "/api/reports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// DownloadReport returns the Markdown of an archived report.
func (c *Remote) DownloadReport(ctx context.Context, name string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/reports/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Remote) DeleteReport(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/reports/"+url.PathEscape(name), nil, nil)
}

// do sends body as JSON and decodes a JSON response into out when non-nil.
func (c *Remote) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// send performs the request and turns non-2xx answers into apperr sentinels.
func (c *Remote) send(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if c.session.Server == "" {
		return nil, fmt.Errorf("%w: no server configured", apperr.ErrInvalidInput)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.session.Server+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	var e struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	return nil, fmt.Errorf("%w: %s", apperr.FromResponse(resp.StatusCode, msg), msg)
}
