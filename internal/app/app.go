package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"jobboard-client/internal/apiclient"
	"jobboard-client/internal/clientstore"
	"jobboard-client/internal/config"
	"jobboard-client/internal/jobboard"
	"jobboard-client/internal/redirect"
	"jobboard-client/internal/session"
)

// App owns one authenticated request stack: a single refresh coordinator,
// redirect policy and client shared by every caller in the process.
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	out         io.Writer
	store       *clientstore.Store
	memory      *redirect.Memory
	state       *session.StateStore
	history     *redirect.History
	cookies     *apiclient.SessionCookies
	client      *apiclient.Client
	jobs        *jobboard.Service
	debugServer *http.Server
}

const cookieLoadTimeout = 5 * time.Second

// New wires the stack and restores the session cookies saved by an earlier
// run. Navigation to the login page is reported on out.
func New(cfg *config.Config, logger *slog.Logger, out io.Writer) (*App, error) {
	store, err := clientstore.NewProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client store: %w", err)
	}

	httpClient, err := apiclient.NewHTTPClient(cfg.API.RequestTimeout, cfg.API.UserAgent)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		out:    out,
		store:  store,
		memory: redirect.NewMemory(store, cfg.Auth.RedirectKey, cfg.Auth.RedirectTTL),
		state:  session.NewStateStore(),
	}
	a.history = redirect.NewHistory(cfg.Auth.StartLocation, a.announceNavigation)

	a.cookies, err = apiclient.NewSessionCookies(httpClient.Jar, cfg.API.BaseURL,
		[]string{"/", cfg.API.RefreshPath}, store, cfg.Auth.CookieKey, cfg.Auth.CookieTTL)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cookieLoadTimeout)
	defer cancel()
	if restored, err := a.cookies.Load(ctx); err != nil {
		logger.Warn("Failed to restore session cookies, starting without a session", "error", err)
	} else {
		logger.Debug("Restored session cookies", "count", restored)
	}

	policy := redirect.NewPolicy(a.history, a.memory, a.state, cfg.Auth.LoginPath, cfg.Auth.PreAuthPaths, logger)
	refresher := apiclient.NewRefreshCoordinator(
		apiclient.NewSessionRefresher(httpClient, cfg.API.BaseURL+cfg.API.RefreshPath, logger),
		cfg.API.RefreshTimeout,
		logger,
	)

	a.client = apiclient.NewClient(cfg.API.BaseURL, httpClient, refresher, policy, logger)
	a.jobs = jobboard.NewService(a.client)

	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		a.debugServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler: a.setupDebugRouter(),
		}
	}

	return a, nil
}

func (a *App) Client() *apiclient.Client { return a.client }

func (a *App) Jobs() *jobboard.Service { return a.jobs }

func (a *App) State() *session.StateStore { return a.state }

func (a *App) Location() string { return a.history.Location() }

// SeedCookies hands the client session cookies obtained elsewhere, such as
// from a browser login. They are saved with the rest on Close.
func (a *App) SeedCookies(cookies []*http.Cookie) {
	a.cookies.Seed(cookies)
}

// Visit records that the user is now looking at location.
func (a *App) Visit(location string) {
	a.history.Navigate(location)
}

// Call issues one request through the authenticated stack and writes the
// response payload, indented, to the app's output.
func (a *App) Call(ctx context.Context, method, path string, body []byte) error {
	var payload json.RawMessage
	var reqBody any
	if len(body) > 0 {
		reqBody = body
	}

	if err := a.client.Do(ctx, method, path, reqBody, &payload); err != nil {
		return err
	}

	if len(payload) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		buf.Reset()
		buf.Write(payload)
	}
	buf.WriteByte('\n')

	_, err := a.out.Write(buf.Bytes())
	return err
}

// CompleteLogin is run once the user has signed in again. It marks the session
// authenticated and navigates to the remembered location, or to the start
// location when nothing was remembered.
func (a *App) CompleteLogin(ctx context.Context) (string, error) {
	a.state.Set(session.AuthStateAuthenticated)

	target, ok, err := a.memory.Consume(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		target = a.cfg.Auth.StartLocation
	}

	a.history.Navigate(target)
	a.logger.Info("Login completed, resuming", "location", target)

	return target, nil
}

// StartDebugServer serves /metrics and /healthz in the background when enabled.
func (a *App) StartDebugServer(cancel context.CancelFunc) {
	if a.debugServer == nil {
		return
	}

	go func() {
		a.logger.Info("Debug server starting", "address", a.debugServer.Addr)
		if err := a.debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Debug server failed to start", "error", err)
			cancel()
		}
	}()
}

// Close saves the session cookies and releases the client store.
func (a *App) Close(ctx context.Context) error {
	if a.debugServer != nil {
		if err := a.debugServer.Shutdown(ctx); err != nil {
			a.logger.Error("Debug server forced to shutdown", "error", err)
		}
	}

	if err := a.cookies.Save(ctx); err != nil {
		a.logger.Error("Failed to save session cookies", "error", err)
	}

	return a.store.Close()
}

func (a *App) announceNavigation(location string) {
	if location != a.cfg.Auth.LoginPath {
		return
	}
	_, _ = fmt.Fprintf(a.out, "Session expired. Sign in again at %s%s\n", a.cfg.API.BaseURL, location)
}
