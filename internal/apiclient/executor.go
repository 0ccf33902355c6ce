package apiclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"jobboard-client/internal/metrics"
)

//go:generate mockgen -source=executor.go -destination=../mocks/unrecoverable.go -package=mocks

// UnrecoverableHandler is told when a request could not be authenticated even
// after a refresh was attempted.
type UnrecoverableHandler interface {
	OnUnrecoverable(ctx context.Context)
}

// Client sends authenticated requests to the job board API. A 401 triggers
// one shared session refresh and, if that worked, exactly one retry.
type Client struct {
	baseURL       string
	http          *http.Client
	refresher     *RefreshCoordinator
	unrecoverable UnrecoverableHandler
	logger        *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, refresher *RefreshCoordinator, unrecoverable UnrecoverableHandler, logger *slog.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          httpClient,
		refresher:     refresher,
		unrecoverable: unrecoverable,
		logger:        logger,
	}
}

// Execute sends the request described by url and opts. Any response other
// than 401 is returned to the caller unchanged and the caller owns its body.
// Unrecoverable authentication failures return ErrAuthenticationFailed and a
// transport failure is returned as-is, without a refresh or retry. If ctx
// ends while waiting on a refresh, ctx.Err() is returned and no redirect happens.
func (c *Client) Execute(ctx context.Context, url string, opts Options) (*http.Response, error) {
	url = c.resolve(url)
	req := Build(url, opts)

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	discard(resp)

	c.logger.Debug("Request unauthorized, refreshing session", "method", req.Method, "url", req.URL)

	if !c.refresher.EnsureRefreshed(ctx) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, c.fail(ctx, req, "session refresh failed")
	}

	metrics.AuthRetries.Inc()
	resp, err = c.send(ctx, Build(url, opts))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		discard(resp)
		return nil, c.fail(ctx, req, "request unauthorized after session refresh")
	}

	return resp, nil
}

func (c *Client) fail(ctx context.Context, req Request, reason string) error {
	metrics.UnrecoverableAuthFailures.Inc()
	c.logger.Warn("Authentication could not be recovered",
		"method", req.Method,
		"url", req.URL,
		"reason", reason,
	)

	if c.unrecoverable != nil {
		c.unrecoverable.OnUnrecoverable(ctx)
	}

	return fmt.Errorf("%w: %s", ErrAuthenticationFailed, reason)
}

func (c *Client) send(ctx context.Context, req Request) (*http.Response, error) {
	httpReq, err := req.NewHTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	// credentials ride on the jar of c.http; every built request includes them
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}

	return resp, nil
}

// resolve joins a path onto the base URL. Absolute URLs pass through.
func (c *Client) resolve(url string) string {
	if strings.HasPrefix(url, "/") {
		return c.baseURL + url
	}
	return url
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
