package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"jobboard-client/internal/metrics"
)

const refreshKey = "session"

// RefreshFunc performs one session refresh and reports whether it succeeded.
type RefreshFunc func(ctx context.Context) bool

// RefreshCoordinator makes sure at most one session refresh is in flight.
// Callers that arrive while a refresh is running share its outcome; callers
// that arrive after it settled start a new one. An application should create
// exactly one and share it between every Client.
type RefreshCoordinator struct {
	group   singleflight.Group
	refresh RefreshFunc
	timeout time.Duration
	logger  *slog.Logger
}

// NewRefreshCoordinator wraps refresh. A zero timeout leaves the refresh call unbounded.
func NewRefreshCoordinator(refresh RefreshFunc, timeout time.Duration, logger *slog.Logger) *RefreshCoordinator {
	return &RefreshCoordinator{
		refresh: refresh,
		timeout: timeout,
		logger:  logger,
	}
}

// EnsureRefreshed starts or joins a session refresh and returns its outcome.
// The refresh itself is detached from ctx: if ctx ends first this caller stops
// waiting and gets false, while the refresh carries on for everyone else.
func (c *RefreshCoordinator) EnsureRefreshed(ctx context.Context) bool {
	// only set when this caller's fn ran; the write happens before the result
	// is sent on ch, so reading it after the receive is safe
	started := false
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		started = true
		return c.run(context.WithoutCancel(ctx)), nil
	})

	select {
	case res := <-ch:
		if !started {
			metrics.RefreshWaiters.Inc()
		}
		ok, _ := res.Val.(bool)
		return ok
	case <-ctx.Done():
		c.logger.Debug("Stopped waiting for session refresh", "error", ctx.Err())
		return false
	}
}

func (c *RefreshCoordinator) run(ctx context.Context) (ok bool) {
	refreshID := uuid.NewString()
	start := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Session refresh panicked", "refresh_id", refreshID, "panic", r)
			ok = false
		}

		outcome := metrics.RefreshOutcomeSuccess
		if !ok {
			outcome = metrics.RefreshOutcomeFailure
		}
		metrics.RefreshAttempts.WithLabelValues(outcome).Inc()

		c.logger.Info("Session refresh settled",
			"refresh_id", refreshID,
			"success", ok,
			"duration", time.Since(start),
		)
	}()

	c.logger.Debug("Refreshing session", "refresh_id", refreshID)
	return c.refresh(ctx)
}

// NewSessionRefresher returns a RefreshFunc that POSTs to url with credentials
// and no body. Any 2xx is success; everything else, including a transport
// error, is failure.
func NewSessionRefresher(client *http.Client, url string, logger *slog.Logger) RefreshFunc {
	return func(ctx context.Context) bool {
		req, err := Build(url, Options{Method: http.MethodPost}).NewHTTPRequest(ctx)
		if err != nil {
			logger.Error("Failed to build session refresh request", "error", err)
			return false
		}

		resp, err := client.Do(req)
		if err != nil {
			logger.Warn("Session refresh request failed", "error", err)
			return false
		}
		defer discard(resp)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			logger.Warn("Session refresh rejected", "status", resp.StatusCode)
			return false
		}

		return true
	}
}
