package redirect

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"jobboard-client/internal/metrics"
	"jobboard-client/internal/session"
)

// Policy sends the user to the login entry point when a session cannot be recovered.
type Policy struct {
	mu           sync.Mutex
	navigator    Navigator
	memory       *Memory
	state        *session.StateStore
	loginPath    string
	preAuthPaths []string
	logger       *slog.Logger
}

// NewPolicy builds a Policy. loginPath is always treated as a pre-authentication page.
func NewPolicy(navigator Navigator, memory *Memory, state *session.StateStore, loginPath string, preAuthPaths []string, logger *slog.Logger) *Policy {
	paths := append([]string{loginPath}, preAuthPaths...)

	return &Policy{
		navigator:    navigator,
		memory:       memory,
		state:        state,
		loginPath:    loginPath,
		preAuthPaths: paths,
		logger:       logger,
	}
}

// OnUnrecoverable records the current location and navigates to the login page,
// unless the user is already on a pre-authentication page. Concurrent calls are
// serialised so a burst of failures navigates once.
func (p *Policy) OnUnrecoverable(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.navigator.Location()
	if p.IsPreAuthLocation(current) {
		p.logger.Debug("Already on a pre-authentication page, skipping redirect", "location", current)
		metrics.Redirects.WithLabelValues(metrics.RedirectResultSuppressed).Inc()
		return
	}

	// the write must land even if the failing request's context is done
	if err := p.memory.Set(context.WithoutCancel(ctx), current); err != nil {
		p.logger.Warn("Failed to persist redirect target", "location", current, "error", err)
	}

	if p.state != nil {
		p.state.Set(session.AuthStateUnauthenticated)
	}

	p.navigator.Navigate(p.loginPath)
	metrics.Redirects.WithLabelValues(metrics.RedirectResultNavigated).Inc()

	p.logger.Info("Session could not be recovered, redirecting to login", "from", current, "to", p.loginPath)
}

// IsPreAuthLocation reports whether location is the login page or another page
// that is reachable without a session.
func (p *Policy) IsPreAuthLocation(location string) bool {
	path := location
	if parsed, err := url.Parse(location); err == nil {
		path = parsed.Path
	}

	for _, preAuth := range p.preAuthPaths {
		if path == preAuth || strings.HasPrefix(path, strings.TrimSuffix(preAuth, "/")+"/") {
			return true
		}
	}

	return false
}
