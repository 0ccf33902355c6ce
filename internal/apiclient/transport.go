package apiclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"golang.org/x/net/publicsuffix"

	"jobboard-client/internal/metrics"
)

// NewHTTPClient returns a client whose cookie jar carries the session
// credentials on every request it sends.
func NewHTTPClient(timeout time.Duration, userAgent string) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
		Transport: &InstrumentedTransport{
			UserAgent: userAgent,
			Proxied:   http.DefaultTransport,
		},
	}, nil
}

// InstrumentedTransport sets the User-Agent and records outbound request metrics.
type InstrumentedTransport struct {
	UserAgent string
	Proxied   http.RoundTripper
}

func (t *InstrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.UserAgent)
	}

	start := time.Now()
	resp, err := t.Proxied.RoundTrip(req)
	metrics.OutboundRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	metrics.OutboundRequestsTotal.WithLabelValues(req.Method, status).Inc()

	return resp, err
}
