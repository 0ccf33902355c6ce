package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

const (
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Options is what a caller supplies for one request.
type Options struct {
	Method string
	Header http.Header
	Body   []byte
}

// Request is a fully specified outbound request. It holds the body as bytes so
// the same request can be sent again after a session refresh.
type Request struct {
	URL                string
	Method             string
	Header             http.Header
	Body               []byte
	// IncludeCredentials is always set by Build; the client's cookie jar supplies them.
	IncludeCredentials bool
}

// Build normalises opts into a Request. Credentials are always included and
// Content-Type defaults to JSON; caller headers win over defaults.
func Build(url string, opts Options) Request {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	header := make(http.Header, len(opts.Header)+1)
	header.Set(HeaderContentType, ContentTypeJSON)
	for name, values := range opts.Header {
		header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}

	var body []byte
	if opts.Body != nil {
		body = bytes.Clone(opts.Body)
	}

	return Request{
		URL:                url,
		Method:             method,
		Header:             header,
		Body:               body,
		IncludeCredentials: true,
	}
}

// NewHTTPRequest converts r into an *http.Request bound to ctx. Each call gets its own body reader.
func (r Request) NewHTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = r.Header.Clone()

	return req, nil
}
