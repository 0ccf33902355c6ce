package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxResponseBody = 10 << 20

type RequestOption func(*Options)

// WithHeader sets a request header, overriding any default of the same name.
func WithHeader(name, value string) RequestOption {
	return func(o *Options) {
		if o.Header == nil {
			o.Header = make(http.Header)
		}
		o.Header.Set(name, value)
	}
}

func WithContentType(contentType string) RequestOption {
	return WithHeader(HeaderContentType, contentType)
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, out, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, body, out, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out, opts...)
}

// Do sends one request and decodes a JSON success payload into out. A nil body
// sends nothing, a []byte body is sent as-is and anything else is encoded as
// JSON. out may be nil when the payload is not needed.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	options := Options{Method: method}
	for _, opt := range opts {
		opt(&options)
	}

	switch b := body.(type) {
	case nil:
	case []byte:
		options.Body = b
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		options.Body = encoded
	}

	resp, err := c.Execute(ctx, path, options)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newResponseError(method, resp.Request.URL.String(), resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
