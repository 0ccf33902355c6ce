package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAuthenticationFailed is returned when a request stayed unauthorized after
// the client tried to recover the session. The re-authentication redirect has
// already been handled by the time a caller sees it.
var ErrAuthenticationFailed = errors.New("authentication failed")

// ResponseError is a non-2xx response that was not an authentication failure.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

func newResponseError(method, url string, status int, body []byte) *ResponseError {
	respErr := &ResponseError{
		Method:     method,
		URL:        url,
		StatusCode: status,
		Body:       body,
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		respErr.Message = payload.Error
		if respErr.Message == "" {
			respErr.Message = payload.Message
		}
	}

	return respErr
}
