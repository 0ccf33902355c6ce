package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-client/internal/testutil"
)

type job struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestClient_GetDecodesPayload(t *testing.T) {
	h := newHarness(t, "/jobs")
	h.api.Handle(http.MethodGet, "/api/jobs/3", testutil.JSON(http.StatusOK, `{"id":3,"title":"Platform Engineer"}`))

	var got job
	require.NoError(t, h.client.Get(context.Background(), "/api/jobs/3", &got))

	assert.Equal(t, job{ID: 3, Title: "Platform Engineer"}, got)
}

func TestClient_PostEncodesJSON(t *testing.T) {
	h := newHarness(t, "/jobs")

	type captured struct {
		contentType string
		body        map[string]string
	}
	seen := make(chan captured, 1)
	h.api.Handle(http.MethodPost, "/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		c := captured{contentType: r.Header.Get(HeaderContentType)}
		_ = json.NewDecoder(r.Body).Decode(&c.body)
		seen <- c
		testutil.JSON(http.StatusCreated, `{"id":9,"title":"SRE"}`)(w, r)
	})

	var created job
	err := h.client.Post(context.Background(), "/api/jobs", map[string]string{"title": "SRE"}, &created)
	require.NoError(t, err)

	got := <-seen
	assert.Equal(t, ContentTypeJSON, got.contentType)
	assert.Equal(t, map[string]string{"title": "SRE"}, got.body)
	assert.Equal(t, 9, created.ID)
}

func TestClient_RawBodyWithContentType(t *testing.T) {
	h := newHarness(t, "/profile")

	seen := make(chan []string, 1)
	h.api.Handle(http.MethodPut, "/api/me/resume", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		seen <- []string{string(data), r.Header.Get(HeaderContentType), r.Header.Get("X-Upload-Source")}
		w.WriteHeader(http.StatusNoContent)
	})

	err := h.client.Put(context.Background(), "/api/me/resume", []byte("%PDF-1.7"), nil,
		WithContentType("application/pdf"),
		WithHeader("X-Upload-Source", "cli"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"%PDF-1.7", "application/pdf", "cli"}, <-seen)
}

func TestClient_ResponseError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "error field", status: http.StatusNotFound, body: `{"error":"job not found"}`, wantMessage: "job not found"},
		{name: "message field", status: http.StatusConflict, body: `{"message":"already applied"}`, wantMessage: "already applied"},
		{name: "plain text", status: http.StatusInternalServerError, body: "oops", wantMessage: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "/jobs")
			h.api.Handle(http.MethodDelete, "/api/me/applications/5", testutil.JSON(tt.status, tt.body))

			err := h.client.Delete(context.Background(), "/api/me/applications/5", nil)

			var respErr *ResponseError
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, tt.status, respErr.StatusCode)
			assert.Equal(t, tt.wantMessage, respErr.Message)
			assert.Equal(t, tt.body, string(respErr.Body))
			assert.Equal(t, 0, h.api.Calls(http.MethodPost, refreshPath))
		})
	}
}

func TestClient_PatchAfterRefresh(t *testing.T) {
	h := newHarness(t, "/profile")
	h.refreshIssuesCookie(0)
	h.api.Handle(http.MethodPatch, "/api/me", protected(`{"id":1,"title":"Staff Engineer"}`))

	var got job
	err := h.client.Patch(context.Background(), "/api/me", map[string]string{"title": "Staff Engineer"}, &got)
	require.NoError(t, err)

	assert.Equal(t, "Staff Engineer", got.Title)
	assert.Equal(t, 2, h.api.Calls(http.MethodPatch, "/api/me"))
}

func TestClient_AuthenticationFailure(t *testing.T) {
	h := newHarness(t, "/dashboard")
	h.api.Handle(http.MethodPost, refreshPath, testutil.Status(http.StatusUnauthorized))
	h.api.Handle(http.MethodGet, "/api/me", testutil.Status(http.StatusUnauthorized))

	err := h.client.Get(context.Background(), "/api/me", nil)

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	var respErr *ResponseError
	assert.False(t, errors.As(err, &respErr))
}

func TestClient_UndecodablePayload(t *testing.T) {
	h := newHarness(t, "/jobs")
	h.api.Handle(http.MethodGet, "/api/jobs/1", testutil.JSON(http.StatusOK, `not json`))

	var got job
	err := h.client.Get(context.Background(), "/api/jobs/1", &got)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}
