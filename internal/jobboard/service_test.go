package jobboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-client/internal/apiclient"
	"jobboard-client/internal/testutil"
)

func newService(t *testing.T) (*Service, *testutil.FakeAPI) {
	t.Helper()

	logger, _ := testutil.NewTestLogger()
	api := testutil.NewFakeAPI(t)

	httpClient, err := apiclient.NewHTTPClient(5*time.Second, "jobboard-client-test")
	require.NoError(t, err)

	refresher := apiclient.NewRefreshCoordinator(
		apiclient.NewSessionRefresher(httpClient, api.URL("/api/auth/refresh"), logger), 0, logger)
	client := apiclient.NewClient(api.Server.URL, httpClient, refresher, nil, logger)

	return NewService(client), api
}

func TestService_ListJobs(t *testing.T) {
	svc, api := newService(t)

	queries := make(chan string, 1)
	api.Handle(http.MethodGet, "/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.RawQuery
		testutil.JSON(http.StatusOK, `[{"id":"j1","title":"Backend Engineer","remote":true}]`)(w, r)
	})

	jobs, err := svc.ListJobs(context.Background(), JobFilter{Query: "go", Remote: true, Page: 2})
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.True(t, jobs[0].Remote)
	assert.Equal(t, "page=2&q=go&remote=true", <-queries)
}

func TestService_GetJob(t *testing.T) {
	svc, api := newService(t)
	api.Handle(http.MethodGet, "/api/jobs/j7", testutil.JSON(http.StatusOK,
		`{"id":"j7","title":"SRE","company":"Acme","posted_at":"2026-10-01T09:00:00Z"}`))

	job, err := svc.GetJob(context.Background(), "j7")
	require.NoError(t, err)

	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC), job.PostedAt)

	_, err = svc.GetJob(context.Background(), "missing")
	var respErr *apiclient.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
}

func TestService_ApplyToJob(t *testing.T) {
	svc, api := newService(t)

	bodies := make(chan ApplicationRequest, 1)
	api.Handle(http.MethodPost, "/api/jobs/j7/applications", func(w http.ResponseWriter, r *http.Request) {
		var req ApplicationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		bodies <- req
		testutil.JSON(http.StatusCreated, `{"id":"a1","job_id":"j7","status":"submitted"}`)(w, r)
	})

	application, err := svc.ApplyToJob(context.Background(), "j7", ApplicationRequest{CoverLetter: "hello", ResumeID: "r1"})
	require.NoError(t, err)

	assert.Equal(t, ApplicationRequest{CoverLetter: "hello", ResumeID: "r1"}, <-bodies)
	assert.Equal(t, ApplicationSubmitted, application.Status)
}

func TestService_ListMyApplicationsRecoversSession(t *testing.T) {
	svc, api := newService(t)
	api.Handle(http.MethodPost, "/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "fresh", Path: "/"})
	})
	api.Handle(http.MethodGet, "/api/me/applications", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		testutil.JSON(http.StatusOK, `[{"id":"a1","job_id":"j7","status":"reviewing"}]`)(w, r)
	})

	applications, err := svc.ListMyApplications(context.Background())
	require.NoError(t, err)

	require.Len(t, applications, 1)
	assert.Equal(t, ApplicationReviewing, applications[0].Status)
	assert.Equal(t, 1, api.Calls(http.MethodPost, "/api/auth/refresh"))
}

func TestService_ListMyApplicationsAuthenticationFailed(t *testing.T) {
	svc, api := newService(t)
	api.Handle(http.MethodPost, "/api/auth/refresh", testutil.Status(http.StatusUnauthorized))
	api.Handle(http.MethodGet, "/api/me/applications", testutil.Status(http.StatusUnauthorized))

	_, err := svc.ListMyApplications(context.Background())

	assert.ErrorIs(t, err, apiclient.ErrAuthenticationFailed)
}

func TestService_WithdrawApplication(t *testing.T) {
	svc, api := newService(t)
	api.Handle(http.MethodDelete, "/api/me/applications/a1", testutil.Status(http.StatusNoContent))

	require.NoError(t, svc.WithdrawApplication(context.Background(), "a1"))
	assert.Equal(t, 1, api.Calls(http.MethodDelete, "/api/me/applications/a1"))
}

func TestService_UploadResume(t *testing.T) {
	svc, api := newService(t)

	type upload struct {
		contentType string
		filename    string
		content     string
	}
	uploads := make(chan upload, 1)
	api.Handle(http.MethodPost, "/api/me/resume", func(w http.ResponseWriter, r *http.Request) {
		u := upload{contentType: r.Header.Get("Content-Type")}
		if file, header, err := r.FormFile("resume"); err == nil {
			data, _ := io.ReadAll(file)
			u.filename = header.Filename
			u.content = string(data)
		}
		uploads <- u
		testutil.JSON(http.StatusCreated, `{"id":"r1","filename":"cv.pdf"}`)(w, r)
	})

	resume, err := svc.UploadResume(context.Background(), "cv.pdf", strings.NewReader("%PDF-1.7 resume"))
	require.NoError(t, err)

	got := <-uploads
	assert.True(t, strings.HasPrefix(got.contentType, "multipart/form-data; boundary="), got.contentType)
	assert.Equal(t, "cv.pdf", got.filename)
	assert.Equal(t, "%PDF-1.7 resume", got.content)
	assert.Equal(t, "r1", resume.ID)
}
