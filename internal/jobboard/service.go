package jobboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"

	"jobboard-client/internal/apiclient"
)

// API is the request surface the job board calls go through.
type API interface {
	Get(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error
	Post(ctx context.Context, path string, body, out any, opts ...apiclient.RequestOption) error
	Delete(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error
}

type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

func (s *Service) ListJobs(ctx context.Context, filter JobFilter) ([]Job, error) {
	query := url.Values{}
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	if filter.Location != "" {
		query.Set("location", filter.Location)
	}
	if filter.Remote {
		query.Set("remote", "true")
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}

	path := "/api/jobs"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var jobs []Job
	if err := s.api.Get(ctx, path, &jobs); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := s.api.Get(ctx, "/api/jobs/"+url.PathEscape(id), &job); err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return &job, nil
}

func (s *Service) ApplyToJob(ctx context.Context, jobID string, req ApplicationRequest) (*Application, error) {
	var application Application
	if err := s.api.Post(ctx, "/api/jobs/"+url.PathEscape(jobID)+"/applications", req, &application); err != nil {
		return nil, fmt.Errorf("failed to apply to job %s: %w", jobID, err)
	}
	return &application, nil
}

// ListMyApplications requires a signed-in user.
func (s *Service) ListMyApplications(ctx context.Context) ([]Application, error) {
	var applications []Application
	if err := s.api.Get(ctx, "/api/me/applications", &applications); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

func (s *Service) WithdrawApplication(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/api/me/applications/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("failed to withdraw application %s: %w", id, err)
	}
	return nil
}

// UploadResume sends content as a multipart form under the "resume" field.
func (s *Service) UploadResume(ctx context.Context, filename string, content io.Reader) (*Resume, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("resume", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish resume form: %w", err)
	}

	var resume Resume
	err = s.api.Post(ctx, "/api/me/resume", buf.Bytes(), &resume, apiclient.WithContentType(form.FormDataContentType()))
	if err != nil {
		return nil, fmt.Errorf("failed to upload resume: %w", err)
	}
	return &resume, nil
}
