package jobboard

import "time"

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Remote      bool      `json:"remote"`
	Description string    `json:"description,omitempty"`
	PostedAt    time.Time `json:"posted_at"`
}

type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationOffered   ApplicationStatus = "offered"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	Status      ApplicationStatus `json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

type ApplicationRequest struct {
	CoverLetter string `json:"cover_letter,omitempty"`
	ResumeID    string `json:"resume_id,omitempty"`
}

type Resume struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// JobFilter narrows ListJobs. Zero fields are not sent.
type JobFilter struct {
	Query    string
	Location string
	Remote   bool
	Page     int
}
