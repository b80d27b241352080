package models

import (
	"errors"
	"time"

	"github.com/jonesrussell/lead-tracker/internal/status"
)

// DefaultJobPageType is assumed when a job posting's provenance omits the
// page type.
const DefaultJobPageType = "job_posting"

// Job is a job posting extracted from a job page. The lifecycle status lives
// on the nested job document.
type Job struct {
	ID            string     `json:"id"`
	Job           JobDetails `json:"job"`
	Company       JobCompany `json:"company"`
	ExtractedFrom Provenance `json:"extractedFrom"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// JobDetails describes the posting itself.
type JobDetails struct {
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	DatePosted     *time.Time    `json:"datePosted,omitempty"`
	Status         status.Status `json:"status"`
	AdditionalInfo string        `json:"additionalInfo,omitempty"`
}

// JobCompany is the company attached to a job posting.
type JobCompany struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
	Size        string `json:"size,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

// ApplyDefaults fills the lifecycle status and page type for newly ingested
// jobs.
func (j *Job) ApplyDefaults() {
	if j.Job.Status == "" {
		j.Job.Status = status.Default
	}
	if j.ExtractedFrom.PageType == "" {
		j.ExtractedFrom.PageType = DefaultJobPageType
	}
}

// Validate checks the required-field invariants for ingestion.
func (j *Job) Validate() error {
	if j.Job.Title == "" {
		return errors.New("job.title is required")
	}
	if j.ExtractedFrom.Platform == "" {
		return errors.New("extractedFrom.platform is required")
	}
	if j.ExtractedFrom.URL == "" {
		return errors.New("extractedFrom.url is required")
	}
	if !j.Job.Status.IsValid() {
		return errors.New("job.status must be one of: " + status.ValidList())
	}
	return nil
}
