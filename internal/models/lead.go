package models

import (
	"errors"
	"time"

	"github.com/jonesrussell/lead-tracker/internal/status"
)

// Lead is a person extracted from a profile page, with the company they
// belong to and where the extraction came from. The lifecycle status lives
// on the nested person document.
type Lead struct {
	ID            string      `json:"id"`
	User          LeadContact `json:"user"`
	Company       LeadCompany `json:"company"`
	ExtractedFrom Provenance  `json:"extractedFrom"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// LeadContact is the person behind a lead.
type LeadContact struct {
	Name        string        `json:"name,omitempty"`
	Email       string        `json:"email,omitempty"`
	Website     string        `json:"website,omitempty"`
	URLs        []string      `json:"urls,omitempty"`
	PhoneNumber string        `json:"phoneNumber,omitempty"`
	Status      status.Status `json:"status"`
}

// LeadCompany is the company attached to a lead.
type LeadCompany struct {
	Name        string   `json:"name,omitempty"`
	URL         string   `json:"url,omitempty"`
	Email       string   `json:"email,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Website     string   `json:"website,omitempty"`
	Size        string   `json:"size,omitempty"`
	OtherURLs   []string `json:"otherUrls,omitempty"`
}

// Provenance records which page a record was extracted from.
type Provenance struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	PageType string `json:"pageType,omitempty"`
}

// UnknownProvenance is substituted when the caller omits extractedFrom.
// The fallback URL comes from the payload's top-level url field when present.
func UnknownProvenance(fallbackURL string) Provenance {
	if fallbackURL == "" {
		fallbackURL = "unknown"
	}
	return Provenance{Platform: "unknown", URL: fallbackURL}
}

// ApplyDefaults fills the lifecycle status for newly ingested leads.
func (l *Lead) ApplyDefaults() {
	if l.User.Status == "" {
		l.User.Status = status.Default
	}
}

// Validate checks the required-field invariants for ingestion.
func (l *Lead) Validate() error {
	if l.ExtractedFrom.Platform == "" {
		return errors.New("extractedFrom.platform is required")
	}
	if l.ExtractedFrom.URL == "" {
		return errors.New("extractedFrom.url is required")
	}
	if !l.User.Status.IsValid() {
		return errors.New("user.status must be one of: " + status.ValidList())
	}
	return nil
}

// StatusUpdate is the response projection of a status transition.
// The _id key matches what the extension client expects.
type StatusUpdate struct {
	ID        string        `json:"_id"`
	Status    status.Status `json:"status"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
