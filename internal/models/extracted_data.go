// Package models defines the persisted record shapes for lead-tracker.
//
// JSON tags are camelCase: the wire format is dictated by the browser
// extension that produces and consumes these records.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Extraction types accepted for extracted-data records.
const (
	TypeLinkedInProfile = "linkedin_profile"
	TypeLinkedInCompany = "linkedin_company"
	TypeLinkedInJob     = "linkedin_job"
	TypeUpworkJob       = "upwork_job"
	TypeOther           = "other"
)

// ExtractionTypes lists every valid extraction type.
var ExtractionTypes = []string{
	TypeLinkedInProfile,
	TypeLinkedInCompany,
	TypeLinkedInJob,
	TypeUpworkJob,
	TypeOther,
}

// DefaultPlatform is assumed when the extension omits the platform field.
const DefaultPlatform = "linkedin"

// Current metadata versions stamped onto ingested records.
const (
	DefaultExtensionVersion = "2.0.0"
	DataVersion             = "2.0"
)

// ExtractedData is a raw extraction captured by the browser extension.
// Records are immutable after ingestion; is_active exists for a future
// soft-delete path and is not consulted by current handlers.
type ExtractedData struct {
	ID              string     `json:"id" db:"id"`
	Type            string     `json:"type" db:"type"`
	Platform        string     `json:"platform" db:"platform"`
	URL             string     `json:"url" db:"url"`
	ExtractedFields JSONMap    `json:"extractedFields" db:"extracted_fields"`
	ExtractedBy     string     `json:"extractedBy" db:"extracted_by"`
	ExtractedAt     time.Time  `json:"extractedAt" db:"extracted_at"`
	Metadata        Metadata   `json:"metadata" db:"metadata"`
	Tags            StringList `json:"tags,omitempty" db:"tags"`
	Notes           string     `json:"notes,omitempty" db:"notes"`
	IsActive        bool       `json:"isActive" db:"is_active"`
}

// Metadata records which extension build produced the record.
type Metadata struct {
	UserAgent        string `json:"userAgent,omitempty"`
	ExtensionVersion string `json:"extensionVersion"`
	DataVersion      string `json:"dataVersion"`
}

// Summary is the ingestion-response projection of an extracted-data record.
type Summary struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Platform    string    `json:"platform"`
	URL         string    `json:"url"`
	ExtractedAt time.Time `json:"extractedAt"`
	FieldsCount int       `json:"fieldsCount"`
}

// Summary returns the ingestion-response projection.
func (d *ExtractedData) Summary() Summary {
	return Summary{
		ID:          d.ID,
		Type:        d.Type,
		Platform:    d.Platform,
		URL:         d.URL,
		ExtractedAt: d.ExtractedAt,
		FieldsCount: len(d.ExtractedFields),
	}
}

// Validate checks the required-field invariants for ingestion.
func (d *ExtractedData) Validate() error {
	if !IsValidExtractionType(d.Type) {
		return fmt.Errorf("type must be one of: %s", strings.Join(ExtractionTypes, ", "))
	}
	if d.Platform == "" {
		return fmt.Errorf("platform is required")
	}
	if d.URL == "" {
		return fmt.Errorf("url is required")
	}
	if len(d.ExtractedFields) == 0 {
		return fmt.Errorf("extractedFields is required")
	}
	if d.ExtractedBy == "" {
		return fmt.Errorf("extractedBy is required")
	}
	return nil
}

// IsValidExtractionType reports whether t is a known extraction type.
func IsValidExtractionType(t string) bool {
	for _, valid := range ExtractionTypes {
		if t == valid {
			return true
		}
	}
	return false
}
