// Package events publishes record lifecycle events to Redis Streams so other
// services can react to ingestion and status changes. Publishing is optional:
// a nil Publisher is a safe no-op.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/lead-tracker/internal/status"
)

// StreamName is the Redis stream for record events.
const StreamName = "lead-tracker-events"

// EventType represents the type of record event.
type EventType string

const (
	// RecordCreated indicates a record was ingested.
	RecordCreated EventType = "RECORD_CREATED"
	// StatusChanged indicates a lead or job status transition.
	StatusChanged EventType = "STATUS_CHANGED"
)

// Record kinds carried in events.
const (
	KindExtractedData = "extracted_data"
	KindLead          = "lead"
	KindJob           = "job"
)

// RecordEvent is the envelope for all record lifecycle events.
type RecordEvent struct {
	EventID    uuid.UUID     `json:"event_id"`
	EventType  EventType     `json:"event_type"`
	RecordKind string        `json:"record_kind"`
	RecordID   string        `json:"record_id"`
	Status     status.Status `json:"status,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
