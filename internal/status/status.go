// Package status defines the lifecycle status shared by lead and job records.
//
// Unlike a strict pipeline, the graph is unconstrained: any status in the set
// may be assigned from any other, and re-assigning the current status is a
// valid no-op transition that still refreshes the record's updated_at.
package status

import (
	"fmt"
	"strings"
)

// Status is a lifecycle tag on lead and job records.
type Status string

const (
	NotEngaged Status = "not_engaged"
	Applied    Status = "applied"
	Engaged    Status = "engaged"
	Interview  Status = "interview"
	Offer      Status = "offer"
	Rejected   Status = "rejected"
	Onboard    Status = "onboard"
)

// Default is the status assigned to newly ingested records.
const Default = NotEngaged

// All lists every valid status, in lifecycle order.
var All = []Status{NotEngaged, Applied, Engaged, Interview, Offer, Rejected, Onboard}

// Parse converts a raw string to a Status, returning an error for unknown
// values. The error message enumerates the valid set.
func Parse(s string) (Status, error) {
	st := Status(s)
	if st.IsValid() {
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q, must be one of: %s", s, ValidList())
}

// IsValid reports whether s is a member of the status set.
func (s Status) IsValid() bool {
	switch s {
	case NotEngaged, Applied, Engaged, Interview, Offer, Rejected, Onboard:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ValidList returns the valid statuses as a comma-separated string for error
// messages.
func ValidList() string {
	names := make([]string, len(All))
	for i, s := range All {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
