// Package repository implements PostgreSQL persistence for lead-tracker
// records. Document-shaped fields are stored in JSONB columns and marshalled
// explicitly at the boundary.
package repository

import "errors"

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("record already exists")
