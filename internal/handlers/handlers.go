// Package handlers implements the HTTP handlers for lead-tracker.
//
// Handlers depend on small store interfaces rather than concrete repository
// types so they can be unit-tested with mocks. Every error body uses the
// uniform {success:false, error, details?} envelope the extension expects.
package handlers

import (
	"context"

	"github.com/jonesrussell/lead-tracker/internal/models"
	"github.com/jonesrussell/lead-tracker/internal/repository"
	"github.com/jonesrussell/lead-tracker/internal/status"
)

// ExtractedDataStore is the persistence surface for extraction records.
type ExtractedDataStore interface {
	Create(ctx context.Context, data *models.ExtractedData) error
	ListPaginated(ctx context.Context, extractedBy string, filter repository.ExtractedDataFilter) ([]models.ExtractedData, error)
	Count(ctx context.Context, extractedBy string, filter repository.ExtractedDataFilter) (int, error)
	StatsByType(ctx context.Context, extractedBy string) ([]repository.TypeCount, error)
}

// LeadStore is the persistence surface for lead records.
type LeadStore interface {
	Create(ctx context.Context, lead *models.Lead) error
	List(ctx context.Context, st *status.Status) ([]models.Lead, error)
	UpdateStatus(ctx context.Context, id string, st status.Status) (*models.StatusUpdate, error)
}

// JobStore is the persistence surface for job records.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	List(ctx context.Context, st *status.Status) ([]models.Job, error)
	UpdateStatus(ctx context.Context, id string, st status.Status) (*models.StatusUpdate, error)
}

// UserStore is the persistence surface for user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
