package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/lead-tracker/internal/logger"
	"github.com/jonesrussell/lead-tracker/internal/models"
	"github.com/jonesrussell/lead-tracker/internal/status"
)

// JobRepository persists job-posting records, mirroring the lead layout with
// the lifecycle status inside the job document.
type JobRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewJobRepository(db *sql.DB, log logger.Logger) *JobRepository {
	return &JobRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new job. ID and timestamps are assigned here.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	job.ID = uuid.New().String()
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	jobJSON, err := json.Marshal(job.Job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	companyJSON, err := json.Marshal(job.Company)
	if err != nil {
		return fmt.Errorf("marshal company: %w", err)
	}
	fromJSON, err := json.Marshal(job.ExtractedFrom)
	if err != nil {
		return fmt.Errorf("marshal extracted_from: %w", err)
	}

	query := `
		INSERT INTO jobs (id, job, company, extracted_from, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx,
		query,
		job.ID,
		jobJSON,
		companyJSON,
		fromJSON,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	return nil
}

// List returns jobs most recent first, optionally filtered by the status
// stored inside the job document.
func (r *JobRepository) List(ctx context.Context, st *status.Status) ([]models.Job, error) {
	query := `
		SELECT id, job, company, extracted_from, created_at, updated_at
		FROM jobs
	`
	var args []any
	if st != nil {
		query += ` WHERE job->>'status' = $1`
		args = append(args, st.String())
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.Job, 0)
	for rows.Next() {
		job, scanErr := scanJobRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		jobs = append(jobs, *job)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate jobs: %w", rowsErr)
	}

	return jobs, nil
}

// UpdateStatus sets the job's lifecycle status and refreshes updated_at.
// Returns ErrNotFound for an unknown id.
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, st status.Status) (*models.StatusUpdate, error) {
	query := `
		UPDATE jobs
		SET job = jsonb_set(job, '{status}', to_jsonb($2::text)),
		    updated_at = $3
		WHERE id = $1
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, id, st.String(), time.Now()).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update job status: %w", err)
	}

	return &models.StatusUpdate{
		ID:        id,
		Status:    st,
		UpdatedAt: updatedAt,
	}, nil
}

func scanJobRow(rows *sql.Rows) (*models.Job, error) {
	var job models.Job
	var jobJSON, companyJSON, fromJSON []byte

	if err := rows.Scan(
		&job.ID,
		&jobJSON,
		&companyJSON,
		&fromJSON,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}

	if err := json.Unmarshal(jobJSON, &job.Job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	if err := json.Unmarshal(companyJSON, &job.Company); err != nil {
		return nil, fmt.Errorf("unmarshal company: %w", err)
	}
	if err := json.Unmarshal(fromJSON, &job.ExtractedFrom); err != nil {
		return nil, fmt.Errorf("unmarshal extracted_from: %w", err)
	}

	return &job, nil
}
