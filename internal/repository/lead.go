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

// LeadRepository persists lead records. The person, company, and provenance
// documents live in JSONB columns; the lifecycle status sits inside the
// person document and is mutated in place with jsonb_set.
type LeadRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewLeadRepository(db *sql.DB, log logger.Logger) *LeadRepository {
	return &LeadRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new lead. ID and timestamps are assigned here.
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	lead.ID = uuid.New().String()
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	personJSON, err := json.Marshal(lead.User)
	if err != nil {
		return fmt.Errorf("marshal person: %w", err)
	}
	companyJSON, err := json.Marshal(lead.Company)
	if err != nil {
		return fmt.Errorf("marshal company: %w", err)
	}
	fromJSON, err := json.Marshal(lead.ExtractedFrom)
	if err != nil {
		return fmt.Errorf("marshal extracted_from: %w", err)
	}

	query := `
		INSERT INTO leads (id, person, company, extracted_from, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx,
		query,
		lead.ID,
		personJSON,
		companyJSON,
		fromJSON,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

// List returns leads most recent first, optionally filtered by the status
// stored inside the person document.
func (r *LeadRepository) List(ctx context.Context, st *status.Status) ([]models.Lead, error) {
	query := `
		SELECT id, person, company, extracted_from, created_at, updated_at
		FROM leads
	`
	var args []any
	if st != nil {
		query += ` WHERE person->>'status' = $1`
		args = append(args, st.String())
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := make([]models.Lead, 0)
	for rows.Next() {
		lead, scanErr := scanLeadRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		leads = append(leads, *lead)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate leads: %w", rowsErr)
	}

	return leads, nil
}

// UpdateStatus sets the lead's lifecycle status and refreshes updated_at.
// Setting the current status again is a valid no-op transition that still
// refreshes the timestamp. Returns ErrNotFound for an unknown id.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, st status.Status) (*models.StatusUpdate, error) {
	query := `
		UPDATE leads
		SET person = jsonb_set(person, '{status}', to_jsonb($2::text)),
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
		return nil, fmt.Errorf("update lead status: %w", err)
	}

	return &models.StatusUpdate{
		ID:        id,
		Status:    st,
		UpdatedAt: updatedAt,
	}, nil
}

func scanLeadRow(rows *sql.Rows) (*models.Lead, error) {
	var lead models.Lead
	var personJSON, companyJSON, fromJSON []byte

	if err := rows.Scan(
		&lead.ID,
		&personJSON,
		&companyJSON,
		&fromJSON,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan lead: %w", err)
	}

	if err := json.Unmarshal(personJSON, &lead.User); err != nil {
		return nil, fmt.Errorf("unmarshal person: %w", err)
	}
	if err := json.Unmarshal(companyJSON, &lead.Company); err != nil {
		return nil, fmt.Errorf("unmarshal company: %w", err)
	}
	if err := json.Unmarshal(fromJSON, &lead.ExtractedFrom); err != nil {
		return nil, fmt.Errorf("unmarshal extracted_from: %w", err)
	}

	return &lead, nil
}
