package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/lead-tracker/internal/logger"
	"github.com/jonesrussell/lead-tracker/internal/models"
)

// ExtractedDataRepository persists browser-extension extraction records.
// Every query is scoped to the owning user.
type ExtractedDataRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewExtractedDataRepository(db *sql.DB, log logger.Logger) *ExtractedDataRepository {
	return &ExtractedDataRepository{
		db:     db,
		logger: log,
	}
}

// ExtractedDataFilter holds listing filters and 1-indexed pagination.
type ExtractedDataFilter struct {
	Type     string
	Platform string
	Page     int
	Limit    int
}

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// Normalize clamps pagination to sane values.
func (f *ExtractedDataFilter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
}

// Offset returns the row offset for the current page.
func (f *ExtractedDataFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

const extractedDataColumns = `id, type, platform, url, extracted_fields,
	       extracted_by, extracted_at, metadata, tags, notes, is_active`

// Create inserts a new extraction record. ID and ExtractedAt are assigned
// here; records are never updated afterwards.
func (r *ExtractedDataRepository) Create(ctx context.Context, data *models.ExtractedData) error {
	data.ID = uuid.New().String()
	if data.ExtractedAt.IsZero() {
		data.ExtractedAt = time.Now()
	}
	data.IsActive = true

	metadataJSON, err := json.Marshal(data.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO extracted_data (
			id, type, platform, url, extracted_fields,
			extracted_by, extracted_at, metadata, tags, notes, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(ctx,
		query,
		data.ID,
		data.Type,
		data.Platform,
		data.URL,
		data.ExtractedFields,
		data.ExtractedBy,
		data.ExtractedAt,
		metadataJSON,
		data.Tags,
		data.Notes,
		data.IsActive,
	)

	if err != nil {
		return fmt.Errorf("insert extracted data: %w", err)
	}

	return nil
}

// Count returns the number of records owned by extractedBy that match the
// filter (pagination is ignored).
func (r *ExtractedDataRepository) Count(ctx context.Context, extractedBy string, filter ExtractedDataFilter) (int, error) {
	whereClause, args := buildExtractedDataWhere(extractedBy, filter)
	query := `SELECT COUNT(*) FROM extracted_data WHERE ` + whereClause

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count extracted data: %w", err)
	}
	return count, nil
}

// ListPaginated returns the owner's records matching the filter, most recent
// first.
func (r *ExtractedDataRepository) ListPaginated(ctx context.Context, extractedBy string, filter ExtractedDataFilter) ([]models.ExtractedData, error) {
	filter.Normalize()

	whereClause, args := buildExtractedDataWhere(extractedBy, filter)
	limitPlaceholder := strconv.Itoa(len(args) + 1)
	offsetPlaceholder := strconv.Itoa(len(args) + 2)

	query := `
		SELECT ` + extractedDataColumns + `
		FROM extracted_data
		WHERE ` + whereClause + `
		ORDER BY extracted_at DESC
		LIMIT $` + limitPlaceholder + ` OFFSET $` + offsetPlaceholder

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query extracted data: %w", err)
	}
	defer rows.Close()

	return scanExtractedDataRows(rows)
}

// TypeCount is one group of the per-type aggregation.
type TypeCount struct {
	Type          string    `json:"type"`
	Count         int       `json:"count"`
	LastExtracted time.Time `json:"lastExtracted"`
}

// StatsByType groups the owner's records by extraction type with the most
// recent extraction timestamp per group.
func (r *ExtractedDataRepository) StatsByType(ctx context.Context, extractedBy string) ([]TypeCount, error) {
	query := `
		SELECT type, COUNT(*) AS count, MAX(extracted_at) AS last_extracted
		FROM extracted_data
		WHERE extracted_by = $1
		GROUP BY type
		ORDER BY count DESC
	`

	rows, err := r.db.QueryContext(ctx, query, extractedBy)
	if err != nil {
		return nil, fmt.Errorf("query extraction stats: %w", err)
	}
	defer rows.Close()

	stats := make([]TypeCount, 0)
	for rows.Next() {
		var tc TypeCount
		if scanErr := rows.Scan(&tc.Type, &tc.Count, &tc.LastExtracted); scanErr != nil {
			return nil, fmt.Errorf("scan stats row: %w", scanErr)
		}
		stats = append(stats, tc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate stats rows: %w", rowsErr)
	}

	return stats, nil
}

func buildExtractedDataWhere(extractedBy string, filter ExtractedDataFilter) (whereClause string, args []any) {
	clauses := []string{"extracted_by = $1"}
	args = []any{extractedBy}
	pos := 2

	if filter.Type != "" {
		clauses = append(clauses, fmt.Sprintf("type = $%d", pos))
		args = append(args, filter.Type)
		pos++
	}
	if filter.Platform != "" {
		clauses = append(clauses, fmt.Sprintf("platform = $%d", pos))
		args = append(args, filter.Platform)
	}

	return strings.Join(clauses, " AND "), args
}

func scanExtractedDataRows(rows *sql.Rows) ([]models.ExtractedData, error) {
	records := make([]models.ExtractedData, 0)
	for rows.Next() {
		var data models.ExtractedData
		var metadataJSON []byte
		var notes sql.NullString

		if err := rows.Scan(
			&data.ID,
			&data.Type,
			&data.Platform,
			&data.URL,
			&data.ExtractedFields,
			&data.ExtractedBy,
			&data.ExtractedAt,
			&metadataJSON,
			&data.Tags,
			&notes,
			&data.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan extracted data: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &data.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		data.Notes = notes.String

		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extracted data: %w", err)
	}
	return records, nil
}
