package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/lead-tracker/internal/models"
	"github.com/jonesrussell/lead-tracker/internal/testhelpers"
)

func newExtractedDataRepo(t *testing.T) (*ExtractedDataRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewExtractedDataRepository(db, testhelpers.NewTestLogger()), mock
}

func TestExtractedDataRepository_Create(t *testing.T) {
	repo, mock := newExtractedDataRepo(t)

	data := &models.ExtractedData{
		Type:            models.TypeLinkedInProfile,
		Platform:        "linkedin",
		URL:             "https://linkedin.com/in/someone",
		ExtractedFields: models.JSONMap{"name": "Someone"},
		ExtractedBy:     "7f8d9a10-0000-0000-0000-000000000001",
		Metadata: models.Metadata{
			ExtensionVersion: models.DefaultExtensionVersion,
			DataVersion:      models.DataVersion,
		},
	}

	mock.ExpectExec("INSERT INTO extracted_data").
		WithArgs(
			sqlmock.AnyArg(), // id
			data.Type,
			data.Platform,
			data.URL,
			sqlmock.AnyArg(), // extracted_fields
			data.ExtractedBy,
			sqlmock.AnyArg(), // extracted_at
			sqlmock.AnyArg(), // metadata
			sqlmock.AnyArg(), // tags
			"",               // notes
			true,             // is_active
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), data)
	require.NoError(t, err)

	assert.NotEmpty(t, data.ID)
	assert.False(t, data.ExtractedAt.IsZero())
	assert.True(t, data.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func extractedDataRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "type", "platform", "url", "extracted_fields",
		"extracted_by", "extracted_at", "metadata", "tags", "notes", "is_active",
	}).AddRow(
		"rec-1",
		models.TypeLinkedInProfile,
		"linkedin",
		"https://linkedin.com/in/someone",
		[]byte(`{"name":"Someone"}`),
		"owner-1",
		now,
		[]byte(`{"extensionVersion":"2.0.0","dataVersion":"2.0"}`),
		[]byte(`["prospect"]`),
		nil,
		true,
	)
}

func TestExtractedDataRepository_ListPaginated(t *testing.T) {
	repo, mock := newExtractedDataRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM extracted_data").
		WithArgs("owner-1", models.TypeLinkedInProfile, 50, 0).
		WillReturnRows(extractedDataRows(now))

	records, err := repo.ListPaginated(context.Background(), "owner-1", ExtractedDataFilter{
		Type: models.TypeLinkedInProfile,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, models.JSONMap{"name": "Someone"}, rec.ExtractedFields)
	assert.Equal(t, "2.0.0", rec.Metadata.ExtensionVersion)
	assert.Equal(t, models.StringList{"prospect"}, rec.Tags)
	assert.Empty(t, rec.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractedDataRepository_ListPaginated_Offset(t *testing.T) {
	repo, mock := newExtractedDataRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM extracted_data").
		WithArgs("owner-1", 10, 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "type", "platform", "url", "extracted_fields",
			"extracted_by", "extracted_at", "metadata", "tags", "notes", "is_active",
		}))

	records, err := repo.ListPaginated(context.Background(), "owner-1", ExtractedDataFilter{
		Page:  3,
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractedDataRepository_Count(t *testing.T) {
	repo, mock := newExtractedDataRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM extracted_data`).
		WithArgs("owner-1", "linkedin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.Count(context.Background(), "owner-1", ExtractedDataFilter{Platform: "linkedin"})
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractedDataRepository_StatsByType(t *testing.T) {
	repo, mock := newExtractedDataRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"type", "count", "last_extracted"}).
		AddRow(models.TypeLinkedInProfile, 5, now).
		AddRow(models.TypeLinkedInJob, 2, now.Add(-time.Hour))

	mock.ExpectQuery("SELECT type, COUNT(.+) FROM extracted_data").
		WithArgs("owner-1").
		WillReturnRows(rows)

	stats, err := repo.StatsByType(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, models.TypeLinkedInProfile, stats[0].Type)
	assert.Equal(t, 5, stats[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractedDataFilter_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		filter    ExtractedDataFilter
		wantPage  int
		wantLimit int
	}{
		{"zero values", ExtractedDataFilter{}, DefaultPage, DefaultLimit},
		{"negative values", ExtractedDataFilter{Page: -1, Limit: -10}, DefaultPage, DefaultLimit},
		{"valid values", ExtractedDataFilter{Page: 3, Limit: 25}, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Normalize()
			assert.Equal(t, tt.wantPage, tt.filter.Page)
			assert.Equal(t, tt.wantLimit, tt.filter.Limit)
		})
	}
}

func TestExtractedDataFilter_Offset(t *testing.T) {
	filter := ExtractedDataFilter{Page: 4, Limit: 25}
	assert.Equal(t, 75, filter.Offset())

	filter = ExtractedDataFilter{Page: 1, Limit: 50}
	assert.Equal(t, 0, filter.Offset())
}
