package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/lead-tracker/internal/middleware"
	"github.com/jonesrussell/lead-tracker/internal/models"
	"github.com/jonesrussell/lead-tracker/internal/repository"
	"github.com/jonesrussell/lead-tracker/internal/status"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testIdentity = models.Identity{
	ID:       uuid.MustParse("7f8d9a10-0000-0000-0000-000000000001"),
	Username: "alice",
	Email:    "alice@example.com",
	Role:     "user",
}

// withIdentity stands in for the auth guard in handler tests.
func withIdentity(identity models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, identity)
		c.Next()
	}
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// fakeExtractedDataStore implements ExtractedDataStore with function fields.
type fakeExtractedDataStore struct {
	create        func(ctx context.Context, data *models.ExtractedData) error
	listPaginated func(ctx context.Context, extractedBy string, filter repository.ExtractedDataFilter) ([]models.ExtractedData, error)
	count         func(ctx context.Context, extractedBy string, filter repository.ExtractedDataFilter) (int, error)
	statsByType   func(ctx context.Context, extractedBy string) ([]repository.TypeCount, error)
}

func (f *fakeExtractedDataStore) Create(ctx context.Context, data *models.ExtractedData) error {
	return f.create(ctx, data)
}

func (f *fakeExtractedDataStore) ListPaginated(ctx context.Context, extractedBy string, filter repository.ExtractedDataFilter) ([]models.ExtractedData, error) {
	return f.listPaginated(ctx, extractedBy, filter)
}

func (f *fakeExtractedDataStore) Count(ctx context.Context, extractedBy string, filter repository.ExtractedDataFilter) (int, error) {
	return f.count(ctx, extractedBy, filter)
}

func (f *fakeExtractedDataStore) StatsByType(ctx context.Context, extractedBy string) ([]repository.TypeCount, error) {
	return f.statsByType(ctx, extractedBy)
}

// fakeLeadStore implements LeadStore with function fields.
type fakeLeadStore struct {
	create       func(ctx context.Context, lead *models.Lead) error
	list         func(ctx context.Context, st *status.Status) ([]models.Lead, error)
	updateStatus func(ctx context.Context, id string, st status.Status) (*models.StatusUpdate, error)
}

func (f *fakeLeadStore) Create(ctx context.Context, lead *models.Lead) error {
	return f.create(ctx, lead)
}

func (f *fakeLeadStore) List(ctx context.Context, st *status.Status) ([]models.Lead, error) {
	return f.list(ctx, st)
}

func (f *fakeLeadStore) UpdateStatus(ctx context.Context, id string, st status.Status) (*models.StatusUpdate, error) {
	return f.updateStatus(ctx, id, st)
}

// fakeJobStore implements JobStore with function fields.
type fakeJobStore struct {
	create       func(ctx context.Context, job *models.Job) error
	list         func(ctx context.Context, st *status.Status) ([]models.Job, error)
	updateStatus func(ctx context.Context, id string, st status.Status) (*models.StatusUpdate, error)
}

func (f *fakeJobStore) Create(ctx context.Context, job *models.Job) error {
	return f.create(ctx, job)
}

func (f *fakeJobStore) List(ctx context.Context, st *status.Status) ([]models.Job, error) {
	return f.list(ctx, st)
}

func (f *fakeJobStore) UpdateStatus(ctx context.Context, id string, st status.Status) (*models.StatusUpdate, error) {
	return f.updateStatus(ctx, id, st)
}

// fakeUserStore implements UserStore backed by an in-memory map.
type fakeUserStore struct {
	createErr error
	users     map[string]*models.User
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = uuid.New()
	if f.users == nil {
		f.users = make(map[string]*models.User)
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}
