package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/lead-tracker/internal/auth"
	"github.com/jonesrussell/lead-tracker/internal/config"
	"github.com/jonesrussell/lead-tracker/internal/handlers"
	"github.com/jonesrussell/lead-tracker/internal/metrics"
	"github.com/jonesrussell/lead-tracker/internal/models"
	"github.com/jonesrussell/lead-tracker/internal/repository"
	"github.com/jonesrussell/lead-tracker/internal/testhelpers"
)

type noUsers struct{}

func (noUsers) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func newTestRouter(protectRecords bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Service: config.ServiceConfig{
			Version:     "1.0.0",
			Environment: "test",
		},
		Auth: config.AuthConfig{ProtectRecords: protectRecords},
	}

	log := testhelpers.NewTestLogger()
	m := metrics.NewMetrics()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	h := Handlers{
		Auth:          handlers.NewAuthHandler(nil, tokens, log),
		ExtractedData: handlers.NewExtractedDataHandler(nil, nil, log),
		Leads:         handlers.NewLeadHandler(nil, nil, log),
		Jobs:          handlers.NewJobHandler(nil, nil, log),
		Health:        handlers.NewHealthHandler(nil, cfg, m),
	}

	return NewRouter(cfg, h, tokens, noUsers{}, m, log)
}

func serve(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthRoute(t *testing.T) {
	router := newTestRouter(false)

	w := serve(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lead-tracker backend is running")
	assert.Contains(t, w.Body.String(), "Disconnected")
}

func TestRouter_NoRoute(t *testing.T) {
	router := newTestRouter(false)

	w := serve(router, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route /nope not found")
}

func TestRouter_ExtractedDataAlwaysGuarded(t *testing.T) {
	router := newTestRouter(false)

	w := serve(router, http.MethodGet, "/api/extracted-data", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No token provided. Access denied.")
}

func TestRouter_RecordsUnguardedByDefault(t *testing.T) {
	router := newTestRouter(false)

	// An invalid body reaches the handler and gets a 400, not a 401.
	w := serve(router, http.MethodPost, "/api/leads", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RecordsGuardedWhenProtected(t *testing.T) {
	router := newTestRouter(true)

	w := serve(router, http.MethodPost, "/api/leads", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, http.MethodPut, "/api/jobs/job-1/status", `{"status":"engaged"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_CORSReflectsOrigin(t *testing.T) {
	router := newTestRouter(false)

	req := httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "chrome-extension://abcdef", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_DemoRoute(t *testing.T) {
	router := newTestRouter(false)

	w := serve(router, http.MethodPost, "/api/demo/save", `{"type":"linkedin_profile"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Demo endpoint working!")
}
