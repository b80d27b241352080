package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/lead-tracker/internal/auth"
	"github.com/jonesrussell/lead-tracker/internal/models"
	"github.com/jonesrussell/lead-tracker/internal/repository"
	"github.com/jonesrussell/lead-tracker/internal/testhelpers"
)

type fakeUserGetter struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserGetter) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func newGuardedRouter(tokens *auth.TokenManager, users *fakeUserGetter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(tokens, users, testhelpers.NewTestLogger()), func(c *gin.Context) {
		identity, _ := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"username": identity.Username})
	})
	return router
}

func requestWithToken(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_NoToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := newGuardedRouter(tokens, &fakeUserGetter{})

	w := requestWithToken(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No token provided. Access denied.")
}

func TestAuth_MalformedHeader(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := newGuardedRouter(tokens, &fakeUserGetter{})

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc", "justatoken"} {
		w := requestWithToken(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.Contains(t, w.Body.String(), "No token provided. Access denied.")
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := newGuardedRouter(tokens, &fakeUserGetter{})

	w := requestWithToken(router, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token is not valid.")
}

func TestAuth_UnknownUser(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := newGuardedRouter(tokens, &fakeUserGetter{})

	token, _, err := tokens.Generate(uuid.New())
	require.NoError(t, err)

	w := requestWithToken(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token is invalid. User not found.")
}

func TestAuth_DeactivatedAccount(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	userID := uuid.New()
	users := &fakeUserGetter{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Username: "inactive", IsActive: false},
	}}
	router := newGuardedRouter(tokens, users)

	token, _, err := tokens.Generate(userID)
	require.NoError(t, err)

	w := requestWithToken(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Account is deactivated.")
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	userID := uuid.New()
	users := &fakeUserGetter{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Username: "alice", IsActive: true},
	}}
	router := newGuardedRouter(tokens, users)

	token, _, err := tokens.Generate(userID)
	require.NoError(t, err)

	w := requestWithToken(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestGetIdentity_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetIdentity(c)
	assert.False(t, ok)
}
