package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aybserve/clickenrent-backend-sub004/internal/authz"
	"github.com/aybserve/clickenrent-backend-sub004/internal/config"
	"github.com/aybserve/clickenrent-backend-sub004/internal/models"
	"github.com/aybserve/clickenrent-backend-sub004/internal/services"
)

func testRouter(t *testing.T) (*gin.Engine, *services.AuthService, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.AuthConfig{
		AccessSecret:     "test-access",
		RefreshSecret:    "test-refresh",
		AccessTTLMinutes: 15,
		RefreshTTLHours:  720,
	}
	tokens := services.NewTokenService(cfg, nil)
	revoked := services.NewRevocationStore()
	// middleware трогает только токены и чёрный список
	auth := services.NewAuthService(nil, tokens, revoked, nil, nil, nil)

	r := gin.New()
	r.GET("/ping", AuthMiddleware(auth), func(c *gin.Context) {
		id, _ := c.Get(CtxAccountID)
		c.JSON(http.StatusOK, gin.H{"account_id": id})
	})
	return r, auth, tokens
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testAccount() *models.Account {
	return &models.Account{
		ID:       42,
		Username: "tester",
		Email:    "tester@example.com",
		IsActive: true,
		Roles:    []string{authz.RoleUser},
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r, _, tokens := testRouter(t)

	token, err := tokens.IssueAccess(testAccount())
	require.NoError(t, err)

	w := doGet(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	r, _, _ := testRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer garbage").Code)
}

func TestAuthMiddleware_RevokedTokenRejectedImmediately(t *testing.T) {
	r, auth, tokens := testRouter(t)

	token, err := tokens.IssueAccess(testAccount())
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, doGet(r, "Bearer "+token).Code)

	require.NoError(t, auth.Logout(token))

	// отзыв виден следующему же запросу
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+token).Code)
}
