package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnpack_backend/internal/config"
	"learnpack_backend/internal/model"
	"learnpack_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(cfg *config.Config, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	mw := AuthMiddleware(cfg)
	if optional {
		mw = TryAuthMiddleware(cfg)
	}

	r.GET("/protected", mw, func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": claims.UserID})
	})
	return r
}

func issueToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := util.GenerateJWT(&model.User{ID: "sub-1", Email: "a@b.c"}, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)
	return token
}

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "middleware-test-secret"}}
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	r := testRouter(testConfig(), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsForgedToken(t *testing.T) {
	cfg := testConfig()
	other := &config.Config{JWT: config.JWTConfig{Secret: "a-different-secret"}}
	r := testRouter(cfg, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, other))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_AcceptsBearerToken(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, cfg))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sub-1")
}

func TestAuthMiddleware_AcceptsQueryToken(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+issueToken(t, cfg), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTryAuthMiddleware_AllowsGuests(t *testing.T) {
	r := testRouter(testConfig(), true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}
