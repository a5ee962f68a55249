package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryerp/backend/internal/infrastructure/auth"
	"github.com/factoryerp/backend/internal/infrastructure/config"
)

func newTestJWTService() *auth.JWTService {
	cfg := config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	}
	return auth.NewJWTService(cfg)
}

func newTestToken(t *testing.T, jwtService *auth.JWTService, role string) (string, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "testuser",
		Role:     role,
	}
	token, err := jwtService.GenerateAccessToken(input)
	require.NoError(t, err)
	return token, input
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	token, input := newTestToken(t, jwtService, "finance")

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		assert.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.TenantID.String(), claims.TenantID)
		assert.Equal(t, "finance", GetJWTRole(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	jwtService := newTestJWTService()

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	jwtService := newTestJWTService()

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "InvalidFormat token123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	jwtService := newTestJWTService()

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	expired := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "test-issuer",
	})
	token, _ := newTestToken(t, expired, "finance")

	router := gin.New()
	router.Use(JWTAuthMiddleware(newTestJWTService()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_TOKEN_EXPIRED")
}
