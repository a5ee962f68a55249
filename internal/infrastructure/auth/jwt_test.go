package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryerp/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-at-least-32-characters-long",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "factoryerp-backend",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestJWTService()
	tenantID := uuid.New()
	userID := uuid.New()

	token, err := service.GenerateAccessToken(GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: "jordan",
		Role:     "ground-team-manager",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "ground-team-manager", claims.Role)
	assert.Equal(t, "factoryerp-backend", claims.Issuer)

	parsedTenant, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, parsedTenant)
}

func TestValidateAccessTokenErrors(t *testing.T) {
	service := newTestJWTService()

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-also-32-characters-xx",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "factoryerp-backend",
		})
		token, err := other.GenerateAccessToken(GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
			Role:     "finance",
		})
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-at-least-32-characters-long",
			AccessTokenExpiration: -time.Minute,
			Issuer:                "factoryerp-backend",
		})
		token, err := expired.GenerateAccessToken(GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
			Role:     "finance",
		})
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects token without role", func(t *testing.T) {
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			TenantID: uuid.New().String(),
			UserID:   uuid.New().String(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-at-least-32-characters-long"))
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrMissingRole)
	})
}
