package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateAccessToken(7, "anna@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "anna@example.com", claims.Email)
	assert.Equal(t, "anna@example.com", claims.Subject)
	assert.Empty(t, claims.ID)
}

func TestJWTService_RefreshTokenCarriesID(t *testing.T) {
	service := NewJWTService("test-secret")

	tokenID, token, err := service.GenerateRefreshToken(7, "anna@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	extracted, err := service.ExtractTokenID(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, extracted)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	service := NewJWTService("test-secret")

	t.Run("garbage", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("another-secret")
		token, err := other.GenerateAccessToken(1, "a@x.com")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestJWTService_ExtractTokenID_RejectsAccessToken(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateAccessToken(1, "a@x.com")
	require.NoError(t, err)

	_, err = service.ExtractTokenID(token)
	assert.Error(t, err)
}

func TestJWTService_ExtractSubject(t *testing.T) {
	service := NewJWTService("test-secret")

	t.Run("valid token", func(t *testing.T) {
		token, err := service.GenerateAccessToken(1, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", service.ExtractSubject(token))
	})

	t.Run("undecodable input", func(t *testing.T) {
		assert.Empty(t, service.ExtractSubject(""))
		assert.Empty(t, service.ExtractSubject("garbage"))
	})
}
