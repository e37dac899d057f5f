package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) *AdminAuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hemmelig"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAdminAuthService(string(hash), "test-jwt-secret")
}

func TestAdminAuth_Login(t *testing.T) {
	svc := newTestAuth(t)
	assert.True(t, svc.Enabled())

	token, err := svc.Login("hemmelig")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(AdminTokenTTL), claims.ExpiresAt, time.Minute)

	_, err = svc.Login("forkert")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminAuth_Disabled(t *testing.T) {
	svc := NewAdminAuthService("", "secret")
	assert.False(t, svc.Enabled())
	_, err := svc.Login("anything")
	assert.Error(t, err)
}

func TestAdminAuth_ValidateToken(t *testing.T) {
	svc := newTestAuth(t)

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(-13 * time.Hour) }
		token, err := svc.generateToken()
		require.NoError(t, err)
		svc.now = time.Now

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewAdminAuthService("x", "another-secret")
		token, err := other.generateToken()
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong subject", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte("test-jwt-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hemmelig")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hemmelig")))
}
