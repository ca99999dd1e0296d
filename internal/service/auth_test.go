package service

import (
	"testing"
	"time"

	"enapm-backend/internal/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	auth := NewAuthService("session-secret-0123456789abcdef-01234567", time.Hour, clock.System())

	hash, err := auth.HashPassword("hunter2!")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2!", hash)

	assert.True(t, auth.ValidatePassword(hash, "hunter2!"))
	assert.False(t, auth.ValidatePassword(hash, "hunter3!"))
}

func TestGenerateUserRefIsUnique(t *testing.T) {
	auth := NewAuthService("session-secret-0123456789abcdef-01234567", time.Hour, clock.System())

	a := auth.GenerateUserRef()
	b := auth.GenerateUserRef()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestCreateSession(t *testing.T) {
	secret := "session-secret-0123456789abcdef-01234567"
	clk := clock.Fixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	auth := NewAuthService(secret, 24*time.Hour, clk)

	session, err := auth.CreateSession("user-1")
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(24*time.Hour), session.ExpiresAt)

	parsed, err := jwt.Parse(session.Token, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(clk.Now))
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "session", claims["type"])
}
