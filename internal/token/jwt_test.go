package token

import (
	"testing"
	"time"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/fault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789abcdef-0123456789abcdef"

func newTestJWT(expiration time.Duration) (*JWTService, *clock.FixedClock) {
	clk := clock.Fixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewJWTService(testSecret, expiration, clk), clk
}

func TestJWTRoundTrip(t *testing.T) {
	svc, _ := newTestJWT(48 * time.Hour)

	signed, err := svc.Sign(map[string]any{
		"to":         "invitee@example.com",
		"teamRef":    "team-1",
		"inviterRef": "user-1",
	})
	require.NoError(t, err)

	payload, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "invitee@example.com", payload["to"])
	assert.Equal(t, "team-1", payload["teamRef"])
	assert.Equal(t, "user-1", payload["inviterRef"])
}

func TestJWTStripsTimestampClaims(t *testing.T) {
	svc, _ := newTestJWT(48 * time.Hour)

	signed, err := svc.Sign(map[string]any{"ref": "inv-1"})
	require.NoError(t, err)

	payload, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ref": "inv-1"}, payload)
}

func TestJWTExpiry(t *testing.T) {
	svc, clk := newTestJWT(48 * time.Hour)

	signed, err := svc.Sign(map[string]any{"ref": "inv-1"})
	require.NoError(t, err)

	// Still valid one hour before the deadline
	clk.Advance(47 * time.Hour)
	_, err = svc.Verify(signed)
	assert.NoError(t, err)

	// Expired after three days
	clk.Advance(25 * time.Hour)
	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, fault.ErrTokenExpired)
}

func TestJWTRejectsForeignKey(t *testing.T) {
	signerA, _ := newTestJWT(48 * time.Hour)
	clk := clock.Fixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	signerB := NewJWTService("another-secret-0123456789abcdef-0123456789", 48*time.Hour, clk)

	signed, err := signerA.Sign(map[string]any{"ref": "inv-1"})
	require.NoError(t, err)

	_, err = signerB.Verify(signed)
	assert.ErrorIs(t, err, fault.ErrUnknownSignature)
}

func TestJWTRejectsGarbage(t *testing.T) {
	svc, _ := newTestJWT(48 * time.Hour)

	_, err := svc.Verify("not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, fault.KindUnknownTokenVerification, fault.KindOf(err))
}
