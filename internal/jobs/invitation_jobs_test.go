package jobs

import (
	"context"
	"testing"
	"time"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/config"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/repository"
	"enapm-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireInvitations(t *testing.T) {
	clk := clock.Fixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	invitations := memory.NewInvitationRepository(clk)
	cfg := &config.Config{}
	cfg.Token.InvitationExpiryDays = 2

	email := "invitee@example.com"
	stale, err := invitations.Insert(context.Background(), repository.InvitationForCreate{
		Invitee: domain.Invitee{Email: &email},
		Inviter: domain.Inviter{Email: "inviter@example.com", Username: "inviter"},
	})
	require.NoError(t, err)

	// Three days later a second invitation arrives; only the first one is
	// past the two-day lifetime.
	clk.Advance(72 * time.Hour)
	fresh, err := invitations.Insert(context.Background(), repository.InvitationForCreate{
		Invitee: domain.Invitee{Email: &email},
		Inviter: domain.Inviter{Email: "inviter@example.com", Username: "inviter"},
	})
	require.NoError(t, err)

	runner := NewJobRunner(invitations, clk, cfg)
	runner.ExpireInvitations()

	staleFound, err := invitations.Find(context.Background(), stale.Ref)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationStatusExpired, staleFound.Status)

	freshFound, err := invitations.Find(context.Background(), fresh.Ref)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationStatusInProgress, freshFound.Status)
}
