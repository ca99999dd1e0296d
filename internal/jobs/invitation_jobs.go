package jobs

import (
	"context"

	"enapm-backend/internal/logger"
)

// ExpireInvitations marks in-progress invitations older than the token
// lifetime as expired. Tokens expire on their own at verification time;
// this sweep keeps the stored status in line with them.
func (jr *JobRunner) ExpireInvitations() {
	jr.runWithRecovery("ExpireInvitations", func() {
		ctx := context.Background()
		cutoff := jr.clock.Now().Add(-jr.config.InvitationExpiry())

		count, err := jr.invitations.MarkExpiredBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to expire invitations", "cutoff", cutoff, "error", err)
			return
		}
		logger.Info("Invitations expired", "count", count, "cutoff", cutoff)
	})
}
