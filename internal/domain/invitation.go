package domain

import "time"

type InvitationStatus string

const (
	InvitationStatusInProgress InvitationStatus = "InProgress"
	InvitationStatusRevoked    InvitationStatus = "Revoked"
	InvitationStatusAccepted   InvitationStatus = "Accepted"
	InvitationStatusExpired    InvitationStatus = "Expired"
)

// Invitee is the recipient of an invitation. At least one channel must be
// set; email-less invitations (sms/url channels) never trigger a send.
type Invitee struct {
	Email *string `json:"email"`
	SMS   *string `json:"sms"`
	URL   *string `json:"url"`
}

// HasChannel reports whether any contact channel is present.
func (i Invitee) HasChannel() bool {
	return i.Email != nil || i.SMS != nil || i.URL != nil
}

// Inviter is the sending actor of an invitation.
type Inviter struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Invitation is an offer for a recipient to join a team. It owns its status
// and timestamps exclusively and references team and inviter by ref only.
type Invitation struct {
	ID        int32            `json:"-"`
	Ref       string           `json:"ref"`
	Invitee   Invitee          `json:"invitee"`
	Inviter   Inviter          `json:"inviter"`
	TeamRef   *string          `json:"team_ref"`
	Status    InvitationStatus `json:"status"`
	Token     *string          `json:"token"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt *time.Time       `json:"updated_at"`
}
