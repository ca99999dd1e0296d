package service

import (
	"context"
	"time"

	"enapm-backend/internal/domain"
	"enapm-backend/internal/repository"
)

// SendEmailOptions describes one outbound email. Multiple recipients are
// flattened to a single comma-joined string before sending and persisting.
type SendEmailOptions struct {
	From    string
	To      []string
	CC      []string
	BCC     []string
	Subject string
	HTML    string
	Text    string
	// Sender is the address of the actor that initiated the email.
	Sender string
}

// SendReceipt identifies a confirmed send: the persisted audit record and
// the provider-assigned external id.
type SendReceipt struct {
	Ref        string `json:"ref"`
	ExternalID string `json:"external_id"`
}

type EmailService interface {
	Send(ctx context.Context, opts SendEmailOptions) (*SendReceipt, error)
}

// NotificationCommand carries everything the invitation email template
// needs.
type NotificationCommand struct {
	Inviter     domain.Inviter
	To          string
	CallbackURL string
	TeamTitle   string
}

type InvitationNotificationService interface {
	Notify(ctx context.Context, cmd NotificationCommand) (*SendReceipt, error)
}

// InviteCommand is the transactional invitation path: both actors are
// validated before anything is sent.
type InviteCommand struct {
	TeamRef    string `json:"team_ref"`
	InviterRef string `json:"inviter_ref"`
	To         string `json:"to"`
}

// NotificationOutcome reports the send attempt embedded in a record-first
// creation. Err is non-nil when the notification failed; the invitation
// itself persisted regardless.
type NotificationOutcome struct {
	Receipt *SendReceipt
	Err     error
}

type CreateInvitationResult struct {
	Invitation   *domain.Invitation
	Notification *NotificationOutcome
}

// InvitationTokenPayload is the wire contract of the signed callback token.
// Receivers validate this shape before trusting it.
type InvitationTokenPayload struct {
	To         string `json:"to"`
	TeamRef    string `json:"teamRef"`
	InviterRef string `json:"inviterRef"`
}

type InvitationService interface {
	Invite(ctx context.Context, cmd InviteCommand) error
	Create(ctx context.Context, inv repository.InvitationForCreate) (*CreateInvitationResult, error)
	Revoke(ctx context.Context, ref string) error
	SendNotification(ctx context.Context, ref string) (*SendReceipt, error)
	SetInviteeEmail(ctx context.Context, ref, email string) error
	ValidateInvitation(ctx context.Context, token string) (*InvitationTokenPayload, error)
	GetInvitationFromToken(ctx context.Context, token string) (*domain.Invitation, error)
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService supplies hashing, user identity generation and session
// issuance. Consumed as a capability; the invitation core never touches
// credentials directly.
type AuthService interface {
	HashPassword(password string) (string, error)
	ValidatePassword(hashedPassword, password string) bool
	GenerateUserRef() string
	CreateSession(userRef string) (*Session, error)
}

type SignupCommand struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserService interface {
	SignupWithPassword(ctx context.Context, cmd SignupCommand) (*domain.User, *Session, error)
	LoginWithPassword(ctx context.Context, email, password string) (*domain.User, *Session, error)
}
