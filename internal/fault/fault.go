// Package fault holds the error taxonomy shared across services and
// repositories. Expected business failures are returned as kind-tagged
// values, never panicked, so callers can branch on errors.Is against the
// registry below.
package fault

import "errors"

type Kind string

const (
	KindTeamNotFound             Kind = "TEAM_NOT_FOUND"
	KindInviterNotFound          Kind = "INVITER_NOT_FOUND"
	KindNotificationFailed       Kind = "NOTIFICATION_FAILED"
	KindFailedToCreateInvitation Kind = "FAILED_TO_CREATE_INVITATION"
	KindFailedToUpdateToken      Kind = "FAILED_TO_UPDATE_TOKEN"
	KindInvitationNotFound       Kind = "INVITATION_NOT_FOUND"
	KindInvitationAlreadyRevoked Kind = "INVITATION_ALREADY_REVOKED"
	KindNotInProgress            Kind = "INVITATION_NOT_IN_PROGRESS"
	KindInviteeHasNoEmail        Kind = "INVITEE_HAS_NO_EMAIL"
	KindInviteeAlreadyHasEmail   Kind = "INVITEE_ALREADY_HAS_EMAIL"
	KindEmailNotSent             Kind = "EMAIL_NOT_SENT"
	KindEmailSendButNoData       Kind = "EMAIL_SENT_BUT_NO_DATA_RETURNED"
	KindEmailSentButNotSaved     Kind = "EMAIL_SENT_BUT_NOT_SAVED"
	KindTokenExpired             Kind = "TOKEN_EXPIRED"
	KindUnknownSignature         Kind = "UNKNOWN_SIGNATURE"
	KindUnknownTokenVerification Kind = "UNKNOWN_TOKEN_VERIFICATION"
	KindInvalidTokenPayload      Kind = "INVALID_INVITATION_TOKEN_PAYLOAD"
	KindEmailAlreadyUsed         Kind = "EMAIL_ALREADY_USED"
	KindIncorrectCredentials     Kind = "INCORRECT_EMAIL_OR_PASSWORD"
	KindNotFound                 Kind = "NOT_FOUND"
	KindInsertFailed             Kind = "INSERT_FAILED"
	KindUnknown                  Kind = "UNKNOWN_ERROR"
)

// Error carries a kind and a caller-safe message. The wrapped cause is
// reachable through Unwrap for logging but is never part of Error().
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Is matches on kind so the sentinel values below work with errors.Is
// regardless of message or cause.
func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// EmailNotSent tags a provider-reported send failure with its message.
func EmailNotSent(message string) *Error {
	return &Error{Kind: KindEmailNotSent, Message: message}
}

// Unknown wraps an unexpected cause. Only the kind and a generic message
// cross the boundary.
func Unknown(cause error) *Error {
	return &Error{Kind: KindUnknown, Message: "unknown error", cause: cause}
}

// WrapTokenVerification wraps a verification failure that is neither an
// expiry nor a signature mismatch.
func WrapTokenVerification(cause error) *Error {
	return &Error{Kind: KindUnknownTokenVerification, Message: "token verification failed", cause: cause}
}

// KindOf extracts the kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

var (
	ErrTeamNotFound             = New(KindTeamNotFound, "Team not found")
	ErrInviterNotFound          = New(KindInviterNotFound, "Inviter not found")
	ErrNotificationFailed       = New(KindNotificationFailed, "Notification failed")
	ErrFailedToCreateInvitation = New(KindFailedToCreateInvitation, "Failed to create invitation")
	ErrFailedToUpdateToken      = New(KindFailedToUpdateToken, "Failed to update invitation token")
	ErrInvitationNotFound       = New(KindInvitationNotFound, "Invitation not found")
	ErrInvitationAlreadyRevoked = New(KindInvitationAlreadyRevoked, "Invitation already revoked")
	ErrNotInProgress            = New(KindNotInProgress, "Invitation is not in progress")
	ErrInviteeHasNoEmail        = New(KindInviteeHasNoEmail, "Invitee has no email")
	ErrInviteeAlreadyHasEmail   = New(KindInviteeAlreadyHasEmail, "Invitee already has an email")
	ErrEmailSendButNoData       = New(KindEmailSendButNoData, "No email data returned, even though there was no error")
	ErrEmailSentButNotSaved     = New(KindEmailSentButNotSaved, "Email was sent, but it could not be saved")
	ErrTokenExpired             = New(KindTokenExpired, "Token has expired")
	ErrUnknownSignature         = New(KindUnknownSignature, "Token signature does not match")
	ErrInvalidTokenPayload      = New(KindInvalidTokenPayload, "Invalid invitation token payload")
	ErrEmailAlreadyUsed         = New(KindEmailAlreadyUsed, "Email is already in use")
	ErrIncorrectCredentials     = New(KindIncorrectCredentials, "Incorrect email or password")
	ErrNotFound                 = New(KindNotFound, "Not found")
	ErrInsertFailed             = New(KindInsertFailed, "Insert failed")
)
