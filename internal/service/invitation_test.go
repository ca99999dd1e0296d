package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository"
	"enapm-backend/internal/repository/memory"
	"enapm-backend/internal/repository/postgres"
	"enapm-backend/internal/token"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const callbackBase = "http://localhost:3000"

type invitationFixture struct {
	store    *memory.Store
	clk      *clock.FixedClock
	tokens   *token.Codec
	notifier *FakeNotificationService
	provider *FakeProvider
	svc      InvitationService
}

// newInvitationFixture routes both notification paths through a recording
// fake notifier.
func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()
	f := &invitationFixture{
		clk:      clock.Fixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		tokens:   token.NewCodec(),
		notifier: &FakeNotificationService{},
	}
	f.store = memory.NewStore(f.clk)
	f.svc = NewInvitationService(InvitationConfig{
		Invitations: f.store.Invitations,
		Teams:       f.store.Teams,
		UnitOfWork:  memory.NewUnitOfWork(f.store),
		Tokens:      f.tokens,
		Notifier:    f.notifier,
		NotifierFor: func(repository.Tx) InvitationNotificationService {
			return f.notifier
		},
		CallbackBaseURL: callbackBase,
	})
	return f
}

// newInvitationEmailFixture routes notifications through the real notifier
// and email service so audit records can be asserted on.
func newInvitationEmailFixture(t *testing.T) *invitationFixture {
	t.Helper()
	f := &invitationFixture{
		clk:      clock.Fixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		tokens:   token.NewCodec(),
		provider: &FakeProvider{},
	}
	f.store = memory.NewStore(f.clk)
	notifier := NewInvitationNotifier(NewEmailService(f.provider, f.store.Emails))
	f.svc = NewInvitationService(InvitationConfig{
		Invitations: f.store.Invitations,
		Teams:       f.store.Teams,
		UnitOfWork:  memory.NewUnitOfWork(f.store),
		Tokens:      f.tokens,
		Notifier:    notifier,
		NotifierFor: func(tx repository.Tx) InvitationNotificationService {
			return NewInvitationNotifier(NewEmailService(f.provider, tx.Emails()))
		},
		CallbackBaseURL: callbackBase,
	})
	return f
}

func (f *invitationFixture) seedTeam(t *testing.T, title string) string {
	t.Helper()
	team, err := f.store.Teams.Insert(context.Background(), repository.TeamForInsert{Title: title})
	require.NoError(t, err)
	return team.Ref
}

func (f *invitationFixture) seedUser(t *testing.T, ref, email, username string) string {
	t.Helper()
	_, err := f.store.Users.Insert(context.Background(), repository.UserForInsert{
		Ref:      ref,
		Email:    email,
		Username: username,
	})
	require.NoError(t, err)
	return ref
}

func (f *invitationFixture) createWithEmail(t *testing.T, email string) *domain.Invitation {
	t.Helper()
	result, err := f.svc.Create(context.Background(), repository.InvitationForCreate{
		Invitee: domain.Invitee{Email: &email},
		Inviter: domain.Inviter{Email: "inviter@example.com", Username: "inviter"},
	})
	require.NoError(t, err)
	return result.Invitation
}

func TestInviteEmptyStore(t *testing.T) {
	f := newInvitationFixture(t)

	err := f.svc.Invite(context.Background(), InviteCommand{
		TeamRef: "missing-team", InviterRef: "missing-user", To: "invitee@example.com",
	})
	require.ErrorIs(t, err, fault.ErrTeamNotFound)
	assert.Equal(t, "Team not found", err.Error())
	assert.Empty(t, f.notifier.Notified)
}

func TestInviteUnknownInviter(t *testing.T) {
	f := newInvitationFixture(t)
	teamRef := f.seedTeam(t, "Platform")

	err := f.svc.Invite(context.Background(), InviteCommand{
		TeamRef: teamRef, InviterRef: "missing-user", To: "invitee@example.com",
	})
	require.ErrorIs(t, err, fault.ErrInviterNotFound)
	assert.Empty(t, f.notifier.Notified)
}

func TestInviteSignsTokenAndNotifies(t *testing.T) {
	f := newInvitationFixture(t)
	teamRef := f.seedTeam(t, "Platform")
	inviterRef := f.seedUser(t, "user-1", "inviter@example.com", "inviter")

	err := f.svc.Invite(context.Background(), InviteCommand{
		TeamRef: teamRef, InviterRef: inviterRef, To: "invitee@example.com",
	})
	require.NoError(t, err)

	require.Len(t, f.notifier.Notified, 1)
	cmd := f.notifier.Notified[0]
	assert.Equal(t, "invitee@example.com", cmd.To)
	assert.Equal(t, "inviter@example.com", cmd.Inviter.Email)
	assert.Equal(t, "Platform", cmd.TeamTitle)

	// The callback URL embeds a token that validates back to the command.
	require.True(t, strings.HasPrefix(cmd.CallbackURL, callbackBase+"/invitation?token="))
	signed := strings.TrimPrefix(cmd.CallbackURL, callbackBase+"/invitation?token=")
	payload, err := f.svc.ValidateInvitation(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, &InvitationTokenPayload{
		To: "invitee@example.com", TeamRef: teamRef, InviterRef: inviterRef,
	}, payload)
}

func TestInviteRecordsAuditEmail(t *testing.T) {
	f := newInvitationEmailFixture(t)
	teamRef := f.seedTeam(t, "Platform")
	inviterRef := f.seedUser(t, "user-1", "inviter@example.com", "inviter")

	err := f.svc.Invite(context.Background(), InviteCommand{
		TeamRef: teamRef, InviterRef: inviterRef, To: "invitee@example.com",
	})
	require.NoError(t, err)

	require.Len(t, f.provider.Sent, 1)
	assert.Equal(t, []string{"invitee@example.com"}, f.provider.Sent[0].To)
	assert.Equal(t, "inviter@example.com", f.provider.Sent[0].Sender)

	records := f.store.Emails.All()
	require.Len(t, records, 1)
	assert.Equal(t, "fake-external-id-1", records[0].ExternalID)
	assert.Equal(t, "invitee@example.com", records[0].To)
}

func TestInviteNotificationFailure(t *testing.T) {
	f := newInvitationFixture(t)
	f.notifier.Err = fault.EmailNotSent("provider down")
	teamRef := f.seedTeam(t, "Platform")
	inviterRef := f.seedUser(t, "user-1", "inviter@example.com", "inviter")

	err := f.svc.Invite(context.Background(), InviteCommand{
		TeamRef: teamRef, InviterRef: inviterRef, To: "invitee@example.com",
	})
	assert.ErrorIs(t, err, fault.ErrNotificationFailed)
}

func TestInviteToleratesLostAuditRecord(t *testing.T) {
	f := newInvitationEmailFixture(t)
	teamRef := f.seedTeam(t, "Platform")
	inviterRef := f.seedUser(t, "user-1", "inviter@example.com", "inviter")

	// The email goes out but its audit record cannot be saved. The invite
	// still succeeds.
	err := f.svc.Invite(context.Background(), InviteCommand{
		TeamRef: teamRef, InviterRef: inviterRef, To: memory.FailRecipient,
	})
	require.NoError(t, err)
	assert.Len(t, f.provider.Sent, 1)
	assert.Empty(t, f.store.Emails.All())
}

// The lost-audit-record tolerance must hold over a real transaction: the
// failed INSERT has aborted it, so the closure rolls back instead of
// letting a doomed commit surface a driver error.
func TestInviteToleratesLostAuditRecordOverPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.Fixed(now)
	provider := &FakeProvider{}
	svc := NewInvitationService(InvitationConfig{
		Invitations: postgres.NewInvitationRepository(db, clk),
		UnitOfWork:  postgres.NewUnitOfWork(db, clk),
		Tokens:      token.NewCodec(),
		NotifierFor: func(tx repository.Tx) InvitationNotificationService {
			return NewInvitationNotifier(NewEmailService(provider, tx.Emails()))
		},
		CallbackBaseURL: callbackBase,
	})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM teams WHERE ref = \\$1").
		WithArgs("team-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ref", "title", "org_ref", "created_at"}).
			AddRow(int32(1), "team-1", "Platform", nil, now))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE ref = \\$1").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ref", "email", "username", "password_hash", "created_at"}).
			AddRow(int32(1), "user-1", "inviter@example.com", "inviter", "hash", now))
	mock.ExpectQuery("INSERT INTO emails").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = svc.Invite(context.Background(), InviteCommand{
		TeamRef: "team-1", InviterRef: "user-1", To: "invitee@example.com",
	})
	assert.NoError(t, err)
	assert.Len(t, provider.Sent, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithEmail(t *testing.T) {
	f := newInvitationFixture(t)
	email := "invitee@example.com"

	result, err := f.svc.Create(context.Background(), repository.InvitationForCreate{
		Invitee: domain.Invitee{Email: &email},
		Inviter: domain.Inviter{Email: "inviter@example.com", Username: "inviter"},
	})
	require.NoError(t, err)

	inv := result.Invitation
	assert.Equal(t, domain.InvitationStatusInProgress, inv.Status)
	require.NotNil(t, inv.Token)

	require.NotNil(t, result.Notification)
	require.NoError(t, result.Notification.Err)
	assert.NotNil(t, result.Notification.Receipt)
	require.Len(t, f.notifier.Notified, 1)
	assert.Equal(t, email, f.notifier.Notified[0].To)

	// The stored token resolves back to the invitation.
	found, err := f.svc.GetInvitationFromToken(context.Background(), *inv.Token)
	require.NoError(t, err)
	assert.Equal(t, inv.Ref, found.Ref)
}

func TestCreateWithoutEmailSendsNothing(t *testing.T) {
	f := newInvitationFixture(t)
	sms := "+15550100"

	result, err := f.svc.Create(context.Background(), repository.InvitationForCreate{
		Invitee: domain.Invitee{SMS: &sms},
		Inviter: domain.Inviter{Email: "inviter@example.com", Username: "inviter"},
	})
	require.NoError(t, err)

	assert.Nil(t, result.Notification)
	assert.Nil(t, result.Invitation.Token)
	assert.Empty(t, f.notifier.Notified)
}

func TestCreateSurvivesNotificationFailure(t *testing.T) {
	f := newInvitationFixture(t)
	f.notifier.Err = fault.EmailNotSent("provider down")
	email := "invitee@example.com"

	result, err := f.svc.Create(context.Background(), repository.InvitationForCreate{
		Invitee: domain.Invitee{Email: &email},
		Inviter: domain.Inviter{Email: "inviter@example.com", Username: "inviter"},
	})
	require.NoError(t, err)

	require.NotNil(t, result.Notification)
	assert.ErrorIs(t, result.Notification.Err, fault.EmailNotSent("provider down"))

	// The invitation persisted despite the failed send.
	found, err := f.store.Invitations.Find(context.Background(), result.Invitation.Ref)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationStatusInProgress, found.Status)
}

func TestRevoke(t *testing.T) {
	f := newInvitationFixture(t)
	inv := f.createWithEmail(t, "invitee@example.com")

	require.NoError(t, f.svc.Revoke(context.Background(), inv.Ref))

	found, err := f.store.Invitations.Find(context.Background(), inv.Ref)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationStatusRevoked, found.Status)
}

func TestRevokeTwice(t *testing.T) {
	f := newInvitationFixture(t)
	inv := f.createWithEmail(t, "invitee@example.com")

	require.NoError(t, f.svc.Revoke(context.Background(), inv.Ref))
	err := f.svc.Revoke(context.Background(), inv.Ref)
	assert.ErrorIs(t, err, fault.ErrInvitationAlreadyRevoked)
}

func TestRevokeNotInProgress(t *testing.T) {
	f := newInvitationFixture(t)

	for _, status := range []domain.InvitationStatus{
		domain.InvitationStatusAccepted,
		domain.InvitationStatusExpired,
	} {
		inv := f.createWithEmail(t, "invitee@example.com")
		_, err := f.store.Invitations.SetStatus(context.Background(), inv.Ref, status)
		require.NoError(t, err)

		err = f.svc.Revoke(context.Background(), inv.Ref)
		assert.ErrorIs(t, err, fault.ErrNotInProgress, "status %s", status)
	}
}

func TestRevokeUnknownRef(t *testing.T) {
	f := newInvitationFixture(t)

	err := f.svc.Revoke(context.Background(), "missing")
	assert.ErrorIs(t, err, fault.ErrInvitationNotFound)
}

func TestSendNotificationResends(t *testing.T) {
	f := newInvitationFixture(t)
	inv := f.createWithEmail(t, "invitee@example.com")

	receipt, err := f.svc.SendNotification(context.Background(), inv.Ref)
	require.NoError(t, err)
	assert.NotNil(t, receipt)
	assert.Len(t, f.notifier.Notified, 2)

	found, err := f.store.Invitations.Find(context.Background(), inv.Ref)
	require.NoError(t, err)
	assert.NotNil(t, found.Token)
}

func TestSendNotificationWithoutEmail(t *testing.T) {
	f := newInvitationFixture(t)
	sms := "+15550100"
	result, err := f.svc.Create(context.Background(), repository.InvitationForCreate{
		Invitee: domain.Invitee{SMS: &sms},
		Inviter: domain.Inviter{Email: "inviter@example.com", Username: "inviter"},
	})
	require.NoError(t, err)

	_, err = f.svc.SendNotification(context.Background(), result.Invitation.Ref)
	assert.ErrorIs(t, err, fault.ErrInviteeHasNoEmail)
}

func TestSendNotificationNotInProgress(t *testing.T) {
	f := newInvitationFixture(t)
	inv := f.createWithEmail(t, "invitee@example.com")
	require.NoError(t, f.svc.Revoke(context.Background(), inv.Ref))

	_, err := f.svc.SendNotification(context.Background(), inv.Ref)
	assert.ErrorIs(t, err, fault.ErrNotInProgress)
}

func TestSetInviteeEmailIsWriteOnce(t *testing.T) {
	f := newInvitationFixture(t)
	sms := "+15550100"
	result, err := f.svc.Create(context.Background(), repository.InvitationForCreate{
		Invitee: domain.Invitee{SMS: &sms},
		Inviter: domain.Inviter{Email: "inviter@example.com", Username: "inviter"},
	})
	require.NoError(t, err)
	ref := result.Invitation.Ref

	require.NoError(t, f.svc.SetInviteeEmail(context.Background(), ref, "late@example.com"))

	found, err := f.store.Invitations.Find(context.Background(), ref)
	require.NoError(t, err)
	require.NotNil(t, found.Invitee.Email)
	assert.Equal(t, "late@example.com", *found.Invitee.Email)

	err = f.svc.SetInviteeEmail(context.Background(), ref, "other@example.com")
	assert.ErrorIs(t, err, fault.ErrInviteeAlreadyHasEmail)
}

func TestValidateInvitationRejectsBadShape(t *testing.T) {
	f := newInvitationFixture(t)

	cases := map[string]map[string]any{
		"missing to":       {"teamRef": "t", "inviterRef": "u"},
		"to without at":    {"to": "not-an-email", "teamRef": "t", "inviterRef": "u"},
		"missing teamRef":  {"to": "a@x.com", "inviterRef": "u"},
		"empty inviterRef": {"to": "a@x.com", "teamRef": "t", "inviterRef": ""},
	}
	for name, payload := range cases {
		signed, err := f.tokens.Sign(payload)
		require.NoError(t, err)

		_, err = f.svc.ValidateInvitation(context.Background(), signed)
		assert.ErrorIs(t, err, fault.ErrInvalidTokenPayload, name)
	}
}

func TestValidateInvitationRejectsBadSignature(t *testing.T) {
	f := newInvitationFixture(t)

	_, err := f.svc.ValidateInvitation(context.Background(), token.InvalidToken)
	assert.ErrorIs(t, err, fault.ErrUnknownSignature)
}

func TestGetInvitationFromTokenUnknownRef(t *testing.T) {
	f := newInvitationFixture(t)

	signed, err := f.tokens.Sign(map[string]any{"ref": "missing"})
	require.NoError(t, err)

	_, err = f.svc.GetInvitationFromToken(context.Background(), signed)
	assert.ErrorIs(t, err, fault.ErrInvitationNotFound)
}

func TestGetInvitationFromTokenRejectsForeignPayload(t *testing.T) {
	f := newInvitationFixture(t)

	signed, err := f.tokens.Sign(map[string]any{"to": "a@x.com"})
	require.NoError(t, err)

	_, err = f.svc.GetInvitationFromToken(context.Background(), signed)
	assert.ErrorIs(t, err, fault.ErrInvalidTokenPayload)
}
