package service

import (
	"context"
	"testing"

	"enapm-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySendsInvitationEmail(t *testing.T) {
	fake := &FakeProvider{}
	emailSvc, emails := newEmailFixture(fake)
	notifier := NewInvitationNotifier(emailSvc)

	receipt, err := notifier.Notify(context.Background(), NotificationCommand{
		Inviter:     domain.Inviter{Email: "inviter@example.com", Username: "inviter"},
		To:          "invitee@example.com",
		CallbackURL: "http://localhost:3000/invitation?token=abc",
		TeamTitle:   "Platform",
	})
	require.NoError(t, err)
	assert.Equal(t, "fake-external-id-1", receipt.ExternalID)

	require.Len(t, fake.Sent, 1)
	sent := fake.Sent[0]
	assert.Equal(t, "welcome@enapm.dev", sent.From)
	assert.Equal(t, "Welcome to ENA!", sent.Subject)
	assert.Equal(t, []string{"invitee@example.com"}, sent.To)
	assert.Equal(t, "inviter@example.com", sent.Sender)
	assert.Contains(t, sent.HTML, "http://localhost:3000/invitation?token=abc")
	assert.Contains(t, sent.HTML, "inviter@example.com")
	assert.Contains(t, sent.HTML, "Platform")

	records := emails.All()
	require.Len(t, records, 1)
	assert.Equal(t, "invitee@example.com", records[0].To)
}

func TestNotifyWithoutTeamTitle(t *testing.T) {
	fake := &FakeProvider{}
	emailSvc, _ := newEmailFixture(fake)
	notifier := NewInvitationNotifier(emailSvc)

	_, err := notifier.Notify(context.Background(), NotificationCommand{
		Inviter:     domain.Inviter{Email: "inviter@example.com"},
		To:          "invitee@example.com",
		CallbackURL: "http://localhost:3000/invitation?token=abc",
	})
	require.NoError(t, err)

	require.Len(t, fake.Sent, 1)
	assert.Contains(t, fake.Sent[0].HTML, "your team")
}
