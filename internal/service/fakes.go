package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// FakeProvider records outbound emails instead of sending them. Setting
// FailTo makes sends to that address fail; the zero value never fails.
type FakeProvider struct {
	FailTo string
	Sent   []SendEmailOptions
	seq    int
}

func (p *FakeProvider) Send(_ context.Context, opts SendEmailOptions) (*ProviderResult, error) {
	if p.FailTo != "" {
		for _, to := range opts.To {
			if strings.Contains(to, p.FailTo) {
				return nil, errors.New("provider rejected recipient")
			}
		}
	}
	p.seq++
	p.Sent = append(p.Sent, opts)
	return &ProviderResult{ID: fmt.Sprintf("fake-external-id-%d", p.seq)}, nil
}

// FakeNotificationService records notification commands. Err, when set, is
// returned from every Notify call.
type FakeNotificationService struct {
	Err      error
	Notified []NotificationCommand
	seq      int
}

func (f *FakeNotificationService) Notify(_ context.Context, cmd NotificationCommand) (*SendReceipt, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.seq++
	f.Notified = append(f.Notified, cmd)
	return &SendReceipt{
		Ref:        fmt.Sprintf("fake-email-ref-%d", f.seq),
		ExternalID: fmt.Sprintf("fake-external-id-%d", f.seq),
	}, nil
}

// FakeAuthService is deterministic: hashing is reversible prefixing, refs
// are sequential and sessions carry a fixed token.
type FakeAuthService struct {
	seq int
}

func (f *FakeAuthService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (f *FakeAuthService) ValidatePassword(hashedPassword, password string) bool {
	return hashedPassword == "hashed:"+password
}

func (f *FakeAuthService) GenerateUserRef() string {
	f.seq++
	return fmt.Sprintf("fake-user-ref-%d", f.seq)
}

func (f *FakeAuthService) CreateSession(userRef string) (*Session, error) {
	return &Session{
		Token:     "fake-session-" + userRef,
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}
