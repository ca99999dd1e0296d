package service

import (
	"context"
	"fmt"
	"strings"

	"enapm-backend/internal/fault"
	"enapm-backend/internal/logger"
	"enapm-backend/internal/repository"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ProviderResult is what the external provider reports for a confirmed
// send. ID is the provider-assigned external identity.
type ProviderResult struct {
	ID string
}

// Provider is the outbound email gateway. Returning (nil, nil) violates the
// provider contract and is reported as EMAIL_SENT_BUT_NO_DATA_RETURNED.
type Provider interface {
	Send(ctx context.Context, opts SendEmailOptions) (*ProviderResult, error)
}

type emailService struct {
	provider Provider
	emails   repository.EmailRepository
}

// NewEmailService wraps a provider with audit-record persistence. Three
// failure shapes are distinguished: the provider refused the send, the
// provider confirmed without data, and the send succeeded but the audit
// record could not be saved.
func NewEmailService(provider Provider, emails repository.EmailRepository) EmailService {
	return &emailService{provider: provider, emails: emails}
}

func (s *emailService) Send(ctx context.Context, opts SendEmailOptions) (*SendReceipt, error) {
	opts.To = []string{strings.Join(opts.To, ",")}

	result, err := s.provider.Send(ctx, opts)
	if err != nil {
		return nil, fault.EmailNotSent(err.Error())
	}
	if result == nil || result.ID == "" {
		return nil, fault.ErrEmailSendButNoData
	}

	saved, err := s.emails.Save(ctx, repository.EmailForInsert{
		ExternalID: result.ID,
		To:         opts.To[0],
		From:       opts.From,
		Sender:     opts.Sender,
	})
	if err != nil {
		logger.Error("email sent but audit record not saved", "external_id", result.ID, "to", opts.To[0], "error", err)
		return nil, fault.ErrEmailSentButNotSaved
	}

	return &SendReceipt{Ref: saved.Ref, ExternalID: saved.ExternalID}, nil
}

// SendGridProvider sends through the SendGrid v3 API. The external id is
// taken from the X-Message-Id response header.
type SendGridProvider struct {
	apiKey   string
	fromName string
}

func NewSendGridProvider(apiKey, fromName string) *SendGridProvider {
	return &SendGridProvider{apiKey: apiKey, fromName: fromName}
}

func (p *SendGridProvider) Send(ctx context.Context, opts SendEmailOptions) (*ProviderResult, error) {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(p.fromName, opts.From))
	message.Subject = opts.Subject

	personalization := mail.NewPersonalization()
	for _, addr := range splitAddresses(opts.To) {
		personalization.AddTos(mail.NewEmail("", addr))
	}
	for _, addr := range splitAddresses(opts.CC) {
		personalization.AddCCs(mail.NewEmail("", addr))
	}
	for _, addr := range splitAddresses(opts.BCC) {
		personalization.AddBCCs(mail.NewEmail("", addr))
	}
	message.AddPersonalizations(personalization)

	if opts.Text != "" {
		message.AddContent(mail.NewContent("text/plain", opts.Text))
	}
	if opts.HTML != "" {
		message.AddContent(mail.NewContent("text/html", opts.HTML))
	}

	client := sendgrid.NewSendClient(p.apiKey)
	logger.ExternalServiceCall("sendgrid", "send", "subject", opts.Subject)
	response, err := client.SendWithContext(ctx, message)
	logger.ExternalServiceResult("sendgrid", "send", err)
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return nil, fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	ids := response.Headers["X-Message-Id"]
	if len(ids) == 0 {
		return &ProviderResult{}, nil
	}
	return &ProviderResult{ID: ids[0]}, nil
}

func splitAddresses(groups []string) []string {
	var out []string
	for _, g := range groups {
		for _, addr := range strings.Split(g, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				out = append(out, addr)
			}
		}
	}
	return out
}
