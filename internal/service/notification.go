package service

import (
	"bytes"
	"context"
	"html/template"

	"enapm-backend/internal/fault"
)

const (
	invitationFrom    = "welcome@enapm.dev"
	invitationSubject = "Welcome to ENA!"
)

var invitationTemplate = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; background-color: #ffffff;">
    <div style="max-width: 465px; margin: 40px auto; border: 1px solid #eaeaea; border-radius: 4px; padding: 20px;">
      <h1 style="font-size: 24px; text-align: center;">Join {{if .TeamTitle}}<strong>{{.TeamTitle}}</strong>{{else}}your team{{end}} on ENA</h1>
      <p>Hello {{.To}},</p>
      <p><strong>{{.InviterEmail}}</strong> has invited you{{if .TeamTitle}} to the <strong>{{.TeamTitle}}</strong> team{{end}}.</p>
      <div style="text-align: center; margin: 32px 0;">
        <a href="{{.CallbackURL}}" style="background-color: #000000; color: #ffffff; padding: 12px 20px; border-radius: 4px; text-decoration: none;">Join the team</a>
      </div>
      <p style="font-size: 12px; color: #666666;">or copy and paste this URL into your browser: <a href="{{.CallbackURL}}">{{.CallbackURL}}</a></p>
      <p style="font-size: 12px; color: #666666;">This invitation was intended for {{.To}}. If you were not expecting it, you can ignore this email.</p>
    </div>
  </body>
</html>
`))

// InvitationNotifier renders the invitation email and delegates to the
// EmailService. It owns the from address and subject line; one render and
// one send attempt per call, no retries.
type InvitationNotifier struct {
	emails EmailService
}

func NewInvitationNotifier(emails EmailService) *InvitationNotifier {
	return &InvitationNotifier{emails: emails}
}

func (n *InvitationNotifier) Notify(ctx context.Context, cmd NotificationCommand) (*SendReceipt, error) {
	var body bytes.Buffer
	err := invitationTemplate.Execute(&body, struct {
		To           string
		InviterEmail string
		TeamTitle    string
		CallbackURL  string
	}{
		To:           cmd.To,
		InviterEmail: cmd.Inviter.Email,
		TeamTitle:    cmd.TeamTitle,
		CallbackURL:  cmd.CallbackURL,
	})
	if err != nil {
		return nil, fault.Unknown(err)
	}

	return n.emails.Send(ctx, SendEmailOptions{
		From:    invitationFrom,
		To:      []string{cmd.To},
		Subject: invitationSubject,
		HTML:    body.String(),
		Sender:  cmd.Inviter.Email,
	})
}
