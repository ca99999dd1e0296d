package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/logger"
	"enapm-backend/internal/repository"
	"enapm-backend/internal/token"
)

// InvitationConfig wires the invitation orchestrator. Notifier serves the
// record-first path; NotifierFor builds a transaction-scoped notifier so the
// transactional path persists its audit record inside the same unit of work.
// Teams is only used to resolve team titles for the email body and may be
// nil.
type InvitationConfig struct {
	Invitations     repository.InvitationRepository
	Teams           repository.TeamRepository
	UnitOfWork      repository.UnitOfWork
	Tokens          token.Service
	Notifier        InvitationNotificationService
	NotifierFor     func(tx repository.Tx) InvitationNotificationService
	CallbackBaseURL string
}

type invitationService struct {
	invitations     repository.InvitationRepository
	teams           repository.TeamRepository
	uow             repository.UnitOfWork
	tokens          token.Service
	notifier        InvitationNotificationService
	notifierFor     func(tx repository.Tx) InvitationNotificationService
	callbackBaseURL string
}

func NewInvitationService(cfg InvitationConfig) InvitationService {
	return &invitationService{
		invitations:     cfg.Invitations,
		teams:           cfg.Teams,
		uow:             cfg.UnitOfWork,
		tokens:          cfg.Tokens,
		notifier:        cfg.Notifier,
		notifierFor:     cfg.NotifierFor,
		callbackBaseURL: cfg.CallbackBaseURL,
	}
}

// Invite is the all-or-nothing path: team and inviter are resolved inside
// one transaction, and a failed notification aborts the whole thing. The
// one exception is a send that succeeded but whose audit record could not
// be saved; the email is already out, so that failure is logged and the
// call still succeeds. The failed insert has aborted the transaction, and
// it holds no other writes, so the closure asks for a clean rollback
// instead of committing.
func (s *invitationService) Invite(ctx context.Context, cmd InviteCommand) error {
	return s.uow.Transaction(ctx, func(tx repository.Tx) error {
		team, err := tx.Teams().Find(ctx, cmd.TeamRef)
		if err != nil {
			if errors.Is(err, fault.ErrNotFound) {
				return fault.ErrTeamNotFound
			}
			return err
		}

		inviter, err := tx.Users().Find(ctx, cmd.InviterRef)
		if err != nil {
			if errors.Is(err, fault.ErrNotFound) {
				return fault.ErrInviterNotFound
			}
			return err
		}

		signed, err := s.tokens.Sign(map[string]any{
			"to":         cmd.To,
			"teamRef":    team.Ref,
			"inviterRef": inviter.Ref,
		})
		if err != nil {
			return err
		}

		_, err = s.notifierFor(tx).Notify(ctx, NotificationCommand{
			Inviter:     domain.Inviter{Email: inviter.Email, Username: inviter.Username},
			To:          cmd.To,
			CallbackURL: s.callbackURL(signed),
			TeamTitle:   team.Title,
		})
		if err != nil {
			if errors.Is(err, fault.ErrEmailSentButNotSaved) {
				logger.Warn("invitation email sent but audit record lost",
					"team_ref", team.Ref, "to", cmd.To)
				return repository.ErrRollback
			}
			return fault.ErrNotificationFailed
		}
		return nil
	})
}

// Create is the record-first path: the invitation persists no matter what
// happens afterwards, and the notification attempt is reported alongside it
// instead of failing the call. Invitations without an email channel are
// created silently.
func (s *invitationService) Create(ctx context.Context, inv repository.InvitationForCreate) (*CreateInvitationResult, error) {
	created, err := s.invitations.Insert(ctx, inv)
	if err != nil {
		return nil, fault.ErrFailedToCreateInvitation
	}

	if created.Invitee.Email == nil {
		return &CreateInvitationResult{Invitation: created}, nil
	}

	updated, receipt, err := s.issueAndNotify(ctx, created)
	if err != nil {
		if errors.Is(err, fault.ErrFailedToUpdateToken) {
			return nil, err
		}
		return &CreateInvitationResult{
			Invitation:   created,
			Notification: &NotificationOutcome{Err: err},
		}, nil
	}
	return &CreateInvitationResult{
		Invitation:   updated,
		Notification: &NotificationOutcome{Receipt: receipt},
	}, nil
}

func (s *invitationService) Revoke(ctx context.Context, ref string) error {
	inv, err := s.findInvitation(ctx, ref)
	if err != nil {
		return err
	}
	switch inv.Status {
	case domain.InvitationStatusRevoked:
		return fault.ErrInvitationAlreadyRevoked
	case domain.InvitationStatusInProgress:
	default:
		return fault.ErrNotInProgress
	}

	_, err = s.invitations.SetStatus(ctx, ref, domain.InvitationStatusRevoked)
	return err
}

// SendNotification re-sends the invitation email with a freshly minted
// token, replacing whatever token the invitation carried before.
func (s *invitationService) SendNotification(ctx context.Context, ref string) (*SendReceipt, error) {
	inv, err := s.findInvitation(ctx, ref)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvitationStatusInProgress {
		return nil, fault.ErrNotInProgress
	}
	if inv.Invitee.Email == nil {
		return nil, fault.ErrInviteeHasNoEmail
	}

	_, receipt, err := s.issueAndNotify(ctx, inv)
	return receipt, err
}

// SetInviteeEmail binds an email to an invitation created through another
// channel. The email is write-once.
func (s *invitationService) SetInviteeEmail(ctx context.Context, ref, email string) error {
	inv, err := s.findInvitation(ctx, ref)
	if err != nil {
		return err
	}
	if inv.Invitee.Email != nil {
		return fault.ErrInviteeAlreadyHasEmail
	}

	_, err = s.invitations.SetInviteeEmail(ctx, ref, email)
	return err
}

// ValidateInvitation verifies the token and checks that the payload has the
// transactional-path shape before anything downstream trusts it.
func (s *invitationService) ValidateInvitation(ctx context.Context, signed string) (*InvitationTokenPayload, error) {
	payload, err := s.tokens.Verify(signed)
	if err != nil {
		return nil, err
	}

	to, ok := payload["to"].(string)
	if !ok || !strings.Contains(to, "@") {
		return nil, fault.ErrInvalidTokenPayload
	}
	teamRef, ok := payload["teamRef"].(string)
	if !ok || teamRef == "" {
		return nil, fault.ErrInvalidTokenPayload
	}
	inviterRef, ok := payload["inviterRef"].(string)
	if !ok || inviterRef == "" {
		return nil, fault.ErrInvalidTokenPayload
	}

	return &InvitationTokenPayload{To: to, TeamRef: teamRef, InviterRef: inviterRef}, nil
}

// GetInvitationFromToken resolves a record-first token back to the
// invitation it was minted for.
func (s *invitationService) GetInvitationFromToken(ctx context.Context, signed string) (*domain.Invitation, error) {
	payload, err := s.tokens.Verify(signed)
	if err != nil {
		return nil, err
	}
	ref, ok := payload["ref"].(string)
	if !ok || ref == "" {
		return nil, fault.ErrInvalidTokenPayload
	}
	return s.findInvitation(ctx, ref)
}

// issueAndNotify mints a record-bound token, persists it on the invitation
// and sends the notification. Token persistence failures are fatal; a send
// failure is returned for the caller to interpret.
func (s *invitationService) issueAndNotify(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, *SendReceipt, error) {
	signed, err := s.tokens.Sign(map[string]any{"ref": inv.Ref})
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.invitations.SetToken(ctx, inv.Ref, signed)
	if err != nil {
		return nil, nil, fault.ErrFailedToUpdateToken
	}

	receipt, err := s.notifier.Notify(ctx, NotificationCommand{
		Inviter:     inv.Inviter,
		To:          *inv.Invitee.Email,
		CallbackURL: s.callbackURL(signed),
		TeamTitle:   s.teamTitle(ctx, inv.TeamRef),
	})
	if err != nil {
		return updated, nil, err
	}
	return updated, receipt, nil
}

func (s *invitationService) findInvitation(ctx context.Context, ref string) (*domain.Invitation, error) {
	inv, err := s.invitations.Find(ctx, ref)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return nil, fault.ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *invitationService) teamTitle(ctx context.Context, teamRef *string) string {
	if s.teams == nil || teamRef == nil {
		return ""
	}
	team, err := s.teams.Find(ctx, *teamRef)
	if err != nil {
		return ""
	}
	return team.Title
}

func (s *invitationService) callbackURL(signed string) string {
	return fmt.Sprintf("%s/invitation?token=%s",
		strings.TrimRight(s.callbackBaseURL, "/"), url.QueryEscape(signed))
}
