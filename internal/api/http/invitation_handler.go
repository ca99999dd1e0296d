package http

import (
	"net/http"

	"enapm-backend/internal/domain"
	"enapm-backend/internal/repository"
	"enapm-backend/internal/service"

	"github.com/gorilla/mux"
)

// InvitationHandler exposes the invitation workflow over HTTP
type InvitationHandler struct {
	invitations service.InvitationService
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitations service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// HandleInvite handles the transactional invitation path
func (h *InvitationHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var cmd service.InviteCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	if cmd.TeamRef == "" || cmd.InviterRef == "" || cmd.To == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:    "INVALID_REQUEST_BODY",
			Message: "team_ref, inviter_ref and to are required",
		})
		return
	}

	if err := h.invitations.Invite(r.Context(), cmd); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

type createInvitationRequest struct {
	Invitee struct {
		Email *string `json:"email"`
		SMS   *string `json:"sms"`
		URL   *string `json:"url"`
	} `json:"invitee"`
	Inviter struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	} `json:"inviter"`
	TeamRef *string `json:"team_ref"`
}

type createInvitationResponse struct {
	Invitation   any    `json:"invitation"`
	Notification any    `json:"notification,omitempty"`
	Warning      string `json:"warning,omitempty"`
}

// HandleCreate handles the record-first invitation path. A notification
// failure is reported as a warning next to the created invitation.
func (h *InvitationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.invitations.Create(r.Context(), repository.InvitationForCreate{
		Invitee: domain.Invitee{Email: req.Invitee.Email, SMS: req.Invitee.SMS, URL: req.Invitee.URL},
		Inviter: domain.Inviter{Email: req.Inviter.Email, Username: req.Inviter.Username},
		TeamRef: req.TeamRef,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := createInvitationResponse{Invitation: result.Invitation}
	if result.Notification != nil {
		if result.Notification.Err != nil {
			resp.Warning = result.Notification.Err.Error()
		} else {
			resp.Notification = result.Notification.Receipt
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleRevoke handles invitation revocation
func (h *InvitationHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	if err := h.invitations.Revoke(r.Context(), ref); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// HandleNotify re-sends the invitation email with a fresh token
func (h *InvitationHandler) HandleNotify(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	receipt, err := h.invitations.SendNotification(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

type setEmailRequest struct {
	Email string `json:"email"`
}

// HandleSetEmail binds a write-once email to an invitation
func (h *InvitationHandler) HandleSetEmail(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	var req setEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:    "INVALID_REQUEST_BODY",
			Message: "email is required",
		})
		return
	}

	if err := h.invitations.SetInviteeEmail(r.Context(), ref, req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleValidate verifies a callback token and returns its payload
func (h *InvitationHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:    "INVALID_REQUEST_BODY",
			Message: "token query parameter is required",
		})
		return
	}

	payload, err := h.invitations.ValidateInvitation(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// HandleFromToken resolves a record-bound token to its invitation
func (h *InvitationHandler) HandleFromToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:    "INVALID_REQUEST_BODY",
			Message: "token query parameter is required",
		})
		return
	}

	inv, err := h.invitations.GetInvitationFromToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
