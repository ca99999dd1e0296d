package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"enapm-backend/internal/fault"
	"enapm-backend/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps the error taxonomy onto HTTP statuses. Foreign errors are
// reported as a generic 500 without leaking their message.
func writeError(w http.ResponseWriter, err error) {
	var tagged *fault.Error
	if !errors.As(err, &tagged) {
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Code:    string(fault.KindUnknown),
			Message: "unknown error",
		})
		return
	}
	kind := tagged.Kind

	var status int
	switch kind {
	case fault.KindTeamNotFound, fault.KindInviterNotFound,
		fault.KindInvitationNotFound, fault.KindNotFound:
		status = http.StatusNotFound
	case fault.KindInvitationAlreadyRevoked, fault.KindNotInProgress,
		fault.KindInviteeHasNoEmail, fault.KindInviteeAlreadyHasEmail,
		fault.KindEmailAlreadyUsed:
		status = http.StatusConflict
	case fault.KindTokenExpired, fault.KindUnknownSignature,
		fault.KindIncorrectCredentials:
		status = http.StatusUnauthorized
	case fault.KindInvalidTokenPayload, fault.KindUnknownTokenVerification:
		status = http.StatusBadRequest
	case fault.KindNotificationFailed, fault.KindEmailNotSent,
		fault.KindEmailSendButNoData, fault.KindEmailSentButNotSaved:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, errorBody{Code: string(kind), Message: tagged.Message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:    "INVALID_REQUEST_BODY",
			Message: "request body is not valid JSON",
		})
		return false
	}
	return true
}
