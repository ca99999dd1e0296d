package http

import (
	"net/http"

	"enapm-backend/internal/service"
)

// UserHandler exposes signup and login over HTTP
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type sessionResponse struct {
	User    any `json:"user"`
	Session any `json:"session"`
}

// HandleSignup registers a user with an email, username and password
func (h *UserHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var cmd service.SignupCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	if cmd.Email == "" || cmd.Username == "" || cmd.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:    "INVALID_REQUEST_BODY",
			Message: "email, username and password are required",
		})
		return
	}

	user, session, err := h.users.SignupWithPassword(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{User: user, Session: session})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a user and issues a session
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, session, err := h.users.LoginWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user, Session: session})
}
