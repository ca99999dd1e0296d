package http

import (
	"enapm-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter wires all HTTP endpoints
func NewRouter(invitations service.InvitationService, users service.UserService) *mux.Router {
	router := mux.NewRouter()

	invitationHandler := NewInvitationHandler(invitations)
	router.HandleFunc("/api/invite", invitationHandler.HandleInvite).Methods("POST")
	router.HandleFunc("/api/invitations", invitationHandler.HandleCreate).Methods("POST")
	router.HandleFunc("/api/invitations/from-token", invitationHandler.HandleFromToken).Methods("GET")
	router.HandleFunc("/api/invitations/{ref}/revoke", invitationHandler.HandleRevoke).Methods("POST")
	router.HandleFunc("/api/invitations/{ref}/notify", invitationHandler.HandleNotify).Methods("POST")
	router.HandleFunc("/api/invitations/{ref}/email", invitationHandler.HandleSetEmail).Methods("PUT")
	// Callback landing endpoint named in outbound emails
	router.HandleFunc("/invitation", invitationHandler.HandleValidate).Methods("GET")

	userHandler := NewUserHandler(users)
	router.HandleFunc("/api/signup", userHandler.HandleSignup).Methods("POST")
	router.HandleFunc("/api/login", userHandler.HandleLogin).Methods("POST")

	return router
}
