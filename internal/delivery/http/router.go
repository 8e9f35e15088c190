package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"gatherly/internal/delivery/http/controllers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	users *controllers.UserController,
	events *controllers.EventController,
	invites *controllers.InviteController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", users.SignUp)
	mux.HandleFunc("POST /auth/login", users.Login)

	// Profile
	mux.HandleFunc("GET /me", auth(users.GetMe))
	mux.HandleFunc("GET /me/invites", auth(invites.ListMyInvites))

	// Events
	mux.HandleFunc("POST /events", auth(events.CreateEvent))
	mux.HandleFunc("GET /events", auth(events.ListMyEvents))
	mux.HandleFunc("POST /events/join", auth(invites.Join))
	mux.HandleFunc("GET /events/{eventID}", auth(events.GetEvent))

	// Invites
	mux.HandleFunc("POST /events/{eventID}/invites", auth(invites.Invite))
	mux.HandleFunc("GET /events/{eventID}/invites", auth(invites.ListEventInvites))
	mux.HandleFunc("POST /invites/{inviteID}/accept", auth(invites.Accept))
	mux.HandleFunc("POST /invites/{inviteID}/decline", auth(invites.Decline))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
