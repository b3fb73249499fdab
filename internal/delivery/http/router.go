package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventpages/internal/delivery/http/controllers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
	"eventpages/internal/ratelimit"
)

// RouterConfig bundles the controllers and cross-cutting pieces the router wires up.
type RouterConfig struct {
	Logger    *slog.Logger
	Verifier  domain.TokenVerifier
	Limiter   ratelimit.Limiter
	RateLimit int
	RateWin   time.Duration

	Auth       *controllers.AuthController
	Events     *controllers.EventController
	Invites    *controllers.InviteController
	RSVP       *controllers.RSVPController
	PageConfig *controllers.PageConfigController
	Media      *controllers.MediaController
	Analytics  *controllers.AnalyticsController
}

// NewRouter initializes the HTTP router with all application routes.
// Organizer routes sit behind bearer auth; public guest routes behind the
// per-IP rate limiter.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	limited := middleware.RateLimit(cfg.Limiter, cfg.RateLimit, cfg.RateWin, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", limited(cfg.Auth.SignUp))
	mux.HandleFunc("POST /auth/login", limited(cfg.Auth.Login))
	mux.HandleFunc("GET /auth/me", auth(cfg.Auth.Me))

	// Events
	mux.HandleFunc("POST /events", auth(cfg.Events.Create))
	mux.HandleFunc("GET /events", auth(cfg.Events.List))
	mux.HandleFunc("GET /events/{eventID}", auth(cfg.Events.Get))
	mux.HandleFunc("PATCH /events/{eventID}", auth(cfg.Events.Update))
	mux.HandleFunc("DELETE /events/{eventID}", auth(cfg.Events.Delete))
	mux.HandleFunc("POST /events/{eventID}/publish", auth(cfg.Events.Publish))
	mux.HandleFunc("POST /events/{eventID}/unpublish", auth(cfg.Events.Unpublish))
	mux.HandleFunc("POST /events/{eventID}/archive", auth(cfg.Events.Archive))

	// Collaborators
	mux.HandleFunc("POST /events/{eventID}/collaborators", auth(cfg.Events.AddCollaborator))
	mux.HandleFunc("GET /events/{eventID}/collaborators", auth(cfg.Events.ListCollaborators))
	mux.HandleFunc("DELETE /events/{eventID}/collaborators/{userID}", auth(cfg.Events.RemoveCollaborator))

	// Invites
	mux.HandleFunc("POST /events/{eventID}/invites", auth(cfg.Invites.Create))
	mux.HandleFunc("GET /events/{eventID}/invites", auth(cfg.Invites.List))
	mux.HandleFunc("DELETE /events/{eventID}/invites/{inviteID}", auth(cfg.Invites.Revoke))
	mux.HandleFunc("POST /events/{eventID}/invites/{inviteID}/resend", auth(cfg.Invites.Resend))

	// RSVP dashboard
	mux.HandleFunc("GET /events/{eventID}/rsvps/summary", auth(cfg.RSVP.Summary))

	// Page config
	mux.HandleFunc("GET /events/{eventID}/page-config", auth(cfg.PageConfig.Get))
	mux.HandleFunc("PUT /events/{eventID}/page-config", auth(cfg.PageConfig.Put))
	mux.HandleFunc("POST /events/{eventID}/page-config/publish", auth(cfg.PageConfig.Publish))
	mux.HandleFunc("POST /events/{eventID}/preview-token", auth(cfg.PageConfig.CreatePreviewToken))

	// Media
	mux.HandleFunc("POST /events/{eventID}/media", auth(cfg.Media.Upload))
	mux.HandleFunc("GET /events/{eventID}/media", auth(cfg.Media.List))
	mux.HandleFunc("DELETE /events/{eventID}/media/{mediaID}", auth(cfg.Media.Delete))

	// Stats
	mux.HandleFunc("GET /events/{eventID}/stats", auth(cfg.Analytics.Stats))

	// Public guest routes
	mux.HandleFunc("GET /public/events/{slug}", limited(cfg.PageConfig.GetPublicPage))
	mux.HandleFunc("POST /public/events/{slug}/track", limited(cfg.Analytics.Track))
	mux.HandleFunc("GET /rsvp/{token}", limited(cfg.RSVP.Resolve))
	mux.HandleFunc("POST /rsvp", limited(cfg.RSVP.Submit))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
