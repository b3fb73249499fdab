package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/domain"
)

// InviteGuestInput is one guest in a bulk invite request.
type InviteGuestInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	MaxGuests int    `json:"max_guests"`
}

// CreateInvitesRequest is the request body for POST /events/{eventID}/invites.
type CreateInvitesRequest struct {
	Guests []InviteGuestInput `json:"guests"`
}

// Validate implements Validator.
func (c CreateInvitesRequest) Validate() []string {
	var errs []string
	if len(c.Guests) == 0 {
		errs = append(errs, "at least one guest is required")
	}
	for i, g := range c.Guests {
		if strings.TrimSpace(g.Name) == "" {
			errs = append(errs, fmt.Sprintf("guests[%d].name is required", i))
		}
		if strings.TrimSpace(g.Email) == "" {
			errs = append(errs, fmt.Sprintf("guests[%d].email is required", i))
		} else if !emailRegex.MatchString(strings.TrimSpace(g.Email)) {
			errs = append(errs, fmt.Sprintf("guests[%d].email is invalid", i))
		}
		if g.MaxGuests < 1 {
			errs = append(errs, fmt.Sprintf("guests[%d].max_guests must be at least 1", i))
		}
	}
	return errs
}

// InviteListResponse is the paginated response body for GET /events/{eventID}/invites.
type InviteListResponse struct {
	Invites    []*domain.Invite       `json:"invites"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type InviteController struct {
	Logger  *slog.Logger
	Service domain.InviteService
}

func NewInviteController(logger *slog.Logger, svc domain.InviteService) *InviteController {
	return &InviteController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create invites in bulk
// @Description One invite per guest; each gets its own tokenized RSVP link mailed via the outbox. The raw tokens appear only in this response.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body CreateInvitesRequest true "Guests to invite"
// @Success 201 {object} helpers.APIResponse "data contains invites with one-time tokens"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/invites [post]
func (c *InviteController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvitesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	guests := make([]domain.InviteGuest, 0, len(req.Guests))
	for _, g := range req.Guests {
		guests = append(guests, domain.InviteGuest{Name: g.Name, Email: g.Email, MaxGuests: g.MaxGuests})
	}
	created, err := c.Service.CreateInvites(r.Context(), r.PathValue("eventID"), userID, guests)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// List godoc
// @Summary List invites
// @Description Paginated; supports a case-insensitive search over guest name and email.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param search query string false "Search guest name or email"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains invites and pagination"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/invites [get]
func (c *InviteController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	search := r.URL.Query().Get("search")
	invites, total, err := c.Service.ListInvites(r.Context(), r.PathValue("eventID"), userID, search, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InviteListResponse{
		Invites:    invites,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Revoke godoc
// @Summary Revoke an invite
// @Description The invite's RSVP link stops resolving. Revoking twice is a no-op.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param inviteID path string true "Invite ID"
// @Success 204 "no content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/invites/{inviteID} [delete]
func (c *InviteController) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.RevokeInvite(r.Context(), r.PathValue("eventID"), r.PathValue("inviteID"), userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Resend godoc
// @Summary Resend an invite
// @Description Rotates the invite token (old links stop working) and queues a fresh email as a new outbox row.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param inviteID path string true "Invite ID"
// @Success 200 {object} helpers.APIResponse "data contains the invite with its new token"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/invites/{inviteID}/resend [post]
func (c *InviteController) Resend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resent, err := c.Service.ResendInvite(r.Context(), r.PathValue("eventID"), r.PathValue("inviteID"), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resent)
}
