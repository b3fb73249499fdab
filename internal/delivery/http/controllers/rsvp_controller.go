package controllers

import (
	"log/slog"
	"net/http"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/domain"
)

// SubmitRSVPRequest is the request body for POST /rsvp.
type SubmitRSVPRequest struct {
	Token      string  `json:"token"`
	Response   string  `json:"response"`
	GuestCount int     `json:"guest_count"`
	Notes      *string `json:"notes,omitempty"`
}

// Validate implements Validator.
func (s SubmitRSVPRequest) Validate() []string {
	var errs []string
	if s.Token == "" {
		errs = append(errs, "token is required")
	}
	switch s.Response {
	case domain.RSVPResponseYes, domain.RSVPResponseNo, domain.RSVPResponseMaybe:
	case "":
		errs = append(errs, "response is required")
	default:
		errs = append(errs, "response must be YES, NO, or MAYBE")
	}
	if s.GuestCount < 0 {
		errs = append(errs, "guest_count cannot be negative")
	}
	if s.Notes != nil && len(*s.Notes) > 1000 {
		errs = append(errs, "notes must be at most 1000 characters")
	}
	return errs
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// Resolve godoc
// @Summary Resolve an invite token
// @Description Public. Returns the invite, its event, and the guest's current response if any. Unknown, tampered, and revoked tokens all get 404.
// @Tags rsvp
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} helpers.APIResponse "data contains invite, event, and rsvp"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /rsvp/{token} [get]
func (c *RSVPController) Resolve(w http.ResponseWriter, r *http.Request) {
	res, err := c.Service.ResolveInvite(r.Context(), r.PathValue("token"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// Submit godoc
// @Summary Submit an RSVP
// @Description Public. Records or updates the guest's response; guest_count is clamped to the invite's max. Confirmation and organizer notification emails are queued.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param body body SubmitRSVPRequest true "RSVP"
// @Success 200 {object} helpers.APIResponse "data contains the stored rsvp"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /rsvp [post]
func (c *RSVPController) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rsvp, err := c.Service.Submit(r.Context(), req.Token, req.Response, req.GuestCount, req.Notes)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvp)
}

// Summary godoc
// @Summary RSVP summary for an event
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains yes/no/maybe counts and expected guests"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/rsvps/summary [get]
func (c *RSVPController) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	summary, err := c.Service.Summary(r.Context(), r.PathValue("eventID"), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
