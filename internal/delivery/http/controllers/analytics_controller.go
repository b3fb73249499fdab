package controllers

import (
	"log/slog"
	"net/http"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/domain"
)

// TrackRequest is the request body for POST /public/events/{slug}/track.
type TrackRequest struct {
	Kind        string `json:"kind"`
	InviteToken string `json:"invite_token,omitempty"`
}

// Validate implements Validator.
func (t TrackRequest) Validate() []string {
	var errs []string
	switch t.Kind {
	case domain.PageEventKindPageView, domain.PageEventKindRSVPOpen:
	case "":
		errs = append(errs, "kind is required")
	default:
		errs = append(errs, "kind must be page_view or rsvp_open")
	}
	return errs
}

type AnalyticsController struct {
	Logger  *slog.Logger
	Service domain.AnalyticsService
}

func NewAnalyticsController(logger *slog.Logger, svc domain.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		Logger:  logger,
		Service: svc,
	}
}

// Track godoc
// @Summary Track a public page interaction
// @Description Public. Counts a page_view or rsvp_open for a published event. An invite_token, when present and valid, attributes the view.
// @Tags analytics
// @Accept json
// @Produce json
// @Param slug path string true "Event slug"
// @Param body body TrackRequest true "Interaction kind"
// @Success 202 {object} helpers.APIResponse "accepted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /public/events/{slug}/track [post]
func (c *AnalyticsController) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	err := c.Service.Track(r.Context(), r.PathValue("slug"), req.Kind, req.InviteToken, r.UserAgent())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusAccepted, map[string]bool{"tracked": true})
}

// Stats godoc
// @Summary Event dashboard stats
// @Description Page view and RSVP-open counts plus invite totals and the RSVP summary.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the stats"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/stats [get]
func (c *AnalyticsController) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	stats, err := c.Service.Stats(r.Context(), r.PathValue("eventID"), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
