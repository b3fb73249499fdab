package controllers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/domain"
)

// maxPageConfigBytes bounds the raw document a single PUT may carry.
const maxPageConfigBytes = 256 << 10

// PutPageConfigResponse is the response body for PUT /events/{eventID}/page-config.
type PutPageConfigResponse struct {
	Record  *domain.PageConfigRecord `json:"record"`
	Changes string                   `json:"changes"`
}

// PreviewTokenResponse is the response body for POST /events/{eventID}/preview-token.
type PreviewTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PageConfigController struct {
	Logger  *slog.Logger
	Service domain.PageConfigService
}

func NewPageConfigController(logger *slog.Logger, svc domain.PageConfigService) *PageConfigController {
	return &PageConfigController{
		Logger:  logger,
		Service: svc,
	}
}

// Get godoc
// @Summary Get the draft page config
// @Tags page-config
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the page config record"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/page-config [get]
func (c *PageConfigController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	rec, err := c.Service.Get(r.Context(), r.PathValue("eventID"), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rec)
}

// Put godoc
// @Summary Save the draft page config
// @Description The raw document is validated and migrated to the current schema version before saving. The response carries a human-readable change summary.
// @Tags page-config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body object true "Page config document"
// @Success 200 {object} helpers.APIResponse "data contains the record and change summary"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/page-config [put]
func (c *PageConfigController) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPageConfigBytes+1))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "cannot read body")
		return
	}
	if len(raw) > maxPageConfigBytes {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "page config too large")
		return
	}
	rec, changes, err := c.Service.Put(r.Context(), r.PathValue("eventID"), userID, json.RawMessage(raw))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PutPageConfigResponse{Record: rec, Changes: changes})
}

// Publish godoc
// @Summary Publish the draft page config
// @Description Copies the draft into the published snapshot served to guests.
// @Tags page-config
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the record with published_at set"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/page-config/publish [post]
func (c *PageConfigController) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	rec, err := c.Service.Publish(r.Context(), r.PathValue("eventID"), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rec)
}

// CreatePreviewToken godoc
// @Summary Issue a preview token
// @Description The token grants time-limited read access to the draft page via GET /public/events/{slug}?preview=<token>.
// @Tags page-config
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 201 {object} helpers.APIResponse "data contains token and expires_at"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/preview-token [post]
func (c *PageConfigController) CreatePreviewToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	token, expiresAt, err := c.Service.CreatePreviewToken(r.Context(), r.PathValue("eventID"), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, PreviewTokenResponse{Token: token, ExpiresAt: expiresAt})
}

// GetPublicPage godoc
// @Summary Get a public event page
// @Description Public. Serves the published page of a PUBLISHED event, or the draft when a valid preview token is given.
// @Tags public
// @Produce json
// @Param slug path string true "Event slug"
// @Param preview query string false "Preview token"
// @Success 200 {object} helpers.APIResponse "data contains event and page config"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /public/events/{slug} [get]
func (c *PageConfigController) GetPublicPage(w http.ResponseWriter, r *http.Request) {
	page, err := c.Service.GetPublicPage(r.Context(), r.PathValue("slug"), r.URL.Query().Get("preview"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}
