package controllers

import (
	"log/slog"
	"net/http"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/domain"
)

type MediaController struct {
	Logger         *slog.Logger
	Service        domain.MediaService
	MaxUploadBytes int64
}

func NewMediaController(logger *slog.Logger, svc domain.MediaService, maxUploadBytes int64) *MediaController {
	return &MediaController{
		Logger:         logger,
		Service:        svc,
		MaxUploadBytes: maxUploadBytes,
	}
}

// Upload godoc
// @Summary Upload a media asset
// @Description Multipart form with a single "file" part. Images only.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param file formData file true "Image file"
// @Success 201 {object} helpers.APIResponse "data contains the asset and its URL"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/media [post]
func (c *MediaController) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing or oversized \"file\" part")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	upload := domain.MediaUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		SizeBytes:   header.Size,
		Body:        file,
	}
	asset, err := c.Service.Upload(r.Context(), r.PathValue("eventID"), userID, upload)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, asset)
}

// List godoc
// @Summary List media assets
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains assets with URLs"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/media [get]
func (c *MediaController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	assets, err := c.Service.List(r.Context(), r.PathValue("eventID"), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assets)
}

// Delete godoc
// @Summary Delete a media asset
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param mediaID path string true "Media asset ID"
// @Success 204 "no content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/media/{mediaID} [delete]
func (c *MediaController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), r.PathValue("eventID"), r.PathValue("mediaID"), userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
