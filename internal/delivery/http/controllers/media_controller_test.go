package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/domain"
)

type fakeMediaService struct {
	uploadErr    error
	uploadResult *domain.MediaAssetWithURL
	lastUpload   domain.MediaUpload
	lastBody     []byte

	listErr    error
	listResult []*domain.MediaAssetWithURL

	deleteErr   error
	lastMediaID string
}

func (f *fakeMediaService) Upload(ctx context.Context, eventID, callerID string, upload domain.MediaUpload) (*domain.MediaAssetWithURL, error) {
	f.lastUpload = upload
	f.lastBody, _ = io.ReadAll(upload.Body)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadResult, nil
}

func (f *fakeMediaService) List(ctx context.Context, eventID, callerID string) ([]*domain.MediaAssetWithURL, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeMediaService) Delete(ctx context.Context, eventID, mediaID, callerID string) error {
	f.lastMediaID = mediaID
	return f.deleteErr
}

func multipartUpload(t *testing.T, fieldName, fileName, contentType string, payload []byte) (*http.Request, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="` + fieldName + `"; filename="` + fileName + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/events/ev-1/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, mw.FormDataContentType()
}

func TestMediaController_Upload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeMediaService{
			uploadResult: &domain.MediaAssetWithURL{
				Asset: &domain.MediaAsset{ID: "m-1", FileName: "hero.jpg", ContentType: "image/jpeg"},
				URL:   "http://blobs.test/events/ev-1/m-1.jpg",
			},
		}
		ctrl := NewMediaController(testLogger, fake, 1<<20)
		req, _ := multipartUpload(t, "file", "hero.jpg", "image/jpeg", []byte("jpeg-bytes"))
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.Upload(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
		assert.Equal(t, "hero.jpg", fake.lastUpload.FileName)
		assert.Equal(t, "image/jpeg", fake.lastUpload.ContentType)
		assert.Equal(t, []byte("jpeg-bytes"), fake.lastBody)
	})

	t.Run("missing file part", func(t *testing.T) {
		ctrl := NewMediaController(testLogger, &fakeMediaService{}, 1<<20)
		req, contentType := multipartUpload(t, "attachment", "hero.jpg", "image/jpeg", []byte("jpeg-bytes"))
		req.Header.Set("Content-Type", contentType)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.Upload(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-image rejected by service", func(t *testing.T) {
		ctrl := NewMediaController(testLogger, &fakeMediaService{uploadErr: domain.ErrInvalidInput}, 1<<20)
		req, _ := multipartUpload(t, "file", "notes.pdf", "application/pdf", []byte("%PDF"))
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.Upload(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMediaController_List(t *testing.T) {
	fake := &fakeMediaService{
		listResult: []*domain.MediaAssetWithURL{
			{Asset: &domain.MediaAsset{ID: "m-1"}, URL: "http://blobs.test/a"},
			{Asset: &domain.MediaAsset{ID: "m-2"}, URL: "http://blobs.test/b"},
		},
	}
	ctrl := NewMediaController(testLogger, fake, 1<<20)
	req := authedRequest(http.MethodGet, "/events/ev-1/media", "")
	req.SetPathValue("eventID", "ev-1")
	rr := httptest.NewRecorder()

	ctrl.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.Nil(t, envelope.Error)
}

func TestMediaController_Delete(t *testing.T) {
	t.Run("success is no content", func(t *testing.T) {
		fake := &fakeMediaService{}
		ctrl := NewMediaController(testLogger, fake, 1<<20)
		req := authedRequest(http.MethodDelete, "/events/ev-1/media/m-1", "")
		req.SetPathValue("eventID", "ev-1")
		req.SetPathValue("mediaID", "m-1")
		rr := httptest.NewRecorder()

		ctrl.Delete(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "m-1", fake.lastMediaID)
	})

	t.Run("unknown asset", func(t *testing.T) {
		ctrl := NewMediaController(testLogger, &fakeMediaService{deleteErr: domain.ErrNotFound}, 1<<20)
		req := authedRequest(http.MethodDelete, "/events/ev-1/media/m-missing", "")
		req.SetPathValue("eventID", "ev-1")
		req.SetPathValue("mediaID", "m-missing")
		rr := httptest.NewRecorder()

		ctrl.Delete(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
