package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/picture-gallery/internal/repository"
	"github.com/templui/picture-gallery/internal/service"
	"github.com/templui/picture-gallery/internal/storage"
)

type brokenStorage struct {
	*storage.MemoryStorage
}

func (brokenStorage) Get(ctx context.Context, key string) (*storage.Object, error) {
	return nil, errors.New("connection reset")
}

func serveImage(t *testing.T, blobs storage.Storage, key string) *httptest.ResponseRecorder {
	t.Helper()
	gallery := service.NewGalleryService(repository.NewPictureRepository(nil), blobs)
	h := NewImageHandler(gallery)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/images/{fileName}", h.Serve)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/images/"+key, nil))
	return rec
}

func TestServeImageDefaultsContentType(t *testing.T) {
	blobs := storage.NewMemoryStorage()
	require.NoError(t, blobs.Put(t.Context(), "1-abc", strings.NewReader("bytes"), 5, ""))

	rec := serveImage(t, blobs, "1-abc")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	assert.Equal(t, "bytes", rec.Body.String())
}

func TestServeImageMissing(t *testing.T) {
	rec := serveImage(t, storage.NewMemoryStorage(), "nope.png")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Image not found")
}

func TestServeImageStorageFailure(t *testing.T) {
	rec := serveImage(t, brokenStorage{storage.NewMemoryStorage()}, "1-abc.png")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch image")
}

func TestWriteAuthErrorMapping(t *testing.T) {
	h := &authHandler{}

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("sign up: %w", service.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_EMAIL_OR_PASSWORD"},
		{service.ErrEmailAlreadyExists, http.StatusUnprocessableEntity, "USER_ALREADY_EXISTS"},
		{service.ErrSignUpDisabled, http.StatusServiceUnavailable, "SIGNUP_DISABLED"},
		{errors.New("database is locked"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeAuthError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body apiError
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestBodyTooLargeMapsUploadsToImageSizeMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	BodyTooLarge(rec, httptest.NewRequest(http.MethodPost, "/upload", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ファイルサイズは1.5MB以下にしてください")

	rec = httptest.NewRecorder()
	BodyTooLarge(rec, httptest.NewRequest(http.MethodPost, "/elsewhere", nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
