package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/picture-gallery/internal/service"
)

const defaultImageContentType = "image/jpeg"

type imageHandler struct {
	galleryService *service.GalleryService
}

func NewImageHandler(galleryService *service.GalleryService) *imageHandler {
	return &imageHandler{galleryService: galleryService}
}

// Serve streams a stored image. The key is the capability, no session is needed.
func (h *imageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("fileName")

	obj, err := h.galleryService.FetchImage(r.Context(), key)
	if errors.Is(err, service.ErrImageNotFound) {
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to fetch image", "error", err, "key", key)
		http.Error(w, "Failed to fetch image", http.StatusInternalServerError)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = defaultImageContentType
	}

	header := w.Header()
	header.Set("Content-Type", contentType)
	header.Set("Cache-Control", "private, max-age=604800")
	header.Set("CDN-Cache-Control", "private, max-age=0")
	header.Set("Cloudflare-CDN-Cache-Control", "private, max-age=0")
	if obj.Size > 0 {
		header.Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}

	_, err = io.Copy(w, obj.Body)
	if err != nil {
		slog.Warn("image stream interrupted", "error", err, "key", key)
	}
}
