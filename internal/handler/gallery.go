package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/templui/picture-gallery/internal/ctxkeys"
	"github.com/templui/picture-gallery/internal/service"
	"github.com/templui/picture-gallery/internal/ui"
	"github.com/templui/picture-gallery/internal/ui/pages"
	"github.com/templui/picture-gallery/internal/validation"
)

const (
	multipartMemory = 2 << 20

	msgPictureNotFound = "画像が見つかりません"
	msgDeleteForbidden = "削除権限がありません"
	msgUploadFailed    = "アップロードに失敗しました"
	msgDeleteFailed    = "削除に失敗しました"
	msgUnknownUser     = "Unknown"
)

type galleryHandler struct {
	galleryService *service.GalleryService
}

func NewGalleryHandler(galleryService *service.GalleryService) *galleryHandler {
	return &galleryHandler{galleryService: galleryService}
}

func (h *galleryHandler) GalleryPage(w http.ResponseWriter, r *http.Request) {
	pictures, err := h.galleryService.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list pictures", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ui.Render(w, r, pages.Gallery(pictures))
}

func (h *galleryHandler) MyPage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	pictures, err := h.galleryService.ListMine(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list own pictures", "error", err, "user_id", user.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ui.Render(w, r, pages.MyPage(pictures))
}

// UserPage takes the heading from the newest picture's denormalized name.
// An unparsable id lists nothing, like an unknown user.
func (h *galleryHandler) UserPage(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		ui.Render(w, r, pages.UserPage(msgUnknownUser, nil))
		return
	}

	pictures, err := h.galleryService.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list user pictures", "error", err, "target_user_id", userID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	name := msgUnknownUser
	if len(pictures) > 0 && pictures[0].UserName != "" {
		name = pictures[0].UserName
	}
	ui.Render(w, r, pages.UserPage(name, pictures))
}

func (h *galleryHandler) DetailPage(w http.ResponseWriter, r *http.Request) {
	pictureID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, msgPictureNotFound, http.StatusNotFound)
		return
	}

	picture, err := h.galleryService.Detail(r.Context(), pictureID)
	if errors.Is(err, service.ErrPictureNotFound) {
		http.Error(w, msgPictureNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to load picture", "error", err, "picture_id", pictureID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ui.Render(w, r, pages.Detail(picture))
}

func (h *galleryHandler) UploadPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Upload())
}

func (h *galleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if r.MultipartForm == nil {
		err := r.ParseMultipartForm(multipartMemory)
		if r.MultipartForm != nil {
			defer removeMultipartForm(r.MultipartForm)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			uploadTooLarge(w)
			return
		}
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
	}

	in := service.UploadInput{
		Title:    r.FormValue("title"),
		Contents: r.FormValue("contents"),
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer closeFile(file)
		in.Filename = header.Filename
		in.ContentType = header.Header.Get("Content-Type")
		in.Size = header.Size
		in.Body = file
	}

	picture, err := h.galleryService.Upload(r.Context(), user, in)
	if errors.Is(err, service.ErrValidation) {
		http.Error(w, service.UserMessage(err), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("upload failed", "error", err, "user_id", user.ID)
		http.Error(w, msgUploadFailed, http.StatusInternalServerError)
		return
	}

	slog.Debug("upload complete", "picture_id", picture.ID)
	http.Redirect(w, r, "/mypage", http.StatusSeeOther)
}

func (h *galleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	pictureID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, msgPictureNotFound, http.StatusNotFound)
		return
	}

	err = h.galleryService.Delete(r.Context(), user.ID, pictureID)
	switch {
	case errors.Is(err, service.ErrPictureNotFound):
		http.Error(w, msgPictureNotFound, http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		slog.Warn("delete of foreign picture refused", "user_id", user.ID, "picture_id", pictureID)
		http.Error(w, msgDeleteForbidden, http.StatusForbidden)
	case err != nil:
		slog.Error("delete failed", "error", err, "user_id", user.ID, "picture_id", pictureID)
		http.Error(w, msgDeleteFailed, http.StatusInternalServerError)
	default:
		http.Redirect(w, r, "/mypage", http.StatusSeeOther)
	}
}

func closeFile(f multipart.File) {
	err := f.Close()
	if err != nil {
		slog.Warn("failed to close uploaded file", "error", err)
	}
}

// BodyTooLarge answers requests over the global body cap. An upload that big
// can only be an oversized image, so it gets the same 400 as one that fits.
func BodyTooLarge(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.URL.Path == "/upload" {
		uploadTooLarge(w)
		return
	}
	http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
}

func uploadTooLarge(w http.ResponseWriter) {
	http.Error(w, validation.TooLargeMessage(validation.ImageConstraints), http.StatusBadRequest)
}

// removeMultipartForm deletes the temp files of parts that did not fit in memory.
func removeMultipartForm(form *multipart.Form) {
	err := form.RemoveAll()
	if err != nil {
		slog.Warn("failed to remove multipart temp files", "error", err)
	}
}
