package handler

import (
	"net/http"

	"github.com/templui/picture-gallery/internal/ui"
	"github.com/templui/picture-gallery/internal/ui/pages"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

func (h *HomeHandler) WelcomePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Welcome())
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}
