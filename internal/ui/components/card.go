package components

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/templui/picture-gallery/internal/model"
	"github.com/templui/picture-gallery/internal/ui"
)

// CardAction selects the extra control shown next to the detail link.
type CardAction int

const (
	CardActionNone   CardAction = iota
	CardActionAuthor            // "by <name>" link to the uploader's page
	CardActionDelete            // delete icon, owner pages only
)

// GalleryGrid renders pictures as cards. An empty list renders an empty grid.
func GalleryGrid(pictures []*model.Picture, action CardAction) templ.Component {
	return ui.Component(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<ul class="gallery-grid">`)
		for _, p := range pictures {
			card(ctx, h, p, action)
		}
		h.Raw("</ul>")
	})
}

func card(ctx context.Context, h *ui.HTML, p *model.Picture, action CardAction) {
	id := strconv.FormatInt(p.ID, 10)

	h.Raw(`<li class="gallery-card">`)
	h.Raw("<img").URL("src", p.ImageURL()).Attr("alt", p.Title).Raw(` class="gallery-image" loading="lazy">`)
	h.Raw(`<div class="gallery-card-body">`)
	h.Raw(`<h3 class="gallery-title">`).Text(p.Title).Raw("</h3>")
	h.Raw(`<div class="gallery-actions"><div class="gallery-buttons">`)
	h.Raw("<a").URL("href", "/detail/"+id).Raw(` class="btn-small">詳細</a>`)
	h.Raw("</div>")

	switch action {
	case CardActionAuthor:
		h.Raw("<a").URL("href", "/user/"+strconv.FormatInt(p.UserID, 10)).Raw(` class="gallery-username">by `)
		h.Text(p.UserName).Raw("</a>")
	case CardActionDelete:
		h.Raw("<a").URL("href", "/delete/"+id)
		h.Raw(` class="btn-delete-icon" data-confirm="本当に削除しますか？" title="削除">🗑️</a>`)
	}

	h.Raw("</div></div></li>")
}
