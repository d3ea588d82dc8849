package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/a-h/templ"
	"github.com/templui/picture-gallery/internal/ctxkeys"
	"github.com/templui/picture-gallery/internal/model"
	"github.com/templui/picture-gallery/internal/ui"
	"github.com/templui/picture-gallery/internal/ui/components"
	"github.com/templui/picture-gallery/internal/ui/layouts"
)

// Japan has no DST, a fixed zone avoids depending on tzdata.
var tokyo = time.FixedZone("Asia/Tokyo", 9*60*60)

func Gallery(pictures []*model.Picture) templ.Component {
	return layouts.Base(
		layouts.Props{Title: "共有画像", ShowNav: true},
		galleryBody("", pictures, components.CardActionAuthor),
	)
}

func MyPage(pictures []*model.Picture) templ.Component {
	body := ui.Component(func(ctx context.Context, h *ui.HTML) {
		h.Component(ctx, galleryBody("私のアップロード済み一覧", pictures, components.CardActionDelete))
		ui.Script(ctx, h, confirmDeleteJS)
	})
	return layouts.Base(layouts.Props{Title: "マイページ", ShowNav: true}, body)
}

// UserPage lists one user's pictures. name comes from the newest picture,
// "Unknown" when there is none.
func UserPage(name string, pictures []*model.Picture) templ.Component {
	return layouts.Base(
		layouts.Props{Title: name + "の投稿", ShowNav: true},
		galleryBody(name+" さんの投稿一覧", pictures, components.CardActionNone),
	)
}

func galleryBody(heading string, pictures []*model.Picture, action components.CardAction) templ.Component {
	return ui.Component(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<div class="gallery-container"><div class="container">`)
		if heading != "" {
			h.Raw(`<h2 class="page-heading">`).Text(heading).Raw("</h2>")
		}
		h.Component(ctx, components.GalleryGrid(pictures, action))
		h.Raw("</div></div>")
	})
}

// inline onclick handlers are blocked by the CSP
const confirmDeleteJS = `
document.querySelectorAll('a[data-confirm]').forEach((link) => {
  link.addEventListener('click', (e) => {
    if (!confirm(link.dataset.confirm)) e.preventDefault();
  });
});
`

func Upload() templ.Component {
	body := ui.Component(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<div class="content-container"><div class="container"><div class="content-box">`)
		h.Raw("<h2>画像のアップロード</h2>")
		h.Raw("<p>タイトルと本文を入力、画像を選択して［アップロード］をクリックしてください。</p>")
		h.Raw(`<p class="form-hint">※ アップロード可能な画像形式：PNG、JPG、JPEG、GIF、WebP（最大1.5MB）</p>`)
		h.Raw(`<form method="post" action="/upload" enctype="multipart/form-data">`)
		h.Raw(`<input type="hidden" name="csrf_token"`).Attr("value", ctxkeys.CSRFToken(ctx)).Raw(">")
		h.Raw(`<div class="form-group"><label for="title">タイトル</label>`)
		h.Raw(`<input type="text" id="title" name="title" class="form-input" required placeholder="タイトル"></div>`)
		h.Raw(`<div class="form-group"><label for="contents">メッセージ</label>`)
		h.Raw(`<textarea id="contents" name="contents" class="form-input" placeholder="メッセージ"></textarea></div>`)
		h.Raw(`<div class="form-group"><label for="image">画像ファイル</label>`)
		h.Raw(`<input type="file" id="image" name="image" accept="image/png,image/jpeg,image/jpg,image/gif,image/webp" required></div>`)
		h.Raw(`<div class="form-group"><button type="submit" class="btn btn-primary">アップロード</button></div>`)
		h.Raw("</form></div></div></div>")
	})
	return layouts.Base(layouts.Props{Title: "アップロード", ShowNav: true}, body)
}

func Detail(p *model.Picture) templ.Component {
	body := ui.Component(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<div class="content-container"><div class="container"><div class="content-box">`)
		h.Raw("<h2>").Text(p.Title).Raw("</h2>")
		h.Raw("<h4>").Text(p.Contents).Raw("</h4>")
		h.Raw("<img").URL("src", p.ImageURL()).Attr("alt", p.Title).Raw(` class="detail-image">`)
		h.Raw(`<p class="detail-meta">投稿日時: `).Text(PostedAt(p.CreatedAt)).Raw("</p>")
		h.Raw("</div></div></div>")
	})
	return layouts.Base(layouts.Props{Title: p.Title, ShowNav: true}, body)
}

// PostedAt formats t in Tokyo time as "2006/1/2 15:04:05" without zero
// padding on month, day and hour.
func PostedAt(t time.Time) string {
	t = t.In(tokyo)
	return fmt.Sprintf("%d/%d/%d %d:%02d:%02d", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
}
