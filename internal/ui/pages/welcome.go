package pages

import (
	"context"

	"github.com/a-h/templ"
	"github.com/templui/picture-gallery/internal/ui"
	"github.com/templui/picture-gallery/internal/ui/layouts"
)

func Welcome() templ.Component {
	body := ui.Component(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<div class="hero-container"><div class="hero-content">`)
		h.Raw("<h1>").Text(layouts.Title(ctx, "")).Raw("</h1>")
		h.Raw(`<p class="hero-description">あなたの写真を共有しましょう。<br>美しい瞬間を世界に届けてください。</p>`)
		h.Raw(`<div class="hero-buttons">`)
		h.Raw(`<a href="/login" class="btn btn-primary">ログイン</a>`)
		h.Raw(`<a href="/signup" class="btn btn-secondary">サインアップ</a>`)
		h.Raw("</div></div></div>")
	})
	return layouts.Base(layouts.Props{Title: "ようこそ！"}, body)
}

func NotFound() templ.Component {
	body := ui.Component(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<div class="main-container"><div class="form-container">`)
		h.Raw("<h1>404</h1>")
		h.Raw("<p>ページが見つかりません</p>")
		h.Raw(`<div class="form-footer"><p><a href="/">トップページに戻る</a></p></div>`)
		h.Raw("</div></div>")
	})
	return layouts.Base(layouts.Props{Title: "ページが見つかりません"}, body)
}
