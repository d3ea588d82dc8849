package layouts

import (
	"context"

	"github.com/a-h/templ"
	"github.com/templui/picture-gallery/internal/ctxkeys"
	"github.com/templui/picture-gallery/internal/ui"
)

const defaultAppName = "Picture Gallery"

type Props struct {
	Title   string // page part of <title>, "" for the bare app name
	ShowNav bool
}

// Base is the page shell: head, optional navbar, main and footer.
func Base(props Props, body templ.Component) templ.Component {
	return ui.Component(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<!DOCTYPE html><html lang="ja"><head>`)
		h.Raw(`<meta charset="UTF-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
		h.Raw("<title>").Text(Title(ctx, props.Title)).Raw("</title>")
		h.Raw(`<link rel="icon" type="image/svg+xml" href="/assets/favicon.svg">`)
		h.Raw(`<link rel="stylesheet" href="/assets/css/style.css">`)
		h.Raw("</head><body>")

		if props.ShowNav {
			navbar(ctx, h)
		}

		h.Raw("<main>").Component(ctx, body).Raw("</main>")

		h.Raw(`<footer class="footer"><div class="container">`)
		h.Raw("<p>Copyright &copy; 2026 - ").Text(appName(ctx)).Raw(" App</p>")
		h.Raw("</div></footer>")
		h.Raw("</body></html>")
	})
}

// Title formats "<page> - <app name>".
func Title(ctx context.Context, page string) string {
	if page == "" {
		return appName(ctx)
	}
	return page + " - " + appName(ctx)
}

func appName(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		return cfg.AppName
	}
	return defaultAppName
}

func navbar(ctx context.Context, h *ui.HTML) {
	user := ctxkeys.User(ctx)

	h.Raw(`<nav class="navbar"><div class="container navbar-container">`)
	h.Raw(`<div class="navbar-left">`)
	h.Raw(`<a href="/" class="brand">`).Text(appName(ctx)).Raw("</a>")
	if user != nil {
		h.Raw(`<span class="welcome-message">@`).Text(user.Name).Raw("</span>")
	}
	h.Raw("</div>")

	h.Raw(`<div class="nav-menu">`)
	navLink(ctx, h, "/upload", "投稿")
	if user != nil {
		navLink(ctx, h, "/mypage", "マイページ")
		navLink(ctx, h, "/logout", "ログアウト")
	}
	h.Raw("</div></div></nav>")
}

func navLink(ctx context.Context, h *ui.HTML, href, label string) {
	h.Raw("<a").URL("href", href)
	if ctxkeys.URLPath(ctx) == href {
		h.Attr("class", "active").Attr("aria-current", "page")
	}
	h.Raw(">").Text(label).Raw("</a>")
}
