package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HTML writes markup for hand-built components. Text and attribute values
// go through templ's escaper; the first write error sticks.
type HTML struct {
	w   io.Writer
	err error
}

func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes trusted markup as is.
func (h *HTML) Raw(s string) *HTML {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
	return h
}

func (h *HTML) Text(s string) *HTML {
	return h.Raw(templ.EscapeString(s))
}

func (h *HTML) Attr(name, value string) *HTML {
	return h.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// URL writes an href/src style attribute, sanitizing unsafe schemes.
func (h *HTML) URL(name, url string) *HTML {
	return h.Attr(name, string(templ.URL(url)))
}

func (h *HTML) Component(ctx context.Context, c templ.Component) *HTML {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
	return h
}

func (h *HTML) Err() error {
	return h.err
}

// Component adapts a builder func to templ.Component.
func Component(build func(ctx context.Context, h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		build(ctx, h)
		return h.Err()
	})
}

// Script emits an inline script tagged with the request's CSP nonce.
func Script(ctx context.Context, h *HTML, js string) {
	h.Raw("<script")
	if nonce := templ.GetNonce(ctx); nonce != "" {
		h.Attr("nonce", nonce)
	}
	h.Raw(">").Raw(js).Raw("</script>")
}
