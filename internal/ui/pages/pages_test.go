package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/picture-gallery/internal/config"
	"github.com/templui/picture-gallery/internal/ctxkeys"
	"github.com/templui/picture-gallery/internal/model"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestGalleryEscapesUserContent(t *testing.T) {
	ctx := ctxkeys.WithUser(context.Background(), &model.User{ID: 1, Name: "<alice>"})
	pictures := []*model.Picture{
		{ID: 3, UserID: 2, UserName: "bob & co", Title: `<script>alert(1)</script>`, ImagePath: "1-abc.png"},
	}

	html := render(t, ctx, Gallery(pictures))

	assert.Contains(t, html, "<title>共有画像 - Picture Gallery</title>")
	assert.Contains(t, html, "@&lt;alice&gt;")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, html, "<script>alert(1)")
	assert.Contains(t, html, `href="/detail/3"`)
	assert.Contains(t, html, `href="/user/2"`)
	assert.Contains(t, html, "by bob &amp; co")
	assert.Contains(t, html, `src="/api/images/1-abc.png"`)
	assert.NotContains(t, html, "btn-delete-icon")
}

func TestMyPageHasDeleteLinksAndNoncedScript(t *testing.T) {
	ctx := ctxkeys.WithUser(context.Background(), &model.User{ID: 1, Name: "alice"})
	ctx = templ.WithNonce(ctx, "n0nce")
	pictures := []*model.Picture{{ID: 9, UserID: 1, Title: "cat", ImagePath: "1-abc.png"}}

	html := render(t, ctx, MyPage(pictures))

	assert.Contains(t, html, `href="/delete/9"`)
	assert.Contains(t, html, `data-confirm="本当に削除しますか？"`)
	assert.Contains(t, html, `<script nonce="n0nce">`)
	assert.NotContains(t, html, "onclick")
}

func TestUserPageHeading(t *testing.T) {
	html := render(t, context.Background(), UserPage("Unknown", nil))

	assert.Contains(t, html, "<title>Unknownの投稿 - Picture Gallery</title>")
	assert.Contains(t, html, "Unknown さんの投稿一覧")
	assert.Contains(t, html, `<ul class="gallery-grid"></ul>`)
}

func TestUploadCarriesCSRFToken(t *testing.T) {
	ctx := ctxkeys.WithCSRFToken(context.Background(), "tok")

	html := render(t, ctx, Upload())

	assert.Contains(t, html, `name="csrf_token" value="tok"`)
	assert.Contains(t, html, `enctype="multipart/form-data"`)
}

func TestLoginPostsToAuthAPI(t *testing.T) {
	ctx := ctxkeys.WithConfig(context.Background(), &config.Config{AppName: "Picture Gallery"})

	html := render(t, ctx, Login())

	assert.Contains(t, html, "<title>ログイン - Picture Gallery</title>")
	assert.Contains(t, html, `"/api/auth/sign-in/email"`)
	assert.Contains(t, html, `"認証に失敗しました"`)
	assert.NotContains(t, html, `class="navbar"`)
	assert.NotContains(t, html, "style=")
}

func TestSignupSendsName(t *testing.T) {
	html := render(t, context.Background(), Signup())

	assert.Contains(t, html, `"/api/auth/sign-up/email"`)
	assert.Contains(t, html, `["name","email","password"]`)
	assert.Contains(t, html, `minlength="8"`)
}

func TestDetailShowsTokyoTime(t *testing.T) {
	p := &model.Picture{
		ID:        1,
		Title:     "cat",
		Contents:  "hello",
		ImagePath: "1-abc.png",
		CreatedAt: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	}

	html := render(t, context.Background(), Detail(p))

	assert.Contains(t, html, "<title>cat - Picture Gallery</title>")
	assert.Contains(t, html, "投稿日時: 2026/1/3 0:04:05")
}

func TestPostedAt(t *testing.T) {
	assert.Equal(t, "2026/3/9 9:05:00", PostedAt(time.Date(2026, 3, 9, 0, 5, 0, 0, time.UTC)))
}
