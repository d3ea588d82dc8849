package pages

import (
	"context"
	"encoding/json"

	"github.com/a-h/templ"
	"github.com/templui/picture-gallery/internal/ui"
	"github.com/templui/picture-gallery/internal/ui/layouts"
)

type field struct {
	id, name, kind, label, placeholder string
	minLength                          string
}

type authForm struct {
	formID       string
	heading      string
	endpoint     string
	fields       []field
	submit       string
	fallback     string // server answered without a message
	networkError string // fetch itself failed
	footer       string // trusted markup
}

var loginForm = authForm{
	formID:   "login-form",
	heading:  "ログイン",
	endpoint: "/api/auth/sign-in/email",
	fields: []field{
		{id: "email", name: "email", kind: "email", label: "メールアドレス", placeholder: "example@example.com"},
		{id: "password", name: "password", kind: "password", label: "パスワード", placeholder: "パスワード"},
	},
	submit:       "ログイン",
	fallback:     "認証に失敗しました",
	networkError: "ログインに失敗しました",
	footer:       `<p>アカウントをお持ちでない方は <a href="/signup">サインアップ</a></p>`,
}

var signupForm = authForm{
	formID:   "signup-form",
	heading:  "サインアップ",
	endpoint: "/api/auth/sign-up/email",
	fields: []field{
		{id: "username", name: "name", kind: "text", label: "ユーザー名", placeholder: "ユーザー名"},
		{id: "email", name: "email", kind: "email", label: "メールアドレス", placeholder: "example@example.com"},
		{id: "password", name: "password", kind: "password", label: "パスワード", placeholder: "パスワード（8文字以上）", minLength: "8"},
	},
	submit:       "サインアップ",
	fallback:     "登録に失敗しました",
	networkError: "登録に失敗しました",
	footer:       `<p>既にアカウントをお持ちの方は <a href="/login">ログイン</a></p>`,
}

func Login() templ.Component {
	return layouts.Base(layouts.Props{Title: "ログイン"}, loginForm.component())
}

func Signup() templ.Component {
	return layouts.Base(layouts.Props{Title: "サインアップ"}, signupForm.component())
}

func (f authForm) component() templ.Component {
	return ui.Component(func(ctx context.Context, h *ui.HTML) {
		h.Raw(`<div class="main-container"><div class="form-container">`)
		h.Raw("<h1>").Text(f.heading).Raw("</h1>")
		h.Raw("<form").Attr("id", f.formID).Raw(">")
		for _, fd := range f.fields {
			h.Raw(`<div class="form-group">`)
			h.Raw("<label").Attr("for", fd.id).Raw(">").Text(fd.label).Raw("</label>")
			h.Raw("<input").Attr("type", fd.kind).Attr("id", fd.id).Attr("name", fd.name)
			h.Raw(` class="form-input" required`).Attr("placeholder", fd.placeholder)
			if fd.minLength != "" {
				h.Attr("minlength", fd.minLength)
			}
			h.Raw("></div>")
		}
		h.Raw(`<div class="form-group"><button type="submit" class="btn btn-primary">`).Text(f.submit).Raw("</button></div>")
		h.Raw(`<div class="error-message" id="error-message" hidden></div>`)
		h.Raw("</form>")
		h.Raw(`<div class="form-footer">`).Raw(f.footer)
		h.Raw(`<p><a href="/welcome">トップページに戻る</a></p></div>`)
		h.Raw("</div></div>")

		ui.Script(ctx, h, f.script())
	})
}

// script posts the form as JSON and shows the API's error message.
func (f authForm) script() string {
	names := make([]string, 0, len(f.fields))
	for _, fd := range f.fields {
		names = append(names, fd.name)
	}
	// json.Marshal escapes <, > and & so the values are safe inside <script>.
	fieldsJSON, _ := json.Marshal(names)
	formID, _ := json.Marshal(f.formID)
	endpoint, _ := json.Marshal(f.endpoint)
	fallback, _ := json.Marshal(f.fallback)
	networkError, _ := json.Marshal(f.networkError)

	return `
document.getElementById(` + string(formID) + `).addEventListener('submit', async (e) => {
  e.preventDefault();
  const form = new FormData(e.target);
  const body = {};
  for (const name of ` + string(fieldsJSON) + `) body[name] = form.get(name);
  const box = document.getElementById('error-message');
  const fail = (message) => { box.textContent = message; box.hidden = false; };
  try {
    const response = await fetch(` + string(endpoint) + `, {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(body)
    });
    if (response.ok) {
      window.location.href = '/';
      return;
    }
    const error = await response.json().catch(() => ({}));
    fail(error.message || ` + string(fallback) + `);
  } catch (err) {
    fail(` + string(networkError) + `);
  }
});
`
}
