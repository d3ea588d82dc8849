package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/picture-gallery/internal/auth"
	"github.com/templui/picture-gallery/internal/ctxkeys"
	"github.com/templui/picture-gallery/internal/model"
	"github.com/templui/picture-gallery/internal/service"
	"github.com/templui/picture-gallery/internal/ui"
	"github.com/templui/picture-gallery/internal/ui/pages"
)

const signUpDisabledMessage = "現在サインアップを一時的に中止しております"

type authHandler struct {
	authService *service.AuthService
	ipResolver  *auth.IPResolver
}

func NewAuthHandler(authService *service.AuthService, ipResolver *auth.IPResolver) *authHandler {
	return &authHandler{
		authService: authService,
		ipResolver:  ipResolver,
	}
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type sessionResponse struct {
	Session *model.Session `json:"session"`
	User    *model.User    `json:"user"`
}

func (h *authHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Login())
}

func (h *authHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Signup())
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.authService.SignOut(r.Context(), r.Header)
	if err != nil {
		slog.Error("failed to sign out", "error", err)
	}
	http.SetCookie(w, h.authService.ClearSessionCookie())
	http.Redirect(w, r, "/welcome", http.StatusSeeOther)
}

func (h *authHandler) SignInEmail(w http.ResponseWriter, r *http.Request) {
	var in service.SignInInput
	if !decodeJSON(w, r, &in) {
		return
	}

	result, err := h.authService.SignIn(r.Context(), in, h.ipResolver.MetaFromRequest(r))
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	slog.Info("user signed in", "user_id", result.User.ID)
	h.writeAuthResult(w, result)
}

func (h *authHandler) SignUpEmail(w http.ResponseWriter, r *http.Request) {
	var in service.SignUpInput
	if !decodeJSON(w, r, &in) {
		return
	}

	result, err := h.authService.SignUp(r.Context(), in, h.ipResolver.MetaFromRequest(r))
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.writeAuthResult(w, result)
}

func (h *authHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	err := h.authService.SignOut(r.Context(), r.Header)
	if err != nil {
		slog.Error("failed to sign out", "error", err)
		writeAPIError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Failed to sign out")
		return
	}

	http.SetCookie(w, h.authService.ClearSessionCookie())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetSession answers from the session the middleware already resolved.
func (h *authHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	session := ctxkeys.Session(r.Context())
	if user == nil || session == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: session, User: user})
}

func (h *authHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, http.StatusNotFound, "NOT_FOUND", "Not Found")
}

func (h *authHandler) writeAuthResult(w http.ResponseWriter, result *service.AuthResult) {
	cookie, err := h.authService.SessionCookie(result.Session)
	if err != nil {
		slog.Error("failed to encode session cookie", "error", err, "user_id", result.User.ID)
		writeAPIError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Failed to create session")
		return
	}

	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, authResponse{Token: result.Session.Token, User: result.User})
}

func (h *authHandler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		message := service.UserMessage(err)
		if message == "" {
			message = "Invalid input"
		}
		writeAPIError(w, http.StatusBadRequest, "INVALID_INPUT", message)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeAPIError(w, http.StatusUnauthorized, "INVALID_EMAIL_OR_PASSWORD", "Invalid email or password")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		writeAPIError(w, http.StatusUnprocessableEntity, "USER_ALREADY_EXISTS", "User already exists. Use another email.")
	case errors.Is(err, service.ErrSignUpDisabled):
		writeAPIError(w, http.StatusServiceUnavailable, "SIGNUP_DISABLED", signUpDisabledMessage)
	default:
		slog.Error("auth request failed", "error", err)
		writeAPIError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeAPIError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
		return false
	}
	writeAPIError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body")
	return false
}
