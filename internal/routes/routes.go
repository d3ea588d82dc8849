package routes

import (
	"net/http"

	"github.com/templui/picture-gallery/assets"
	"github.com/templui/picture-gallery/internal/app"
	"github.com/templui/picture-gallery/internal/handler"
	"github.com/templui/picture-gallery/internal/middleware"
)

// maxBodySize sits above the 1.5MB image limit so most oversized images still
// reach validation. Uploads past it get the same 400 from handler.BodyTooLarge.
const maxBodySize = 4 << 20

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	auth := handler.NewAuthHandler(app.AuthService, app.IPResolver)
	gallery := handler.NewGalleryHandler(app.GalleryService)
	images := handler.NewImageHandler(app.GalleryService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assets.AssetsFS))))

	mux.HandleFunc("GET /welcome", home.WelcomePage)

	// Auth pages
	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("GET /signup", middleware.RequireGuest(auth.SignupPage))

	// Auth API (rate limited)
	rateLimiter := middleware.RateLimitAuth(app.IPResolver.ClientIP)
	mux.HandleFunc("POST /api/auth/sign-in/email", rateLimiter(auth.SignInEmail))
	mux.HandleFunc("POST /api/auth/sign-up/email", rateLimiter(auth.SignUpEmail))
	mux.HandleFunc("POST /api/auth/sign-out", rateLimiter(auth.SignOut))
	mux.HandleFunc("GET /api/auth/get-session", rateLimiter(auth.GetSession))
	mux.HandleFunc("/api/auth/", auth.NotFound)

	// Images are addressed by key, no session required
	mux.HandleFunc("GET /api/images/{fileName}", images.Serve)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /logout", middleware.RequireAuth(auth.Logout))
	mux.HandleFunc("GET /{$}", middleware.RequireAuth(gallery.GalleryPage))
	mux.HandleFunc("GET /upload", middleware.RequireAuth(gallery.UploadPage))
	mux.HandleFunc("POST /upload", middleware.RequireAuth(gallery.Upload))
	mux.HandleFunc("GET /mypage", middleware.RequireAuth(gallery.MyPage))
	mux.HandleFunc("GET /user/{userId}", middleware.RequireAuth(gallery.UserPage))
	mux.HandleFunc("GET /detail/{id}", middleware.RequireAuth(gallery.DetailPage))
	mux.HandleFunc("GET /delete/{id}", middleware.RequireAuth(middleware.RequireSameSite(gallery.Delete)))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg),      // Config must be first (SecurityHeaders and CSRF read it)
		middleware.NonceMiddleware,      // Must run before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.MaxBodySize(maxBodySize, handler.BodyTooLarge),
		middleware.Session(app.AuthService),
		middleware.RequestLogging, // After Session so the log line carries user_id
		middleware.CSRFProtection,
		middleware.WithURLPath,
	)
}
