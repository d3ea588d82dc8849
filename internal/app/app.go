package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/picture-gallery/internal/auth"
	"github.com/templui/picture-gallery/internal/config"
	"github.com/templui/picture-gallery/internal/db"
	"github.com/templui/picture-gallery/internal/repository"
	"github.com/templui/picture-gallery/internal/service"
	"github.com/templui/picture-gallery/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Storage        storage.Storage
	IPResolver     *auth.IPResolver
	AuthService    *service.AuthService
	GalleryService *service.GalleryService
	SweepService   *service.SweepService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	blobs, err := storage.New(ctx, cfg)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a, err := Wire(cfg, database, blobs)
	if err != nil {
		_ = db.Close(database)
		return nil, err
	}
	return a, nil
}

// Wire builds repositories and services on an open database and storage.
func Wire(cfg *config.Config, database *sqlx.DB, blobs storage.Storage) (*App, error) {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	accountRepository := repository.NewAccountRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	verificationRepository := repository.NewVerificationRepository(database)
	pictureRepository := repository.NewPictureRepository(database)

	// Auth capabilities
	hasher, err := auth.NewHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	sessions := auth.NewSessionManager(sessionRepository, cfg.SessionExpiry, cfg.SessionUpdateAge)
	cookies := auth.NewCookieCodec(cfg.AuthSecret, cfg.IsProduction())

	// Services
	authService := service.NewAuthService(
		userRepository,
		accountRepository,
		sessions,
		hasher,
		cookies,
		cfg.SignUpDisabled,
	)
	galleryService := service.NewGalleryService(pictureRepository, blobs)
	sweepService := service.NewSweepService(pictureRepository, sessionRepository, verificationRepository, blobs)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Storage:        blobs,
		IPResolver:     auth.NewIPResolver(cfg.IPAddressHeaders, cfg.TrustedProxies, cfg.DisableIPTracking),
		AuthService:    authService,
		GalleryService: galleryService,
		SweepService:   sweepService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
