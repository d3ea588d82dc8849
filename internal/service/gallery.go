package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/picture-gallery/internal/model"
	"github.com/templui/picture-gallery/internal/repository"
	"github.com/templui/picture-gallery/internal/storage"
	"github.com/templui/picture-gallery/internal/validation"
)

// UploadInput is a decoded upload form.
type UploadInput struct {
	Title       string
	Contents    string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type GalleryService struct {
	pictureRepository repository.PictureRepository
	storage           storage.Storage
	now               func() time.Time
}

func NewGalleryService(pictureRepository repository.PictureRepository, storage storage.Storage) *GalleryService {
	return &GalleryService{
		pictureRepository: pictureRepository,
		storage:           storage,
		now:               time.Now,
	}
}

// WithClock overrides the clock used for keys and timestamps, for tests.
func (s *GalleryService) WithClock(now func() time.Time) *GalleryService {
	s.now = now
	return s
}

func (s *GalleryService) ListAll(ctx context.Context) ([]*model.Picture, error) {
	pictures, err := s.pictureRepository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pictures: %w", err)
	}
	return pictures, nil
}

func (s *GalleryService) ListByUser(ctx context.Context, userID int64) ([]*model.Picture, error) {
	pictures, err := s.pictureRepository.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user pictures: %w", err)
	}
	return pictures, nil
}

func (s *GalleryService) ListMine(ctx context.Context, callerID int64) ([]*model.Picture, error) {
	return s.ListByUser(ctx, callerID)
}

func (s *GalleryService) Detail(ctx context.Context, pictureID int64) (*model.Picture, error) {
	picture, err := s.pictureRepository.ByID(ctx, pictureID)
	if errors.Is(err, repository.ErrPictureNotFound) {
		return nil, ErrPictureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get picture: %w", err)
	}
	return picture, nil
}

// Upload stores the image first and the row second, so a visible row
// always points at an existing blob.
func (s *GalleryService) Upload(ctx context.Context, caller *model.User, in UploadInput) (*model.Picture, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Body == nil {
		return nil, validationError("タイトルと画像は必須です")
	}

	err := validation.ValidateFile(in.ContentType, in.Size, validation.ImageConstraints)
	if err != nil {
		return nil, validationError(err.Error())
	}

	now := s.now().UTC()
	key := ImageKey(now, in.Filename)

	err = s.storage.Put(ctx, key, in.Body, in.Size, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	picture := &model.Picture{
		UserID:    caller.ID,
		UserName:  caller.Name,
		Title:     title,
		Contents:  in.Contents,
		ImagePath: key,
		CreatedAt: now,
	}
	err = s.pictureRepository.Create(ctx, picture)
	if err != nil {
		// Anything left behind here is reclaimed by the sweep.
		delErr := s.storage.Delete(context.WithoutCancel(ctx), key)
		if delErr != nil {
			slog.Error("failed to delete image after picture insert failed", "error", delErr, "key", key)
		}
		return nil, fmt.Errorf("failed to create picture: %w", err)
	}

	slog.Info("picture uploaded", "picture_id", picture.ID, "user_id", caller.ID, "key", key)
	return picture, nil
}

// Delete checks existence before ownership, so a missing picture is
// reported as not found even to non-owners.
func (s *GalleryService) Delete(ctx context.Context, callerID, pictureID int64) error {
	picture, err := s.Detail(ctx, pictureID)
	if err != nil {
		return err
	}

	if !picture.OwnedBy(callerID) {
		return ErrForbidden
	}

	// Delete from storage (best effort)
	delErr := s.storage.Delete(ctx, picture.ImagePath)
	if delErr != nil {
		slog.Error("failed to delete image from storage", "error", delErr, "key", picture.ImagePath)
	}

	err = s.pictureRepository.Delete(ctx, pictureID)
	if errors.Is(err, repository.ErrPictureNotFound) {
		return ErrPictureNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete picture: %w", err)
	}

	slog.Info("picture deleted", "picture_id", pictureID, "user_id", callerID)
	return nil
}

// FetchImage reads a blob by key. Anyone holding the key may read it.
func (s *GalleryService) FetchImage(ctx context.Context, key string) (*storage.Object, error) {
	if key == "" {
		return nil, ErrImageNotFound
	}

	obj, err := s.storage.Get(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return obj, nil
}

// ImageKey builds "<unix-millis>-<12 hex chars>.<ext>" where ext is the
// last dot-segment of filename. Filenames without an extension produce a
// key without one.
func ImageKey(now time.Time, filename string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	key := fmt.Sprintf("%d-%s", now.UnixMilli(), random)

	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		key += "." + filename[i+1:]
	}
	return key
}
