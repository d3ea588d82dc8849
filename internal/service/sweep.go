package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/templui/picture-gallery/internal/repository"
	"github.com/templui/picture-gallery/internal/storage"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSweepGrace       = time.Hour
	defaultSweepConcurrency = 8
)

type SweepOptions struct {
	// Blobs younger than Grace are never deleted; their row may still be in flight.
	Grace       time.Duration
	DryRun      bool
	Concurrency int
}

type SweepReport struct {
	Scanned              int
	Orphaned             int
	Deleted              int
	Failed               int
	ExpiredSessions      int64
	ExpiredVerifications int64
}

// SweepService reclaims storage and rows nothing refers to anymore.
type SweepService struct {
	pictureRepository      repository.PictureRepository
	sessionRepository      repository.SessionRepository
	verificationRepository repository.VerificationRepository
	storage                storage.Storage
	now                    func() time.Time
}

func NewSweepService(
	pictureRepository repository.PictureRepository,
	sessionRepository repository.SessionRepository,
	verificationRepository repository.VerificationRepository,
	storage storage.Storage,
) *SweepService {
	return &SweepService{
		pictureRepository:      pictureRepository,
		sessionRepository:      sessionRepository,
		verificationRepository: verificationRepository,
		storage:                storage,
		now:                    time.Now,
	}
}

func (s *SweepService) WithClock(now func() time.Time) *SweepService {
	s.now = now
	return s
}

func (s *SweepService) Run(ctx context.Context, opts SweepOptions) (*SweepReport, error) {
	if opts.Grace <= 0 {
		opts.Grace = DefaultSweepGrace
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultSweepConcurrency
	}

	now := s.now().UTC()
	report := &SweepReport{}

	// List blobs before reading references: a blob uploaded in between is
	// younger than the grace period and therefore safe.
	objects, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	paths, err := s.pictureRepository.ImagePaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load image paths: %w", err)
	}
	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[p] = struct{}{}
	}

	cutoff := now.Add(-opts.Grace)
	var orphans []string
	for _, obj := range objects {
		report.Scanned++
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		orphans = append(orphans, obj.Key)
	}
	report.Orphaned = len(orphans)

	if !opts.DryRun {
		var deleted, failed atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for _, key := range orphans {
			g.Go(func() error {
				err := s.storage.Delete(gctx, key)
				if err != nil {
					failed.Add(1)
					slog.Warn("failed to delete orphaned image", "error", err, "key", key)
					return nil
				}
				deleted.Add(1)
				slog.Debug("deleted orphaned image", "key", key)
				return nil
			})
		}
		_ = g.Wait()

		report.Deleted = int(deleted.Load())
		report.Failed = int(failed.Load())

		report.ExpiredSessions, err = s.sessionRepository.DeleteExpired(ctx, now)
		if err != nil {
			return report, fmt.Errorf("failed to delete expired sessions: %w", err)
		}

		report.ExpiredVerifications, err = s.verificationRepository.DeleteExpired(ctx, now)
		if err != nil {
			return report, fmt.Errorf("failed to delete expired verifications: %w", err)
		}
	}

	slog.Info("sweep finished",
		"dry_run", opts.DryRun,
		"scanned", report.Scanned,
		"orphaned", report.Orphaned,
		"deleted", report.Deleted,
		"failed", report.Failed,
		"expired_sessions", report.ExpiredSessions,
		"expired_verifications", report.ExpiredVerifications,
	)
	return report, ctx.Err()
}
