package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/draftday/draftsim/internal/domain/archive"
	"github.com/draftday/draftsim/internal/platform/logging"
)

// ArchiveService reads back completed drafts that DraftService stored.
// When no archive repository is configured every call reports the
// dependency as unavailable instead of failing deeper in the stack.
type ArchiveService struct {
	repo   archive.Repository
	logger *logging.Logger
}

func NewArchiveService(repo archive.Repository, logger *logging.Logger) *ArchiveService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ArchiveService{
		repo:   repo,
		logger: logger,
	}
}

func (s *ArchiveService) Enabled() bool {
	return s.repo != nil
}

func (s *ArchiveService) Get(ctx context.Context, archiveID string) (archive.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.Get")
	defer span.End()

	if s.repo == nil {
		return archive.Draft{}, fmt.Errorf("%w: draft archive is not configured", ErrDependencyUnavailable)
	}

	archiveID = strings.TrimSpace(archiveID)
	if archiveID == "" {
		return archive.Draft{}, fmt.Errorf("%w: archive id is required", ErrInvalidInput)
	}

	record, ok, err := s.repo.GetByID(ctx, archiveID)
	if err != nil {
		return archive.Draft{}, fmt.Errorf("load draft archive: %w", err)
	}
	if !ok {
		return archive.Draft{}, fmt.Errorf("%w: archive %s", ErrNotFound, archiveID)
	}

	return record, nil
}

func (s *ArchiveService) List(ctx context.Context, limit, offset int) ([]archive.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.List")
	defer span.End()

	if s.repo == nil {
		return nil, fmt.Errorf("%w: draft archive is not configured", ErrDependencyUnavailable)
	}
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}

	summaries, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list draft archives: %w", err)
	}

	return summaries, nil
}

func (s *ArchiveService) Delete(ctx context.Context, archiveID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.Delete")
	defer span.End()

	if s.repo == nil {
		return fmt.Errorf("%w: draft archive is not configured", ErrDependencyUnavailable)
	}

	archiveID = strings.TrimSpace(archiveID)
	if archiveID == "" {
		return fmt.Errorf("%w: archive id is required", ErrInvalidInput)
	}

	if _, ok, err := s.repo.GetByID(ctx, archiveID); err != nil {
		return fmt.Errorf("load draft archive: %w", err)
	} else if !ok {
		return fmt.Errorf("%w: archive %s", ErrNotFound, archiveID)
	}

	if err := s.repo.Delete(ctx, archiveID); err != nil {
		return fmt.Errorf("delete draft archive: %w", err)
	}

	s.logger.Info("draft archive deleted", "archive_id", archiveID)
	return nil
}
