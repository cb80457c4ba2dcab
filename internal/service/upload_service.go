package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/tamilprep/qbank-backend/internal/model"
)

// ErrUploadNotFound is returned when an upload record does not exist.
var ErrUploadNotFound = errors.New("upload not found")

const (
	defaultUploadListLimit = 20
	maxUploadListLimit     = 100
)

// UploadStore persists provenance records. Lookups of missing records
// return pgx.ErrNoRows.
type UploadStore interface {
	Create(ctx context.Context, u *model.UploadedFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.UploadedFile, error)
	List(ctx context.Context, f model.UploadFilter, limit int) ([]model.UploadedFile, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error)
}

// UploadService manages UploadedFile records: the link between an import
// batch and the questions it produced.
type UploadService struct {
	uploads UploadStore
	log     zerolog.Logger
}

// NewUploadService creates a new UploadService.
func NewUploadService(uploads UploadStore, log zerolog.Logger) *UploadService {
	return &UploadService{
		uploads: uploads,
		log:     log.With().Str("component", "upload_service").Logger(),
	}
}

// RecordImport persists the provenance record of a finished import batch.
// The question count is derived from questionIDs.
func (s *UploadService) RecordImport(
	ctx context.Context,
	fileName string,
	examType model.ExamType,
	meta model.ChapterMetadata,
	questionIDs []uuid.UUID,
	by model.Uploader,
) (*model.UploadedFile, error) {
	upload := model.NewUploadedFile(fileName, examType, meta, questionIDs, by)
	if err := s.uploads.Create(ctx, upload); err != nil {
		return nil, fmt.Errorf("create upload record: %w", err)
	}

	s.log.Info().
		Str("upload_id", upload.ID.String()).
		Str("file_name", fileName).
		Int("questions", upload.QuestionCount).
		Msg("Upload recorded")
	return upload, nil
}

// GetUpload retrieves one upload record including its question IDs.
func (s *UploadService) GetUpload(ctx context.Context, id uuid.UUID) (*model.UploadedFile, error) {
	upload, err := s.uploads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUploadNotFound
		}
		return nil, fmt.Errorf("get upload: %w", err)
	}
	return upload, nil
}

// DeleteUpload removes an upload and every question it owns. Deleting an
// upload that no longer exists is a no-op and reports zero questions.
func (s *UploadService) DeleteUpload(ctx context.Context, id uuid.UUID) (int64, error) {
	removed, err := s.uploads.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("delete upload: %w", err)
	}

	s.log.Info().
		Str("upload_id", id.String()).
		Int64("questions_removed", removed).
		Msg("Upload deleted")
	return removed, nil
}

// ListUploads returns upload summaries, most recent first. limit is clamped
// to [1, 100]; zero selects the default page size.
func (s *UploadService) ListUploads(ctx context.Context, f model.UploadFilter, limit int) ([]model.UploadedFile, error) {
	if limit < 1 {
		limit = defaultUploadListLimit
	}
	if limit > maxUploadListLimit {
		limit = maxUploadListLimit
	}

	uploads, err := s.uploads.List(ctx, f, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	summaries := make([]model.UploadedFile, len(uploads))
	for i, u := range uploads {
		summaries[i] = u.Summary()
	}
	return summaries, nil
}
