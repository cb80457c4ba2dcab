package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/tamilprep/qbank-backend/internal/config"
	"github.com/tamilprep/qbank-backend/internal/ingest"
	"github.com/tamilprep/qbank-backend/internal/lock"
	"github.com/tamilprep/qbank-backend/internal/model"
)

// ErrInvalidExamType is returned for an exam type outside NEET, JEE and Both.
var ErrInvalidExamType = errors.New("invalid exam type")

// QuestionStore is the question repository as seen by the importer.
// FindByExternalIDInScope returns pgx.ErrNoRows when nothing matches; a nil
// scope searches the whole bank.
type QuestionStore interface {
	FindByExternalIDInScope(ctx context.Context, externalID int, scope *model.QuestionScope) (*model.Question, error)
	Insert(ctx context.Context, q *model.Question) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// ImportRequest is one uploaded question bank file.
type ImportRequest struct {
	FileName string
	ExamType model.ExamType
	Data     []byte
	Uploader model.Uploader
}

// ImportService runs the ingestion pipeline: filename metadata, then a
// normalize → validate → dedup → insert fold over the rows, then the
// provenance record.
type ImportService struct {
	questions QuestionStore
	uploads   *UploadService
	locker    lock.Locker
	scope     config.DedupScope
	log       zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(
	questions QuestionStore,
	uploads *UploadService,
	locker lock.Locker,
	scope config.DedupScope,
	log zerolog.Logger,
) *ImportService {
	return &ImportService{
		questions: questions,
		uploads:   uploads,
		locker:    locker,
		scope:     scope,
		log:       log.With().Str("component", "import_service").Logger(),
	}
}

// Import processes one file. Filename, exam type and container problems are
// fatal and returned as errors before anything is inserted. Row problems
// never abort the batch; they are reported in the result.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*model.ImportResult, error) {
	start := time.Now()

	examType := req.ExamType
	if examType == "" {
		examType = model.ExamTypeBoth
	}
	if !examType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExamType, examType)
	}

	meta, err := ingest.ParseFilename(req.FileName)
	if err != nil {
		return nil, err
	}

	sheet, err := ingest.ReadSheet(req.FileName, req.Data)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, s.lockKey(meta))
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	defer release()

	tally := ingest.NewTally(meta)
	for _, row := range sheet.Rows {
		s.importRow(ctx, row, meta, examType, tally)
	}

	ids := tally.QuestionIDs()
	upload, err := s.uploads.RecordImport(ctx, filepath.Base(req.FileName), examType, meta, ids, req.Uploader)
	if err != nil {
		s.discardInserted(ctx, ids)
		return nil, err
	}

	result := tally.Result()
	result.UploadID = &upload.ID

	s.log.Info().
		Str("file_name", upload.FileName).
		Str("subject", string(meta.Subject)).
		Int("unit", meta.Unit).
		Int("chapter", meta.Chapter).
		Int("total", result.Total).
		Int("inserted", result.Inserted).
		Int("duplicates", result.Duplicates).
		Int("errors", result.Errors).
		Dur("took", time.Since(start)).
		Msg("Question bank imported")

	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, row ingest.Row, meta model.ChapterMetadata, examType model.ExamType, tally *ingest.Tally) {
	candidate := ingest.Normalize(row)

	verdict := ingest.Validate(candidate)
	if !verdict.Accepted {
		s.log.Debug().Int("row", row.Number).Str("reason", verdict.Reason).Msg("Row rejected")
		tally.Reject(candidate.Row, candidate.ExternalID, verdict.Reason)
		return
	}

	duplicate, err := s.isDuplicate(ctx, candidate.ExternalID, meta)
	if err != nil {
		s.log.Warn().Err(err).Int("row", row.Number).Msg("Duplicate lookup failed")
		tally.Reject(candidate.Row, candidate.ExternalID, err.Error())
		return
	}
	if duplicate {
		tally.Duplicate()
		return
	}

	q := candidate.ToQuestion(meta, examType)
	if err := s.questions.Insert(ctx, q); err != nil {
		s.log.Warn().Err(err).Int("row", row.Number).Msg("Question insert failed")
		tally.Reject(candidate.Row, candidate.ExternalID, err.Error())
		return
	}
	tally.Inserted(q.ID)
}

// isDuplicate reports whether a question with the same _id exists in the
// configured scope. Rows without an _id are always new.
func (s *ImportService) isDuplicate(ctx context.Context, externalID *int, meta model.ChapterMetadata) (bool, error) {
	if externalID == nil {
		return false, nil
	}

	var scope *model.QuestionScope
	if s.scope != config.DedupScopeGlobal {
		sc := meta.Scope()
		scope = &sc
	}

	_, err := s.questions.FindByExternalIDInScope(ctx, *externalID, scope)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}

func (s *ImportService) lockKey(meta model.ChapterMetadata) string {
	if s.scope == config.DedupScopeGlobal {
		return config.CacheKey.ImportGlobalLockKey()
	}
	return config.CacheKey.ImportScopeLockKey(string(meta.Subject), meta.Unit, meta.Chapter)
}

// discardInserted removes questions of a batch whose provenance record could
// not be written, so that no question is left without an owner.
func (s *ImportService) discardInserted(ctx context.Context, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	removed, err := s.questions.DeleteMany(context.WithoutCancel(ctx), ids)
	if err != nil {
		s.log.Error().Err(err).Int("questions", len(ids)).Msg("Failed to discard questions of unrecorded import")
		return
	}
	s.log.Warn().Int64("questions", removed).Msg("Discarded questions of unrecorded import")
}
