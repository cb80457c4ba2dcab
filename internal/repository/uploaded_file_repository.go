package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tamilprep/qbank-backend/internal/model"
)

// UploadedFileRepository handles provenance records of question bank imports.
type UploadedFileRepository struct {
	pool *pgxpool.Pool
}

// NewUploadedFileRepository creates a new UploadedFileRepository.
func NewUploadedFileRepository(pool *pgxpool.Pool) *UploadedFileRepository {
	return &UploadedFileRepository{pool: pool}
}

// Create inserts a provenance record and fills in its ID and upload date.
func (r *UploadedFileRepository) Create(ctx context.Context, u *model.UploadedFile) error {
	ids := u.QuestionIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO uploaded_files (file_name, exam_type, subject, unit, chapter, chapter_name,
		                             question_count, question_ids, uploaded_by_name, uploaded_by_email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, upload_date`,
		u.FileName, u.ExamType, u.Subject, u.Unit, u.Chapter, u.ChapterName,
		u.QuestionCount, ids, u.UploadedBy.Name, u.UploadedBy.Email,
	).Scan(&u.ID, &u.UploadDate)
}

// GetByID retrieves a provenance record including its question IDs.
func (r *UploadedFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.UploadedFile, error) {
	u := &model.UploadedFile{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, file_name, exam_type, subject, unit, chapter, chapter_name,
		        question_count, question_ids, upload_date, uploaded_by_name, uploaded_by_email
		 FROM uploaded_files WHERE id = $1`, id,
	).Scan(&u.ID, &u.FileName, &u.ExamType, &u.Subject, &u.Unit, &u.Chapter, &u.ChapterName,
		&u.QuestionCount, &u.QuestionIDs, &u.UploadDate, &u.UploadedBy.Name, &u.UploadedBy.Email)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// List returns upload summaries, most recent first. Question IDs are not loaded.
func (r *UploadedFileRepository) List(ctx context.Context, f model.UploadFilter, limit int) ([]model.UploadedFile, error) {
	var conds []string
	var args []interface{}
	if f.ExamType != nil {
		args = append(args, *f.ExamType)
		conds = append(conds, "exam_type = $"+strconv.Itoa(len(args)))
	}
	if f.Subject != nil {
		args = append(args, *f.Subject)
		conds = append(conds, "subject = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT id, file_name, exam_type, subject, unit, chapter, chapter_name,
	                 question_count, upload_date, uploaded_by_name, uploaded_by_email
	          FROM uploaded_files`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	query += ` ORDER BY upload_date DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []model.UploadedFile
	for rows.Next() {
		var u model.UploadedFile
		if err := rows.Scan(&u.ID, &u.FileName, &u.ExamType, &u.Subject, &u.Unit, &u.Chapter, &u.ChapterName,
			&u.QuestionCount, &u.UploadDate, &u.UploadedBy.Name, &u.UploadedBy.Email); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// DeleteCascade removes a provenance record and every question it owns in
// one transaction. Owned questions already deleted elsewhere are skipped.
// Returns pgx.ErrNoRows when the record does not exist.
func (r *UploadedFileRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var ids []uuid.UUID
		if err := tx.QueryRow(ctx,
			`SELECT question_ids FROM uploaded_files WHERE id = $1 FOR UPDATE`, id,
		).Scan(&ids); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM questions WHERE id = ANY($1)`, ids)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected()

		_, err = tx.Exec(ctx, `DELETE FROM uploaded_files WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
