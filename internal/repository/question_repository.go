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

const questionColumns = `id, external_id, exam_type, subject, unit, chapter, topic, difficulty,
	question_en, question_ta, options_en, options_ta, correct_answer,
	explanation_en, explanation_ta, marks, is_active, created_at`

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func scanQuestion(row pgx.Row, q *model.Question) error {
	return row.Scan(&q.ID, &q.ExternalID, &q.ExamType, &q.Subject, &q.Unit, &q.Chapter, &q.Topic, &q.Difficulty,
		&q.Question.En, &q.Question.Ta, &q.Options.En, &q.Options.Ta, &q.CorrectAnswer,
		&q.Explanation.En, &q.Explanation.Ta, &q.Marks, &q.IsActive, &q.CreatedAt)
}

// GetByID retrieves a question by its UUID.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id), q)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// FindByExternalIDInScope looks up a question by its spreadsheet _id.
// A nil scope searches the whole bank. Returns pgx.ErrNoRows when absent.
func (r *QuestionRepository) FindByExternalIDInScope(ctx context.Context, externalID int, scope *model.QuestionScope) (*model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE external_id = $1`
	args := []interface{}{externalID}
	if scope != nil {
		query += ` AND subject = $2 AND unit = $3 AND chapter = $4`
		args = append(args, scope.Subject, scope.Unit, scope.Chapter)
	}
	query += ` ORDER BY created_at LIMIT 1`

	q := &model.Question{}
	if err := scanQuestion(r.pool.QueryRow(ctx, query, args...), q); err != nil {
		return nil, err
	}
	return q, nil
}

// Insert persists a new question and fills in its ID and creation time.
func (r *QuestionRepository) Insert(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (external_id, exam_type, subject, unit, chapter, topic, difficulty,
		                        question_en, question_ta, options_en, options_ta, correct_answer,
		                        explanation_en, explanation_ta, marks, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at`,
		q.ExternalID, q.ExamType, q.Subject, q.Unit, q.Chapter, q.Topic, q.Difficulty,
		q.Question.En, q.Question.Ta, q.Options.En, q.Options.Ta, q.CorrectAnswer,
		q.Explanation.En, q.Explanation.Ta, q.Marks, q.IsActive,
	).Scan(&q.ID, &q.CreatedAt)
}

// DeleteMany removes the given questions. IDs that no longer exist are ignored.
func (r *QuestionRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// List retrieves active questions matching the filter with pagination,
// ordered by chapter then creation.
func (r *QuestionRepository) List(ctx context.Context, f model.QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	where, args := questionFilterClause(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + questionColumns + ` FROM questions` + where +
		` ORDER BY subject, unit, chapter, created_at` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, 0, err
		}
		questions = append(questions, q)
	}
	return questions, total, rows.Err()
}

func questionFilterClause(f model.QuestionFilter) (string, []interface{}) {
	conds := []string{"is_active"}
	var args []interface{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.Subject != "" {
		add("subject = ?", f.Subject)
	}
	if f.ExamType != "" {
		add("(exam_type = ? OR exam_type = 'Both')", f.ExamType)
	}
	if f.Unit > 0 {
		add("unit = ?", f.Unit)
	}
	if f.Chapter > 0 {
		add("chapter = ?", f.Chapter)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
