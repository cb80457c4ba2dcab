package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tamilprep/qbank-backend/internal/model"
	"github.com/tamilprep/qbank-backend/internal/response"
)

// ErrQuestionNotFound is returned when a question does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// QuestionReader is the read side of the question repository.
type QuestionReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	List(ctx context.Context, f model.QuestionFilter, limit, offset int) ([]model.Question, int, error)
}

// QuestionService serves the question bank to admins.
type QuestionService struct {
	questionRepo QuestionReader
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo QuestionReader) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// ListQuestions retrieves active questions matching the filter with pagination.
func (s *QuestionService) ListQuestions(ctx context.Context, f model.QuestionFilter, page, perPage int) ([]model.Question, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	questions, total, err := s.questionRepo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if questions == nil {
		questions = []model.Question{}
	}

	return questions, response.NewPagination(page, perPage, total), nil
}

// GetQuestion retrieves a single question.
func (s *QuestionService) GetQuestion(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}
