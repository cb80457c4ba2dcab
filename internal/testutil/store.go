// Package testutil holds in-memory stores used by service and HTTP tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tamilprep/qbank-backend/internal/model"
)

// MemQuestions is an in-memory question repository with the same
// not-found semantics as the Postgres one.
type MemQuestions struct {
	mu        sync.Mutex
	questions map[uuid.UUID]model.Question
	// InsertErr, when set, can fail individual inserts.
	InsertErr func(q *model.Question) error
}

func NewMemQuestions() *MemQuestions {
	return &MemQuestions{questions: make(map[uuid.UUID]model.Question)}
}

func (m *MemQuestions) FindByExternalIDInScope(_ context.Context, externalID int, scope *model.QuestionScope) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.questions {
		if q.ExternalID == nil || *q.ExternalID != externalID {
			continue
		}
		if scope != nil && (q.Subject != scope.Subject || q.Unit != scope.Unit || q.Chapter != scope.Chapter) {
			continue
		}
		found := q
		return &found, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *MemQuestions) Insert(_ context.Context, q *model.Question) error {
	if m.InsertErr != nil {
		if err := m.InsertErr(q); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = uuid.New()
	q.CreatedAt = time.Now()
	m.questions[q.ID] = *q
	return nil
}

func (m *MemQuestions) DeleteMany(_ context.Context, ids []uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := m.questions[id]; ok {
			delete(m.questions, id)
			n++
		}
	}
	return n, nil
}

func (m *MemQuestions) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &q, nil
}

func (m *MemQuestions) List(_ context.Context, f model.QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	m.mu.Lock()
	var all []model.Question
	for _, q := range m.questions {
		if f.Subject != "" && q.Subject != f.Subject {
			continue
		}
		if f.ExamType != "" && q.ExamType != f.ExamType && q.ExamType != model.ExamTypeBoth {
			continue
		}
		if f.Unit > 0 && q.Unit != f.Unit {
			continue
		}
		if f.Chapter > 0 && q.Chapter != f.Chapter {
			continue
		}
		all = append(all, q)
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *MemQuestions) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}

func (m *MemQuestions) All() []model.Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Question, 0, len(m.questions))
	for _, q := range m.questions {
		out = append(out, q)
	}
	return out
}

// MemUploads is an in-memory upload repository whose cascade delete reaches
// into a MemQuestions.
type MemUploads struct {
	mu        sync.Mutex
	uploads   map[uuid.UUID]model.UploadedFile
	questions *MemQuestions
	CreateErr error
	// LastLimit records the limit passed to the most recent List call.
	LastLimit int
}

func NewMemUploads(questions *MemQuestions) *MemUploads {
	return &MemUploads{uploads: make(map[uuid.UUID]model.UploadedFile), questions: questions}
}

func (m *MemUploads) Create(_ context.Context, u *model.UploadedFile) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = uuid.New()
	u.UploadDate = time.Now()
	m.uploads[u.ID] = *u
	return nil
}

func (m *MemUploads) GetByID(_ context.Context, id uuid.UUID) (*model.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.uploads[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (m *MemUploads) List(_ context.Context, f model.UploadFilter, limit int) ([]model.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastLimit = limit

	var out []model.UploadedFile
	for _, u := range m.uploads {
		if f.ExamType != nil && u.ExamType != *f.ExamType {
			continue
		}
		if f.Subject != nil && u.Subject != *f.Subject {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemUploads) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	u, ok := m.uploads[id]
	if !ok {
		m.mu.Unlock()
		return 0, pgx.ErrNoRows
	}
	delete(m.uploads, id)
	m.mu.Unlock()

	return m.questions.DeleteMany(ctx, u.QuestionIDs)
}

func (m *MemUploads) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}
