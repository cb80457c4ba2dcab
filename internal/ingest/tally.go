package ingest

import (
	"github.com/google/uuid"
	"github.com/tamilprep/qbank-backend/internal/model"
)

// MaxErrorDetails bounds the rejection details returned to the uploader.
// The error count itself is never capped.
const MaxErrorDetails = 10

// Tally accumulates the outcome of an import batch row by row.
type Tally struct {
	result model.ImportResult
	ids    []uuid.UUID
}

// NewTally starts an empty tally for a file with the given metadata.
func NewTally(meta model.ChapterMetadata) *Tally {
	return &Tally{
		result: model.ImportResult{
			ErrorDetails: []model.ImportErrorDetail{},
			Metadata:     meta,
		},
	}
}

// Reject records a row-level failure. row and externalID are optional.
func (t *Tally) Reject(row int, externalID *int, message string) {
	t.result.Total++
	t.result.Errors++
	if len(t.result.ErrorDetails) >= MaxErrorDetails {
		return
	}

	detail := model.ImportErrorDetail{Error: message}
	if row > 0 {
		r := row
		detail.Row = &r
	}
	if externalID != nil {
		id := *externalID
		detail.ID = &id
	}
	t.result.ErrorDetails = append(t.result.ErrorDetails, detail)
}

// Duplicate records a row whose external id already exists in scope.
func (t *Tally) Duplicate() {
	t.result.Total++
	t.result.Duplicates++
}

// Inserted records a newly persisted question.
func (t *Tally) Inserted(id uuid.UUID) {
	t.result.Total++
	t.result.Inserted++
	t.ids = append(t.ids, id)
}

// QuestionIDs returns the inserted ids in insertion order.
func (t *Tally) QuestionIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), t.ids...)
}

// Result returns a copy of the summary accumulated so far.
func (t *Tally) Result() *model.ImportResult {
	res := t.result
	res.ErrorDetails = append([]model.ImportErrorDetail{}, t.result.ErrorDetails...)
	return &res
}
