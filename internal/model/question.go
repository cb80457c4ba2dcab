package model

import (
	"time"

	"github.com/google/uuid"
)

// Subject is one of the four subjects a question bank file can belong to.
type Subject string

const (
	SubjectPhysics   Subject = "Physics"
	SubjectChemistry Subject = "Chemistry"
	SubjectBiology   Subject = "Biology"
	SubjectMaths     Subject = "Maths"
)

// Subjects lists every known subject in display order.
var Subjects = []Subject{SubjectPhysics, SubjectChemistry, SubjectBiology, SubjectMaths}

// Valid reports whether s is a known subject.
func (s Subject) Valid() bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

// ExamType identifies the entrance exam a question targets.
type ExamType string

const (
	ExamTypeNEET ExamType = "NEET"
	ExamTypeJEE  ExamType = "JEE"
	ExamTypeBoth ExamType = "Both"
)

// ExamTypes lists every exam type an upload can be tagged with.
var ExamTypes = []ExamType{ExamTypeNEET, ExamTypeJEE, ExamTypeBoth}

// Valid reports whether e is a known exam type.
func (e ExamType) Valid() bool {
	switch e {
	case ExamTypeNEET, ExamTypeJEE, ExamTypeBoth:
		return true
	}
	return false
}

// Difficulty grades a question for test assembly. Rows without one default to medium.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DefaultMarks is awarded for a question when the source row does not say otherwise.
const DefaultMarks = 4

// BilingualText holds the English and Tamil variants of a learner-facing string.
type BilingualText struct {
	En string `json:"en"`
	Ta string `json:"ta"`
}

// BilingualOptions holds index-aligned English and Tamil option lists.
type BilingualOptions struct {
	En []string `json:"en"`
	Ta []string `json:"ta"`
}

// Question is a single bilingual multiple-choice question in the bank.
// It carries no reference to the upload that produced it.
type Question struct {
	ID            uuid.UUID        `json:"_id"`
	ExternalID    *int             `json:"externalId,omitempty"`
	ExamType      ExamType         `json:"examType"`
	Subject       Subject          `json:"subject"`
	Unit          int              `json:"unit"`
	Chapter       int              `json:"chapter"`
	Topic         string           `json:"topic"`
	Difficulty    Difficulty       `json:"difficulty"`
	Question      BilingualText    `json:"question"`
	Options       BilingualOptions `json:"options"`
	CorrectAnswer int              `json:"correctAnswer"`
	Explanation   BilingualText    `json:"explanation"`
	Marks         int              `json:"marks"`
	IsActive      bool             `json:"isActive"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// QuestionScope bounds a deduplication lookup to one chapter of one subject.
type QuestionScope struct {
	Subject Subject
	Unit    int
	Chapter int
}

// ListQuestionsQuery is the query-string filter for browsing the question bank.
type ListQuestionsQuery struct {
	Subject  string `form:"subject" binding:"omitempty,subject"`
	ExamType string `form:"exam_type" binding:"omitempty,exam_type"`
	Unit     int    `form:"unit" binding:"omitempty,min=1"`
	Chapter  int    `form:"chapter" binding:"omitempty,min=1"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PerPage  int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// QuestionFilter narrows a question bank listing. Zero values are not applied.
// An exam type filter also matches questions tagged Both.
type QuestionFilter struct {
	Subject  Subject
	ExamType ExamType
	Unit     int
	Chapter  int
}

// Filter converts the query into a store filter.
func (q ListQuestionsQuery) Filter() QuestionFilter {
	return QuestionFilter{
		Subject:  Subject(q.Subject),
		ExamType: ExamType(q.ExamType),
		Unit:     q.Unit,
		Chapter:  q.Chapter,
	}
}
