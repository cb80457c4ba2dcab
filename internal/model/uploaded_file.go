package model

import (
	"time"

	"github.com/google/uuid"
)

// Uploader identifies the admin who submitted a question bank file.
// Supplied by the auth service and stored verbatim.
type Uploader struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChapterMetadata is the subject/unit/chapter information carried by a
// question bank filename.
type ChapterMetadata struct {
	Subject     Subject `json:"subject"`
	Unit        int     `json:"unit"`
	Chapter     int     `json:"chapter"`
	ChapterName string  `json:"chapterName"`
}

// Scope returns the deduplication scope covered by the metadata.
func (m ChapterMetadata) Scope() QuestionScope {
	return QuestionScope{Subject: m.Subject, Unit: m.Unit, Chapter: m.Chapter}
}

// UploadedFile is the provenance record of one import batch. It owns the
// questions listed in QuestionIDs; deleting it deletes them.
type UploadedFile struct {
	ID            uuid.UUID   `json:"_id"`
	FileName      string      `json:"fileName"`
	ExamType      ExamType    `json:"examType"`
	Subject       Subject     `json:"subject"`
	Unit          int         `json:"unit"`
	Chapter       int         `json:"chapter"`
	ChapterName   string      `json:"chapterName"`
	QuestionCount int         `json:"questionCount"`
	QuestionIDs   []uuid.UUID `json:"questionIds,omitempty"`
	UploadDate    time.Time   `json:"uploadDate"`
	UploadedBy    Uploader    `json:"uploadedBy"`
}

// NewUploadedFile builds a provenance record. QuestionCount is always derived
// from questionIDs.
func NewUploadedFile(fileName string, examType ExamType, meta ChapterMetadata, questionIDs []uuid.UUID, by Uploader) *UploadedFile {
	ids := make([]uuid.UUID, len(questionIDs))
	copy(ids, questionIDs)

	return &UploadedFile{
		FileName:      fileName,
		ExamType:      examType,
		Subject:       meta.Subject,
		Unit:          meta.Unit,
		Chapter:       meta.Chapter,
		ChapterName:   meta.ChapterName,
		QuestionCount: len(ids),
		QuestionIDs:   ids,
		UploadedBy:    by,
	}
}

// Summary drops the owned question IDs for listing responses.
func (u UploadedFile) Summary() UploadedFile {
	u.QuestionIDs = nil
	return u
}

// UploadFilter narrows an upload listing. Nil fields are not applied.
type UploadFilter struct {
	ExamType *ExamType
	Subject  *Subject
}

// UploadFileRequest is the multipart form accompanying a question bank upload.
type UploadFileRequest struct {
	ExamType string `form:"exam_type" binding:"omitempty,exam_type"`
}

// ListUploadsQuery is the query-string filter for the upload history.
type ListUploadsQuery struct {
	ExamType string `form:"exam_type" binding:"omitempty,exam_type"`
	Subject  string `form:"subject" binding:"omitempty,subject"`
	Limit    int    `form:"limit"`
}

// Filter converts the query into a store filter.
func (q ListUploadsQuery) Filter() UploadFilter {
	var f UploadFilter
	if q.ExamType != "" {
		et := ExamType(q.ExamType)
		f.ExamType = &et
	}
	if q.Subject != "" {
		s := Subject(q.Subject)
		f.Subject = &s
	}
	return f
}
