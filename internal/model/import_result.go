package model

import "github.com/google/uuid"

// ImportErrorDetail describes one rejected row of an import batch.
type ImportErrorDetail struct {
	Row   *int   `json:"row,omitempty"`
	ID    *int   `json:"id,omitempty"`
	Error string `json:"error"`
}

// ImportResult summarises an import batch. It is returned to the uploader
// and never stored.
type ImportResult struct {
	UploadID     *uuid.UUID          `json:"uploadId,omitempty"`
	Total        int                 `json:"total"`
	Inserted     int                 `json:"inserted"`
	Duplicates   int                 `json:"duplicates"`
	Errors       int                 `json:"errors"`
	ErrorDetails []ImportErrorDetail `json:"errorDetails"`
	Metadata     ChapterMetadata     `json:"metadata"`
}
