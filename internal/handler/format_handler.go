package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tamilprep/qbank-backend/internal/ingest"
	"github.com/tamilprep/qbank-backend/internal/model"
	"github.com/tamilprep/qbank-backend/internal/response"
)

// UploadFormat describes what an uploadable question bank file looks like.
type UploadFormat struct {
	FilenamePattern     string                             `json:"filename_pattern"`
	FilenameExample     string                             `json:"filename_example"`
	Subjects            []model.Subject                    `json:"subjects"`
	ExamTypes           []model.ExamType                   `json:"exam_types"`
	Columns             []string                           `json:"columns"`
	BilingualColumns    map[ingest.Field]ingest.ColumnPair `json:"bilingual_columns"`
	OptionsDelimiter    string                             `json:"options_delimiter"`
	SupportedExtensions []string                           `json:"supported_extensions"`
	MaxUploadBytes      int64                              `json:"max_upload_bytes"`
}

// FormatHandler serves the upload format description to spreadsheet authors.
type FormatHandler struct {
	format UploadFormat
}

// NewFormatHandler creates a new FormatHandler.
func NewFormatHandler(maxUploadBytes int64) *FormatHandler {
	return &FormatHandler{format: UploadFormat{
		FilenamePattern:     ingest.FilenameFormat,
		FilenameExample:     "physics_unit_1_chap_2_laws_of_motion_qb.xlsx",
		Subjects:            model.Subjects,
		ExamTypes:           model.ExamTypes,
		Columns:             ingest.RequiredColumns(),
		BilingualColumns:    ingest.Columns,
		OptionsDelimiter:    ingest.OptionsDelimiter,
		SupportedExtensions: ingest.SupportedExtensions(),
		MaxUploadBytes:      maxUploadBytes,
	}}
}

// GetUploadFormat godoc
// GET /api/v1/public/upload-format
func (h *FormatHandler) GetUploadFormat(c *gin.Context) {
	response.Success(c, http.StatusOK, h.format)
}
