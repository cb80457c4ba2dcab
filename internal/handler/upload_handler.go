package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tamilprep/qbank-backend/internal/ingest"
	"github.com/tamilprep/qbank-backend/internal/lock"
	"github.com/tamilprep/qbank-backend/internal/middleware"
	"github.com/tamilprep/qbank-backend/internal/model"
	"github.com/tamilprep/qbank-backend/internal/response"
	"github.com/tamilprep/qbank-backend/internal/service"
	"github.com/tamilprep/qbank-backend/internal/validator"
)

// multipartOverhead is headroom for form fields and part headers on top of
// the file size limit.
const multipartOverhead = 1 << 20

// UploadHandler handles question bank upload endpoints.
type UploadHandler struct {
	importService  *service.ImportService
	uploadService  *service.UploadService
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(importService *service.ImportService, uploadService *service.UploadService, maxUploadBytes int64, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		importService:  importService,
		uploadService:  uploadService,
		maxUploadBytes: maxUploadBytes,
		log:            log.With().Str("component", "upload_handler").Logger(),
	}
}

// UploadQuestionBank godoc
// POST /api/v1/admin/uploads
// Imports a question bank spreadsheet and returns the import summary.
func (h *UploadHandler) UploadQuestionBank(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if header.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}
	if !ingest.SupportedExtension(header.Filename) {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}

	var req model.UploadFileRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrUnreadableFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrUnreadableFile)
		return
	}

	var uploader model.Uploader
	if claims := middleware.GetClaims(c); claims != nil {
		uploader = claims.Uploader()
	}

	result, err := h.importService.Import(c.Request.Context(), service.ImportRequest{
		FileName: header.Filename,
		ExamType: model.ExamType(req.ExamType),
		Data:     data,
		Uploader: uploader,
	})
	if err != nil {
		h.failImport(c, header.Filename, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *UploadHandler) failImport(c *gin.Context, fileName string, err error) {
	detail := map[string]string{"file": err.Error()}
	switch {
	case errors.Is(err, ingest.ErrInvalidFilenameFormat):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidFilenameFormat, detail)
	case errors.Is(err, ingest.ErrUnknownSubject):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrUnknownSubject, detail)
	case errors.Is(err, ingest.ErrUnreadableFile):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrUnreadableFile, detail)
	case errors.Is(err, ingest.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrInvalidExamType):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"exam_type": err.Error()})
	case errors.Is(err, lock.ErrTimeout):
		response.Fail(c, http.StatusConflict, response.ErrImportBusy)
	default:
		h.log.Error().Err(err).Str("file_name", fileName).Msg("Import failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// ListUploads godoc
// GET /api/v1/admin/uploads
// Lists upload history, most recent first.
func (h *UploadHandler) ListUploads(c *gin.Context) {
	var q model.ListUploadsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	uploads, err := h.uploadService.ListUploads(c.Request.Context(), q.Filter(), q.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("List uploads failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"uploads": uploads})
}

// GetUpload godoc
// GET /api/v1/admin/uploads/:id
// Returns one upload including the IDs of its questions.
func (h *UploadHandler) GetUpload(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	upload, err := h.uploadService.GetUpload(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUploadNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Str("upload_id", id.String()).Msg("Get upload failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"upload": upload})
}

// DeleteUpload godoc
// DELETE /api/v1/admin/uploads/:id
// Deletes an upload and every question it produced.
func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	removed, err := h.uploadService.DeleteUpload(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("upload_id", id.String()).Msg("Delete upload failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted_questions": removed})
}
