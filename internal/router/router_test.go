package router

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamilprep/qbank-backend/internal/config"
	"github.com/tamilprep/qbank-backend/internal/handler"
	"github.com/tamilprep/qbank-backend/internal/lock"
	"github.com/tamilprep/qbank-backend/internal/model"
	"github.com/tamilprep/qbank-backend/internal/response"
	"github.com/tamilprep/qbank-backend/internal/service"
	"github.com/tamilprep/qbank-backend/internal/testutil"
	"github.com/tamilprep/qbank-backend/internal/validator"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type fixture struct {
	engine    *gin.Engine
	questions *testutil.MemQuestions
	uploads   *testutil.MemUploads
}

func newFixture(t *testing.T, mutate func(cfg *config.Config)) *fixture {
	t.Helper()
	cfg := &config.Config{
		GinMode:          gin.TestMode,
		JWTSecret:        testSecret,
		MaxUploadBytes:   1 << 20,
		DedupScope:       config.DedupScopeChapter,
		ImportLockWait:   time.Second,
		UploadRatePerMin: 100,
	}
	if mutate != nil {
		mutate(cfg)
	}

	log := zerolog.Nop()
	questions := testutil.NewMemQuestions()
	uploads := testutil.NewMemUploads(questions)
	uploadSvc := service.NewUploadService(uploads, log)
	importSvc := service.NewImportService(questions, uploadSvc, lock.NewLocal(cfg.ImportLockWait), cfg.DedupScope, log)

	handlers := &Handlers{
		Upload:   handler.NewUploadHandler(importSvc, uploadSvc, cfg.MaxUploadBytes, log),
		Question: handler.NewQuestionHandler(service.NewQuestionService(questions)),
		Format:   handler.NewFormatHandler(cfg.MaxUploadBytes),
		Health:   handler.NewHealthHandler(pinger{}, log),
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &fixture{
		engine:    SetupRouter(ctx, service.NewAuthService(cfg), handlers, cfg),
		questions: questions,
		uploads:   uploads,
	}
}

func token(t *testing.T, permissions ...model.Permission) string {
	t.Helper()
	perms := make([]string, len(permissions))
	for i, p := range permissions {
		perms[i] = string(p)
	}
	now := time.Now()
	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenType:   service.TokenTypeAdmin,
		Name:        "Kavya",
		Email:       "kavya@example.com",
		Permissions: perms,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func questionCSV(t *testing.T, from, n int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write([]string{"_id", "question", "கேள்வி", "questionOptions", "விருப்பங்கள்", "answers", "பதில்", "explanation", "விளக்கம்"}))
	for id := from; id < from+n; id++ {
		require.NoError(t, w.Write([]string{
			strconv.Itoa(id),
			fmt.Sprintf("Question %d: displacement is a", id),
			fmt.Sprintf("கேள்வி %d: இடப்பெயர்ச்சி என்பது", id),
			"1. Scalar | 2. Vector | 3. Tensor | 4. None of these",
			"1. திசையிலி | 2. திசையன் | 3. டென்சர் | 4. எதுவுமில்லை",
			"2",
			"2",
			"Displacement has both magnitude and direction.",
			"இடப்பெயர்ச்சிக்கு அளவும் திசையும் உண்டு.",
		}))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.Bytes()
}

type envelope struct {
	Data       json.RawMessage      `json:"data"`
	Error      *response.ErrorBody  `json:"error"`
	Pagination *response.Pagination `json:"pagination"`
}

func (f *fixture) do(t *testing.T, req *http.Request, bearer string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Encoding") == "" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func uploadRequest(t *testing.T, fileName string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (f *fixture) upload(t *testing.T, fileName string, data []byte) model.ImportResult {
	t.Helper()
	rec, env := f.do(t, uploadRequest(t, fileName, data, map[string]string{"exam_type": "NEET"}), token(t, model.AllPermissions...))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res model.ImportResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	rec, env := f.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, string(env.Data))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealth_DatabaseDown(t *testing.T) {
	log := zerolog.Nop()
	engine := gin.New()
	engine.GET("/health", handler.NewHealthHandler(pinger{err: errors.New("connection refused")}, log).Health)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUploadFormat(t *testing.T) {
	f := newFixture(t, nil)
	rec, env := f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/public/upload-format", nil), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	var format handler.UploadFormat
	require.NoError(t, json.Unmarshal(env.Data, &format))
	assert.Equal(t, " | ", format.OptionsDelimiter)
	assert.Equal(t, []string{"_id", "question", "கேள்வி", "questionOptions", "விருப்பங்கள்", "answers", "பதில்", "explanation", "விளக்கம்"}, format.Columns)
}

func TestAuth(t *testing.T) {
	f := newFixture(t, nil)

	rec, env := f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/uploads", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, response.ErrTokenRequired, env.Error.Code)

	rec, env = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/uploads", nil), "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, response.ErrTokenInvalid, env.Error.Code)

	rec, env = f.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/uploads/"+"00000000-0000-0000-0000-000000000000", nil), token(t, model.PermissionQBankRead))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, response.ErrPermissionDenied, env.Error.Code)
}

func TestUpload(t *testing.T) {
	f := newFixture(t, nil)

	res := f.upload(t, "physics_unit_1_chap_2_motion_in_a_line_qb.csv", questionCSV(t, 1, 5))
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 5, res.Inserted)
	assert.Equal(t, "Motion In A Line", res.Metadata.ChapterName)
	require.NotNil(t, res.UploadID)

	rec, env := f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/uploads/"+res.UploadID.String(), nil), token(t, model.AllPermissions...))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Upload model.UploadedFile `json:"upload"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, model.Uploader{Name: "Kavya", Email: "kavya@example.com"}, body.Upload.UploadedBy)
	assert.Equal(t, model.ExamTypeNEET, body.Upload.ExamType)
	assert.Len(t, body.Upload.QuestionIDs, 5)
}

func TestUpload_Failures(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
		fields   map[string]string
		code     response.ErrCode
	}{
		{"missing file", "", nil, nil, response.ErrFileRequired},
		{"unsupported extension", "physics_unit_1_chap_2_motion_qb.pdf", []byte("%PDF"), nil, response.ErrUnsupportedFile},
		{"bad filename", "motion.csv", []byte("_id\n1\n"), nil, response.ErrInvalidFilenameFormat},
		{"unknown subject", "history_unit_1_chap_2_mughals_qb.csv", []byte("_id\n1\n"), nil, response.ErrUnknownSubject},
		{"unreadable workbook", "physics_unit_1_chap_2_motion_qb.xlsx", []byte("not a workbook"), nil, response.ErrUnreadableFile},
		{"invalid exam type", "physics_unit_1_chap_2_motion_qb.csv", []byte("_id\n1\n"), map[string]string{"exam_type": "GATE"}, response.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			rec, env := f.do(t, uploadRequest(t, tt.fileName, tt.data, tt.fields), token(t, model.AllPermissions...))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Zero(t, f.questions.Count())
			assert.Zero(t, f.uploads.Count())
		})
	}
}

func TestUpload_TooLarge(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.MaxUploadBytes = 256 })

	rec, env := f.do(t, uploadRequest(t, "physics_unit_1_chap_2_motion_qb.csv", questionCSV(t, 1, 5), nil), token(t, model.AllPermissions...))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.ErrFileTooLarge, env.Error.Code)
}

func TestUpload_RateLimited(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.UploadRatePerMin = 2 })
	bearer := token(t, model.AllPermissions...)

	for i := 0; i < 2; i++ {
		rec, _ := f.do(t, uploadRequest(t, "", nil, nil), bearer)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec, env := f.do(t, uploadRequest(t, "", nil, nil), bearer)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, response.ErrRateLimitExceeded, env.Error.Code)
}

func TestDeleteUpload(t *testing.T) {
	f := newFixture(t, nil)
	res := f.upload(t, "biology_unit_4_chap_9_the_tissues_qb.csv", questionCSV(t, 1, 12))
	require.Equal(t, 12, res.Inserted)

	path := "/api/v1/admin/uploads/" + res.UploadID.String()
	for _, want := range []int{12, 0} {
		rec, env := f.do(t, httptest.NewRequest(http.MethodDelete, path, nil), token(t, model.AllPermissions...))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"deleted_questions":%d}`, want), string(env.Data))
	}
	assert.Zero(t, f.questions.Count())

	rec, env := f.do(t, httptest.NewRequest(http.MethodGet, path, nil), token(t, model.AllPermissions...))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, response.ErrNotFound, env.Error.Code)

	rec, env = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/uploads/not-a-uuid", nil), token(t, model.AllPermissions...))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.ErrInvalidID, env.Error.Code)
}

func TestListUploads(t *testing.T) {
	f := newFixture(t, nil)
	f.upload(t, "physics_unit_1_chap_2_motion_qb.csv", questionCSV(t, 1, 2))
	f.upload(t, "chemistry_unit_3_chap_1_bonding_qb.csv", questionCSV(t, 1, 3))

	rec, env := f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/uploads?subject=Chemistry&limit=500", nil), token(t, model.PermissionQBankRead))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Uploads []model.UploadedFile `json:"uploads"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Uploads, 1)
	assert.Equal(t, 3, body.Uploads[0].QuestionCount)
	assert.Nil(t, body.Uploads[0].QuestionIDs)
	assert.Equal(t, 100, f.uploads.LastLimit)

	rec, env = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/uploads?subject=History", nil), token(t, model.PermissionQBankRead))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.ErrValidation, env.Error.Code)
	assert.Contains(t, env.Error.Fields, "subject")
}

func TestListQuestions(t *testing.T) {
	f := newFixture(t, nil)
	f.upload(t, "physics_unit_1_chap_2_motion_qb.csv", questionCSV(t, 1, 25))

	rec, env := f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/questions?subject=Physics&exam_type=NEET&page=3&per_page=10", nil), token(t, model.PermissionQBankRead))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Questions []model.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Len(t, body.Questions, 5)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 25, env.Pagination.TotalItems)
	assert.Equal(t, 3, env.Pagination.TotalPages)
}

func TestListQuestions_Brotli(t *testing.T) {
	f := newFixture(t, nil)
	f.upload(t, "physics_unit_1_chap_2_motion_qb.csv", questionCSV(t, 1, 10))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/questions", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	rec, _ := f.do(t, req, token(t, model.PermissionQBankRead))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "br", rec.Header().Get("Content-Encoding"))

	plain, err := io.ReadAll(brotli.NewReader(rec.Body))
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(plain, &env))
	assert.Equal(t, 10, env.Pagination.TotalItems)
}
