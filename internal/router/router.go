package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tamilprep/qbank-backend/internal/config"
	"github.com/tamilprep/qbank-backend/internal/handler"
	"github.com/tamilprep/qbank-backend/internal/middleware"
	"github.com/tamilprep/qbank-backend/internal/model"
	"github.com/tamilprep/qbank-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Upload   *handler.UploadHandler
	Question *handler.QuestionHandler
	Format   *handler.FormatHandler
	Health   *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by middlewares.
func SetupRouter(
	ctx context.Context,
	auth middleware.TokenValidator,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.MaxMultipartMemory = cfg.MaxUploadBytes

	router.GET("/health", middleware.NoStore(), handlers.Health.Health)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(middleware.Brotli())
	{
		publicAPI.GET("/upload-format", middleware.CacheControl(time.Hour), handlers.Format.GetUploadFormat)
	}

	uploadLimiter := middleware.NewRateLimiter(ctx, cfg.UploadRatePerMin)

	// ─── 1. Admin Group (Admin JWT) ────────────────────────────────────
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.RequireAdminJWT(auth))
	{
		// Uploads
		admin.POST("/uploads",
			uploadLimiter.Middleware(),
			middleware.RequirePermission(string(model.PermissionQBankUpload)),
			handlers.Upload.UploadQuestionBank)
		admin.GET("/uploads", middleware.Brotli(), middleware.RequirePermission(string(model.PermissionQBankRead)), handlers.Upload.ListUploads)
		admin.GET("/uploads/:id", middleware.Brotli(), middleware.RequirePermission(string(model.PermissionQBankRead)), handlers.Upload.GetUpload)
		admin.DELETE("/uploads/:id", middleware.RequirePermission(string(model.PermissionQBankDelete)), handlers.Upload.DeleteUpload)

		// Questions
		admin.GET("/questions", middleware.Brotli(), middleware.RequirePermission(string(model.PermissionQBankRead)), handlers.Question.ListQuestions)
		admin.GET("/questions/:id", middleware.RequirePermission(string(model.PermissionQBankRead)), handlers.Question.GetQuestion)
	}

	return router
}
