package v1

import (
	"net/http"

	"maplehr-backend/internal/delivery/http/middleware"
	"maplehr-backend/internal/delivery/http/response"
	"maplehr-backend/internal/domain"
	"maplehr-backend/internal/usecase"
	"maplehr-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// multipart overhead allowed on top of the file size limit
const multipartSlack = 1 << 20

type RouterDeps struct {
	IngestionUC    domain.IngestionUsecase
	ScoringUC      domain.ScoringUsecase
	ReviewUC       domain.ReviewUsecase
	HealthUC       usecase.HealthUsecase
	UploadLimiter  middleware.UploadLimiter // nil disables upload limiting
	RateLimitRedis goredis.Scripter         // nil keeps API rate limit counters in memory
	APIRateLimit   int                      // requests per minute per IP on /ats
	MaxUploadBytes int64
	FrontendURL    string
	Logger         *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = usecase.DefaultMaxUploadBytes
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()
	r.MaxMultipartMemory = deps.MaxUploadBytes + multipartSlack

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Logger))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status := deps.HealthUC.Check(c.Request.Context())
		if status["status"] != "ok" {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewResumeHandler(v1, deps.IngestionUC, deps.ReviewUC, deps.MaxUploadBytes,
		middleware.BodyLimit(deps.MaxUploadBytes+multipartSlack),
		middleware.UploadRateLimit(deps.UploadLimiter, deps.Logger),
	)
	NewATSHandler(v1, deps.ScoringUC, deps.ReviewUC,
		middleware.RateLimitMiddleware(deps.RateLimitRedis, middleware.DefaultRateLimitConfig(deps.APIRateLimit), deps.Logger),
	)

	return r
}
