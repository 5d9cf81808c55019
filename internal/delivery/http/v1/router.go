package v1

import (
	"net/http"
	"time"

	"go-advisory-contact/config"
	"go-advisory-contact/internal/delivery/http/middleware"
	"go-advisory-contact/internal/delivery/http/response"
	"go-advisory-contact/internal/domain"
	"go-advisory-contact/internal/usecase"
	"go-advisory-contact/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	DraftUC   domain.DraftUsecase
	HealthUC  usecase.HealthUsecase
	Config    *config.Config
	Logger    *zap.Logger
	// Redis backs the rate limiters; nil falls back to in-memory windows
	Redis func() *goredis.Client
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	log := logger.OrNop(deps.Logger)
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.ReleaseMode)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(requestLogger(log))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(log))

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.AppPrefix, cfg.RateLimitGlobalLimit, window, deps.Redis, log)))

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	contactLimiter := middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(cfg.AppPrefix, cfg.RateLimitContactLimit, window, deps.Redis, log))
	NewContactHandler(v1, deps.ContactUC, contactLimiter)

	if deps.DraftUC != nil {
		drafts := v1.Group("")
		drafts.Use(middleware.CSRFMiddleware(cfg.ReleaseMode))
		NewDraftHandler(drafts, deps.DraftUC)
	}

	return r
}

// requestLogger replaces gin.Logger with structured access logs
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestID, _ := c.Get("RequestID")
		log.Info("request",
			zap.Any("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
