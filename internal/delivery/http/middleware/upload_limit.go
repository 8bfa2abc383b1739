package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"maplehr-backend/internal/delivery/http/response"
	"maplehr-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadLimiter decides whether a client may upload another resume.
type UploadLimiter interface {
	AllowUpload(ctx context.Context, ip, applicantID string) (allowed bool, retryAfter int, err error)
}

// BodyLimit caps the request body. Oversized multipart reads fail with *http.MaxBytesError.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// UploadRateLimit limits uploads per client IP and per applicant.
// Limiter failures let the request through.
func UploadRateLimit(limiter UploadLimiter, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		applicantID := c.PostForm("applicantId")
		allowed, retryAfter, err := limiter.AllowUpload(c.Request.Context(), c.ClientIP(), applicantID)
		if err != nil && !errors.Is(err, security.ErrLimiterUnavailable) {
			log.Warn("Upload limiter unavailable; allowing request",
				zap.String("request_id", response.RequestID(c)),
				zap.Error(err),
			)
		}

		if !allowed {
			log.Warn("Upload rate limit exceeded",
				zap.String("request_id", response.RequestID(c)),
				zap.String("client_ip", c.ClientIP()),
				zap.String("applicant_id", applicantID),
			)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Error(c, http.StatusTooManyRequests, "Too many uploads. Please try again later.", "upload rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
