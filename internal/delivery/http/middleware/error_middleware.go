package middleware

import (
	"errors"
	"net/http"

	"maplehr-backend/internal/delivery/http/response"
	"maplehr-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error handlers attached with c.Error.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		fields := []zap.Field{
			zap.String("request_id", response.RequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				log.Error("Request failed", append(fields, zap.String("kind", string(appErr.Kind)))...)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Message)
			return
		}

		// SECURITY: Never expose internal error details to clients.
		log.Error("Internal Server Error", fields...)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
