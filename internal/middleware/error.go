package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
)

// ErrorHandler converts the last error attached with c.Error into the JSON
// error envelope. Internal details are logged with the request ID and never
// returned to the client. Responses a handler already wrote are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.Get().With(
			"request_id", c.GetString(requestIDKey),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			log.Errorw("unexpected error", "error", err.Error())
			appErr = apperrors.ErrInternalServer
		} else if appErr.Internal != nil {
			log.Errorw("app error", "code", appErr.Code, "internal", appErr.Internal.Error())
		}

		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}
