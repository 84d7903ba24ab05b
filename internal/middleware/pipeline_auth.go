package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
)

var (
	errPipelineNotConfigured = &apperrors.AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
	errInvalidAPIKey         = &apperrors.AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
)

// PipelineAuthMiddleware guards machine-to-machine endpoints, such as the
// scheduled threshold evaluation, with a shared X-API-Key. An empty
// configured key disables them.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, errPipelineNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, errInvalidAPIKey)
			return
		}
		c.Next()
	}
}
