package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/middleware"
	"spendwise/internal/models"
	"spendwise/internal/reporting"
	"spendwise/internal/uuid"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// getUserRole returns the caller's role; callers without one are treated as
// regular users.
func getUserRole(c *gin.Context) models.Role {
	if role, ok := c.Get(middleware.ContextRole); ok {
		if r, ok := role.(models.Role); ok {
			return r
		}
	}
	return models.RoleUser
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseFlexibleTime accepts RFC3339 timestamps or plain YYYY-MM-DD dates,
// the latter read as midnight UTC.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, use RFC3339 or YYYY-MM-DD")
	}
	return t, nil
}

// parseMonthRange reads the optional from/to (YYYY-MM) report bounds.
func parseMonthRange(c *gin.Context) (reporting.DateRange, error) {
	var rng reporting.DateRange
	for _, bound := range []struct {
		param string
		dst   **reporting.YearMonth
	}{
		{"from", &rng.From},
		{"to", &rng.To},
	} {
		v := c.Query(bound.param)
		if v == "" {
			continue
		}
		ym, err := reporting.ParseYearMonth(v)
		if err != nil {
			return rng, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "invalid "+bound.param+", use YYYY-MM")
		}
		*bound.dst = &ym
	}
	if !rng.Valid() {
		return rng, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "from must not be after to")
	}
	return rng, nil
}

// parseBoolQuery reads an optional "true"/"false" query parameter.
func parseBoolQuery(c *gin.Context, param string) (*bool, error) {
	switch c.Query(param) {
	case "":
		return nil, nil
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, param+" must be 'true' or 'false'")
	}
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse is returned by endpoints with nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}
