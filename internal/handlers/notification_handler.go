package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

// NotificationHandler serves the notification inbox and the scheduled
// budget warning evaluation.
type NotificationHandler struct {
	notificationService services.NotificationServicer
	now                 func() time.Time
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, now: time.Now}
}

// ListNotifications handles listing the caller's notifications
// @Summary     List notifications
// @Description Newest first; unread=true limits to unread notifications
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       unread    query bool false "Only unread"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Notification] "Paginated notifications"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	unread, err := parseBoolQuery(c, "unread")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.notificationService.ListNotifications(userID, page, unread != nil && *unread)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkRead handles marking one notification as read
// @Summary     Mark notification read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} MessageResponse "Marked as read"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Router      /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notificationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.MarkRead(userID, notificationID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead handles marking every notification as read
// @Summary     Mark all notifications read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int64 "Number updated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteNotification handles deleting one notification
// @Summary     Delete notification
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} MessageResponse "Notification deleted"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Router      /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notificationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.DeleteNotification(userID, notificationID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

// ClearAll handles deleting every notification of the caller
// @Summary     Clear notifications
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int64 "Number removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications [delete]
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	removed, err := h.notificationService.ClearAll(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// EvaluateThresholds runs the budget warning check for every regular user.
// @Summary     Evaluate budget warnings
// @Description Machine endpoint for a scheduler; raises at most one warning per user and month
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key header string true "Pipeline API key"
// @Success     200 {object} map[string]int "Warnings created"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/notifications/evaluate [post]
func (h *NotificationHandler) EvaluateThresholds(c *gin.Context) {
	created, err := h.notificationService.EvaluateAll(c.Request.Context(), h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("budget thresholds evaluated", "created", created)
	c.JSON(http.StatusOK, gin.H{"created": created})
}
