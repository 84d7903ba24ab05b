package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

// FeedbackHandler handles feedback submission and its admin triage.
type FeedbackHandler struct {
	feedbackService services.FeedbackServicer
	auditService    services.AuditServicer
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService services.FeedbackServicer, auditService services.AuditServicer) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, auditService: auditService}
}

// SubmitFeedbackRequest represents a feedback message.
type SubmitFeedbackRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
	Rating  int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

// SubmitFeedback handles a user sending feedback
// @Summary     Submit feedback
// @Tags        feedback
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SubmitFeedbackRequest true "Feedback"
// @Success     201 {object} models.Feedback "Feedback stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	feedback, err := h.feedbackService.SubmitFeedback(userID, req.Subject, req.Message, req.Rating)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}

// ListFeedback handles the admin feedback listing
// @Summary     List feedback
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "open or resolved"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Feedback] "Paginated feedback"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Router      /admin/feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.FeedbackStatus
	if v := c.Query("status"); v != "" {
		s := models.FeedbackStatus(v)
		if s != models.FeedbackStatusOpen && s != models.FeedbackStatusResolved {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'open' or 'resolved'"))
			return
		}
		status = &s
	}

	result, err := h.feedbackService.ListFeedback(page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ResolveFeedback handles an admin resolving a feedback entry
// @Summary     Resolve feedback
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Feedback ID"
// @Success     200 {object} models.Feedback "Resolved feedback"
// @Failure     404 {object} ErrorResponse "Feedback not found"
// @Router      /admin/feedback/{id}/resolve [post]
func (h *FeedbackHandler) ResolveFeedback(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	feedbackID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	feedback, err := h.feedbackService.ResolveFeedback(feedbackID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RESOLVE_FEEDBACK", "feedback", feedbackID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}
