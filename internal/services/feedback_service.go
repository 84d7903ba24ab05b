package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

const (
	maxFeedbackSubject = 200
	maxFeedbackMessage = 5000
)

// feedbackService handles user feedback and its admin triage.
type feedbackService struct {
	db *gorm.DB
}

// NewFeedbackService creates a new FeedbackServicer.
func NewFeedbackService(db *gorm.DB) FeedbackServicer {
	return &feedbackService{db: db}
}

// SubmitFeedback stores a new open feedback entry. A rating of 0 means the
// user did not rate; otherwise it must be between 1 and 5.
func (s *feedbackService) SubmitFeedback(userID, subject, message string, rating int) (*models.Feedback, error) {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "subject and message are required")
	}
	if len(subject) > maxFeedbackSubject || len(message) > maxFeedbackMessage {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "feedback is too long")
	}
	if rating < 0 || rating > 5 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "rating must be between 1 and 5")
	}

	feedback := &models.Feedback{
		UserID:  userID,
		Subject: subject,
		Message: message,
		Rating:  rating,
		Status:  models.FeedbackStatusOpen,
	}
	if err := s.db.Create(feedback).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return feedback, nil
}

// ListFeedback returns a page of feedback, newest first, optionally filtered
// by status.
func (s *feedbackService) ListFeedback(page pagination.PageRequest, status *models.FeedbackStatus) (*pagination.PageResponse[models.Feedback], error) {
	page.Defaults()

	base := s.db.Model(&models.Feedback{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.Feedback
	if err := base.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ResolveFeedback marks a feedback entry as resolved. Resolving twice is
// harmless.
func (s *feedbackService) ResolveFeedback(feedbackID string) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := s.db.Where("id = ?", feedbackID).First(&feedback).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFeedbackNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if feedback.Status == models.FeedbackStatusResolved {
		return &feedback, nil
	}
	if err := s.db.Model(&feedback).Update("status", models.FeedbackStatusResolved).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	feedback.Status = models.FeedbackStatusResolved
	return &feedback, nil
}
