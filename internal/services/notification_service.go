package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/events"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/reporting"
)

// notificationService handles notifications and the monthly budget warning.
type notificationService struct {
	db        *gorm.DB
	publisher events.Publisher
	limit     decimal.Decimal
}

// NewNotificationService creates a new NotificationServicer. limit is the
// share of the month's budget, in percent, at which a warning is raised.
func NewNotificationService(db *gorm.DB, publisher events.Publisher, limit decimal.Decimal) NotificationServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &notificationService{db: db, publisher: publisher, limit: limit}
}

// EvaluateBudgetThreshold raises a budget warning when the user's spend for
// the month containing now has reached the configured share of the month's
// budget. At most one unread warning exists per user and month; it returns
// nil when none was created.
//
// The month's budget is the sum of the user's effective category budgets,
// or the profile budget limit when the user has none for that month.
func (s *notificationService) EvaluateBudgetThreshold(ctx context.Context, userID string, now time.Time) (*models.Notification, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !user.IsRegular() || !user.IsActive {
		return nil, nil
	}

	period := reporting.YearMonthOf(now.UTC())
	pending, err := s.hasUnreadWarning(ctx, userID, period)
	if err != nil || pending {
		return nil, err
	}

	th, err := s.monthThreshold(ctx, &user, period)
	if err != nil {
		return nil, err
	}
	if !th.Reached {
		return nil, nil
	}

	n := &models.Notification{
		UserID:      userID,
		Title:       "Budget warning",
		Message:     fmt.Sprintf("You have used %s%% of your budget for %s.", th.UsedPercent.StringFixed(0), period),
		Type:        models.NotificationTypeBudgetWarning,
		PeriodYear:  period.Year,
		PeriodMonth: int(period.Month),
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		// Lost a race with a concurrent evaluation for the same month.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("budget warning raised",
		"user_id", userID,
		"period", period.String(),
		"spent", th.Spent,
		"budget", th.Budget,
		"used_percent", th.UsedPercent.String(),
	)

	if err := s.publisher.PublishNotification(ctx, n); err != nil {
		logger.Get().Warnw("failed to publish notification event", "error", err, "notification_id", n.ID)
	}
	return n, nil
}

func (s *notificationService) hasUnreadWarning(ctx context.Context, userID string, period reporting.YearMonth) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND period_year = ? AND period_month = ? AND is_read = ?",
			userID, models.NotificationTypeBudgetWarning, period.Year, int(period.Month), false).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// monthThreshold loads the user's month and runs it through the engine.
func (s *notificationService) monthThreshold(ctx context.Context, user *models.User, period reporting.YearMonth) (reporting.Threshold, error) {
	db := s.db.WithContext(ctx)

	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		return reporting.Threshold{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := db.Where("user_id = ? AND year = ? AND month = ?", user.ID, period.Year, int(period.Month)).
		Order("created_at ASC, id ASC").
		Find(&budgets).Error; err != nil {
		return reporting.Threshold{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := db.Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?",
		user.ID, models.TransactionTypeExpense, period.Start(), period.End()).
		Find(&transactions).Error; err != nil {
		return reporting.Threshold{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rng := reporting.DateRange{From: &period, To: &period}
	deduped := reporting.DedupeBudgets(budgets, reporting.ExpenseCategories(categories), reporting.BudgetScope{UserID: user.ID, Range: rng})

	var spent int64
	for _, m := range reporting.AggregateMonthly(deduped, transactions, rng) {
		spent += m.ExpenseTotal
	}

	budget := deduped.Total()
	if deduped.Len() == 0 {
		budget = user.BudgetLimit
	}
	return reporting.CheckThreshold(spent, budget, s.limit), nil
}

// EvaluateAll runs the budget warning check for every active regular user
// and returns how many warnings were raised. A failure for one user is
// logged and does not stop the run.
func (s *notificationService) EvaluateAll(ctx context.Context, now time.Time) (int, error) {
	var userIDs []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleUser, true).
		Order("id ASC").
		Pluck("id", &userIDs).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := 0
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		n, err := s.EvaluateBudgetThreshold(ctx, id, now)
		if err != nil {
			logger.Get().Errorw("budget threshold evaluation failed", "error", err, "user_id", id)
			continue
		}
		if n != nil {
			created++
		}
	}
	return created, nil
}

// ListNotifications returns the user's notifications, newest first.
func (s *notificationService) ListNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	base := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		base = base.Where("is_read = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("created_at DESC").Order("id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *notificationService) getNotification(userID, notificationID string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &n, nil
}

// MarkRead marks one notification as read.
func (s *notificationService) MarkRead(userID, notificationID string) error {
	n, err := s.getNotification(userID, notificationID)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	if err := s.db.Model(n).Update("is_read", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read.
func (s *notificationService) MarkAllRead(userID string) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteNotification removes one notification.
func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	n, err := s.getNotification(userID, notificationID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(n).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ClearAll removes every notification of the user.
func (s *notificationService) ClearAll(userID string) (int64, error) {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Notification{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}
