package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/reporting"
)

// ProfileUpdate holds the optional profile fields a user may change.
type ProfileUpdate struct {
	Name        *string
	Gender      *string
	DateOfBirth *time.Time
	AvatarURL   *string
	Phone       *string
	BudgetLimit *int64
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	UpdateProfile(userID string, update ProfileUpdate) (*models.User, error)
	ListUsers(page pagination.PageRequest, role *models.Role) (*pagination.PageResponse[models.User], error)
	UpdateRole(actorRole models.Role, userID string, role models.Role) (*models.User, error)
	DeactivateUser(actorRole models.Role, userID string) error
}

// CategoryServicer defines the contract for category-related business logic.
// Categories are global; only admins create or change them.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, description, icon, color string) (*models.Category, error)
	ListCategories(page pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID, name, description, icon, color string) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// BudgetFilter narrows a budget listing to a year and/or month.
type BudgetFilter struct {
	Year  *int
	Month *int
}

// CategoryProgress is one category's budget against spend for a month.
type CategoryProgress struct {
	CategoryID string          `json:"category_id"`
	Category   string          `json:"category"`
	BudgetID   string          `json:"budget_id,omitempty"`
	Budgeted   int64           `json:"budgeted"`
	Spent      int64           `json:"spent"`
	Remaining  int64           `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
}

// MonthProgress contains spending vs budget for one user and month.
type MonthProgress struct {
	Period     reporting.YearMonth `json:"period"`
	Budgeted   int64               `json:"budgeted"`
	Spent      int64               `json:"spent"`
	Remaining  int64               `json:"remaining"`
	Percentage decimal.Decimal     `json:"percentage"`
	Categories []CategoryProgress  `json:"categories"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	SetBudget(userID, categoryID string, amount int64, month, year int) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, amount int64) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetMonthProgress(userID string, year, month int) (*MonthProgress, error)
}

// TransactionInput carries the writable fields of a transaction.
type TransactionInput struct {
	Type                models.TransactionType
	Amount              int64
	CategoryID          *string
	Note                string
	Date                *time.Time
	IsRecurring         bool
	RecurringStartMonth *string
	RecurringEndMonth   *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	MinAmount  *int64
	MaxAmount  *int64
	Recurring  *bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// ThresholdEvaluator runs the monthly budget warning check for one user.
type ThresholdEvaluator interface {
	EvaluateBudgetThreshold(ctx context.Context, userID string, now time.Time) (*models.Notification, error)
}

// NotificationServicer defines the contract for notifications, including the
// budget warning check.
type NotificationServicer interface {
	ThresholdEvaluator
	EvaluateAll(ctx context.Context, now time.Time) (int, error)
	ListNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) (int64, error)
	DeleteNotification(userID, notificationID string) error
	ClearAll(userID string) (int64, error)
}

// FeedbackServicer defines the contract for user feedback.
type FeedbackServicer interface {
	SubmitFeedback(userID, subject, message string, rating int) (*models.Feedback, error)
	ListFeedback(page pagination.PageRequest, status *models.FeedbackStatus) (*pagination.PageResponse[models.Feedback], error)
	ResolveFeedback(feedbackID string) (*models.Feedback, error)
}

// ReportSource loads the collections the reports are computed from.
type ReportSource interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListBudgets(ctx context.Context, userID *string) ([]models.Budget, error)
	ListTransactions(ctx context.Context, userID *string, rng reporting.DateRange) ([]models.Transaction, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ReportServicer defines the contract for budget/spend reports. The caller's
// role is passed explicitly on every call.
type ReportServicer interface {
	UserReport(ctx context.Context, actorID string, actorRole models.Role, targetID string, rng reporting.DateRange) (*reporting.UserReport, error)
	UserSummaries(ctx context.Context, actorRole models.Role, rng reporting.DateRange) ([]reporting.UserReport, error)
	FleetReport(ctx context.Context, actorRole models.Role, rng reporting.DateRange) (*reporting.FleetReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
