package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/reporting"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db        *gorm.DB
	threshold ThresholdEvaluator
	now       func() time.Time
}

// NewTransactionService creates a new TransactionServicer. threshold may be
// nil, in which case no budget warnings are evaluated on write.
func NewTransactionService(db *gorm.DB, threshold ThresholdEvaluator) TransactionServicer {
	return &transactionService{
		db:        db,
		threshold: threshold,
		now:       time.Now,
	}
}

// CreateTransaction records a transaction for the user. Expenses trigger the
// budget warning check for the current month.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*models.Transaction, error) {
	transaction := &models.Transaction{UserID: userID}
	if err := s.apply(transaction, input); err != nil {
		return nil, err
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.afterWrite(ctx, transaction)
	return transaction, nil
}

// apply validates input and copies it onto t, resolving the category name
// snapshot from the referenced category.
func (s *transactionService) apply(t *models.Transaction, input TransactionInput) error {
	if input.Type != models.TransactionTypeIncome && input.Type != models.TransactionTypeExpense {
		return apperrors.ErrInvalidTransactionType
	}
	if input.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if err := validateRecurringMonths(input); err != nil {
		return err
	}

	t.CategoryID = nil
	t.Category = ""
	if input.CategoryID != nil && *input.CategoryID != "" {
		var category models.Category
		if err := s.db.Where("id = ?", *input.CategoryID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if string(category.Type) != string(input.Type) {
			return apperrors.ErrCategoryTypeMismatch
		}
		categoryID := category.ID
		t.CategoryID = &categoryID
		t.Category = category.Name
	}

	date := s.now()
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}
	date = date.UTC()

	t.Type = input.Type
	t.Amount = input.Amount
	t.Note = input.Note
	t.Date = &date
	t.IsRecurring = input.IsRecurring
	t.RecurringStartMonth = nil
	t.RecurringEndMonth = nil
	if input.IsRecurring {
		t.RecurringStartMonth = input.RecurringStartMonth
		t.RecurringEndMonth = input.RecurringEndMonth
	}
	return nil
}

func validateRecurringMonths(input TransactionInput) error {
	if !input.IsRecurring {
		return nil
	}
	var start, end *reporting.YearMonth
	if input.RecurringStartMonth != nil {
		ym, err := reporting.ParseYearMonth(*input.RecurringStartMonth)
		if err != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "recurring_start_month must be YYYY-MM")
		}
		start = &ym
	}
	if input.RecurringEndMonth != nil {
		ym, err := reporting.ParseYearMonth(*input.RecurringEndMonth)
		if err != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "recurring_end_month must be YYYY-MM")
		}
		end = &ym
	}
	if !(reporting.DateRange{From: start, To: end}).Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "recurring_end_month is before recurring_start_month")
	}
	return nil
}

// afterWrite runs the budget warning check for expenses. Failures are logged
// and never fail the write.
func (s *transactionService) afterWrite(ctx context.Context, t *models.Transaction) {
	if s.threshold == nil || !t.CountsAsSpend() {
		return
	}
	if _, err := s.threshold.EvaluateBudgetThreshold(ctx, t.UserID, s.now()); err != nil {
		logger.Get().Warnw("budget threshold evaluation failed",
			"error", err,
			"user_id", t.UserID,
			"transaction_id", t.ID,
		)
	}
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	order := page.OrderClause(map[string]string{
		"date":   "date",
		"amount": "amount",
	}, "date DESC")

	var transactions []models.Transaction
	if err := base.Order(order).Order("id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.Recurring != nil {
		q = q.Where("is_recurring = ?", *f.Recurring)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces the writable fields of a transaction.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, input TransactionInput) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(transaction, input); err != nil {
		return nil, err
	}

	if err := s.db.Save(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.afterWrite(ctx, transaction)
	return transaction, nil
}

// DeleteTransaction soft-deletes a transaction
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
