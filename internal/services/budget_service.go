package services

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/reporting"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

func validateBudgetPeriod(month, year int) error {
	if month < 1 || month > 12 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be between 2000 and 2100")
	}
	return nil
}

// SetBudget creates or replaces the user's budget for an expense category in
// one month. An existing budget for the same month is updated in place.
func (s *budgetService) SetBudget(userID, categoryID string, amount int64, month, year int) (*models.Budget, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	if err := validateBudgetPeriod(month, year); err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Type != models.CategoryTypeExpense {
		return nil, apperrors.ErrNotExpenseCategory
	}

	var budget models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, category.ID, month, year).
			Order("updated_at DESC").
			First(&budget).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"amount":        amount,
				"category_name": category.Name,
			}
			if err := tx.Model(&budget).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			budget.Amount = amount
			budget.CategoryName = category.Name
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			categoryRef := category.ID
			budget = models.Budget{
				UserID:       userID,
				CategoryID:   &categoryRef,
				CategoryName: category.Name,
				Amount:       amount,
				Month:        month,
				Year:         year,
			}
			if err := tx.Create(&budget).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		default:
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	})
	if err != nil {
		return nil, err
	}

	return &budget, nil
}

// GetUserBudgets returns a paginated list of budgets for the user with optional filters.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if filter.Year != nil {
		base = base.Where("year = ?", *filter.Year)
	}
	if filter.Month != nil {
		base = base.Where("month = ?", *filter.Month)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("year DESC, month DESC, category_name ASC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget changes a budget's amount.
func (s *budgetService) UpdateBudget(userID, budgetID string, amount int64) (*models.Budget, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}

	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Update("amount", amount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.Amount = amount
	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetMonthProgress compares the user's effective budgets for one month with
// the month's spend, per category and in total.
func (s *budgetService) GetMonthProgress(userID string, year, month int) (*MonthProgress, error) {
	if err := validateBudgetPeriod(month, year); err != nil {
		return nil, err
	}
	period := reporting.YearMonth{Year: year, Month: time.Month(month)}

	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		Order("created_at ASC, id ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date BETWEEN ? AND ?", userID, period.Start(), period.End()).
		Order("date ASC, id ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	set := reporting.ExpenseCategories(categories)
	deduped := reporting.DedupeBudgets(budgets, set, reporting.BudgetScope{UserID: userID})

	rows := make(map[string]*CategoryProgress)
	for _, key := range deduped.Keys() {
		b, _ := deduped.Get(key)
		rows[key.Category] = &CategoryProgress{
			CategoryID: key.Category,
			Category:   set.DisplayName(key.Category),
			BudgetID:   b.ID,
			Budgeted:   b.Amount,
		}
	}

	progress := &MonthProgress{Period: period, Budgeted: deduped.Total()}
	for _, spend := range reporting.SpendByCategory(set, transactions) {
		row, ok := rows[spend.CategoryKey]
		if !ok {
			row = &CategoryProgress{CategoryID: spend.CategoryKey, Category: spend.Category}
			rows[spend.CategoryKey] = row
		}
		row.Spent = spend.Amount
		progress.Spent += spend.Amount
	}

	progress.Categories = make([]CategoryProgress, 0, len(rows))
	for _, row := range rows {
		row.Remaining = row.Budgeted - row.Spent
		row.Percentage = reporting.PercentOf(row.Spent, row.Budgeted)
		progress.Categories = append(progress.Categories, *row)
	}
	sort.Slice(progress.Categories, func(i, j int) bool {
		return progress.Categories[i].Category < progress.Categories[j].Category
	})

	progress.Remaining = progress.Budgeted - progress.Spent
	progress.Percentage = reporting.PercentOf(progress.Spent, progress.Budgeted)
	return progress, nil
}
