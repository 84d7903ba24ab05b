package services

import (
	"context"

	"gorm.io/gorm"

	"spendwise/internal/models"
	"spendwise/internal/reporting"
)

// gormReportSource reads report inputs straight from the database.
type gormReportSource struct {
	db *gorm.DB
}

// NewGormReportSource creates a ReportSource backed by GORM.
func NewGormReportSource(db *gorm.DB) ReportSource {
	return &gormReportSource{db: db}
}

func (s *gormReportSource) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("created_at, id").Find(&categories).Error
	return categories, err
}

// ListBudgets orders by creation so budget dedupe sees a stable first-seen
// order.
func (s *gormReportSource) ListBudgets(ctx context.Context, userID *string) ([]models.Budget, error) {
	q := s.db.WithContext(ctx).Order("created_at, id")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var budgets []models.Budget
	err := q.Find(&budgets).Error
	return budgets, err
}

// ListTransactions narrows by date in the query; undated rows are only
// returned for an open range.
func (s *gormReportSource) ListTransactions(ctx context.Context, userID *string, rng reporting.DateRange) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Order("date, created_at, id")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if rng.From != nil {
		q = q.Where("date >= ?", rng.From.Start())
	}
	if rng.To != nil {
		q = q.Where("date <= ?", rng.To.End())
	}
	var transactions []models.Transaction
	err := q.Find(&transactions).Error
	return transactions, err
}

func (s *gormReportSource) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("email").Find(&users).Error
	return users, err
}
