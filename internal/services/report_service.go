package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/reporting"
)

// reportService loads report inputs concurrently and hands them to the
// reporting engine in one synchronous call.
type reportService struct {
	source  ReportSource
	timeout time.Duration
}

// NewReportService creates a new ReportServicer. A zero timeout leaves the
// fetch bounded only by the caller's context.
func NewReportService(source ReportSource, timeout time.Duration) ReportServicer {
	return &reportService{source: source, timeout: timeout}
}

// reportInputs is the joined result of one fetch.
type reportInputs struct {
	categories   []models.Category
	expense      reporting.CategorySet
	budgets      []models.Budget
	transactions []models.Transaction
	users        []models.User
	degraded     []string
}

// load fetches every input in parallel. Budgets and categories are optional:
// their failure is logged and recorded in degraded, as is a category list
// with no expense categories while budgets exist. Transactions and users are
// required.
func (s *reportService) load(ctx context.Context, userID *string, rng reporting.DateRange) (*reportInputs, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	in := &reportInputs{}
	var categoryErr, budgetErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		in.categories, categoryErr = s.source.ListCategories(gctx)
		return nil
	})
	g.Go(func() error {
		in.budgets, budgetErr = s.source.ListBudgets(gctx, userID)
		return nil
	})
	g.Go(func() error {
		txs, err := s.source.ListTransactions(gctx, userID, rng)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		in.transactions = txs
		return nil
	})
	g.Go(func() error {
		users, err := s.source.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		in.users = users
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if budgetErr != nil {
		logger.Get().Warnw("report budgets unavailable, continuing without them", "error", budgetErr)
		in.budgets = nil
		in.degraded = append(in.degraded, reporting.DegradedBudgets)
	}
	if categoryErr != nil {
		logger.Get().Warnw("report categories unavailable, budgets cannot be matched", "error", categoryErr)
		in.categories = nil
		in.degraded = append(in.degraded, reporting.DegradedCategories)
	}
	in.expense = reporting.ExpenseCategories(in.categories)
	if categoryErr == nil && in.expense.Len() == 0 && len(in.budgets) > 0 {
		logger.Get().Warnw("no expense categories to match budgets against", "budgets", len(in.budgets))
		in.degraded = append(in.degraded, reporting.DegradedCategories)
	}
	return in, nil
}

// UserReport returns one regular user's report. Users may only read their
// own; admins may read any regular user. An empty targetID means the actor.
func (s *reportService) UserReport(ctx context.Context, actorID string, actorRole models.Role, targetID string, rng reporting.DateRange) (*reporting.UserReport, error) {
	if !rng.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}
	if targetID == "" {
		targetID = actorID
	}
	if actorRole != models.RoleAdmin && targetID != actorID {
		return nil, apperrors.ErrForbidden
	}

	in, err := s.load(ctx, &targetID, rng)
	if err != nil {
		return nil, err
	}

	var target *models.User
	for i := range in.users {
		if in.users[i].ID == targetID {
			target = &in.users[i]
			break
		}
	}
	if target == nil {
		return nil, apperrors.ErrUserNotFound
	}
	if !target.IsRegular() {
		return nil, apperrors.ErrAdminNotReportable
	}

	report := reporting.ComputeUserReport(*target, in.budgets, in.transactions, in.expense, rng)
	report.Degraded = in.degraded
	return &report, nil
}

// UserSummaries returns one report per regular user. Admin only.
func (s *reportService) UserSummaries(ctx context.Context, actorRole models.Role, rng reporting.DateRange) ([]reporting.UserReport, error) {
	if actorRole != models.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if !rng.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}

	in, err := s.load(ctx, nil, rng)
	if err != nil {
		return nil, err
	}

	reports := reporting.ComputeUserSummaries(in.users, in.budgets, in.transactions, in.expense, rng)
	for i := range reports {
		reports[i].Degraded = in.degraded
	}
	return reports, nil
}

// FleetReport aggregates every regular user. Admin only.
func (s *reportService) FleetReport(ctx context.Context, actorRole models.Role, rng reporting.DateRange) (*reporting.FleetReport, error) {
	if actorRole != models.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if !rng.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}

	in, err := s.load(ctx, nil, rng)
	if err != nil {
		return nil, err
	}

	report := reporting.ComputeFleetReport(in.users, in.budgets, in.transactions, in.categories, rng)
	report.Degraded = in.degraded
	return &report, nil
}
