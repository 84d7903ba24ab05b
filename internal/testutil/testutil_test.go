package testutil_test

import (
	"testing"
	"time"

	"spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "categories", "budgets", "transactions", "notifications", "feedback", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	testutil.CreateTestUser(t, first)

	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected an empty second database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}
	if user.Role != models.RoleUser {
		t.Errorf("expected role user, got %s", user.Role)
	}

	admin := testutil.CreateTestAdmin(t, db)
	if admin.Role != models.RoleAdmin {
		t.Errorf("expected role admin, got %s", admin.Role)
	}

	category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}

	budget := testutil.CreateTestBudget(t, db, user.ID, category, 10000, 2024, 6)
	if budget.CategoryID == nil || *budget.CategoryID != category.ID {
		t.Errorf("budget should reference category %s", category.ID)
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, category, models.TransactionTypeExpense, 1000, time.Now())
	if tx.Category != category.Name {
		t.Errorf("expected category name snapshot %q, got %q", category.Name, tx.Category)
	}

	n := testutil.CreateTestNotification(t, db, user.ID)
	if n.IsRead {
		t.Error("new notification should be unread")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBudgetNotFound, "custom message")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
