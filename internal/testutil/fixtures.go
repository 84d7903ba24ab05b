package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendwise/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateTestUser creates a regular user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, fmt.Sprintf("user%d@test.com", nextID()), models.RoleUser)
}

// CreateTestAdmin creates an admin user with a unique email.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, fmt.Sprintf("admin%d@test.com", nextID()), models.RoleAdmin)
}

// CreateTestUserWithEmail creates a regular user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, email, models.RoleUser)
}

// CreateTestUserWithRole creates a user with the given email and role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test User",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a global category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Test Category %d", nextID()), categoryType)
}

// CreateTestCategoryWithName creates a global category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: name,
		Type: categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBudget creates a budget of amount for category in the given month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, category *models.Category, amount int64, year, month int) *models.Budget {
	t.Helper()

	categoryID := category.ID
	budget := &models.Budget{
		UserID:       userID,
		CategoryID:   &categoryID,
		CategoryName: category.Name,
		Amount:       amount,
		Month:        month,
		Year:         year,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestTransaction creates a transaction of the given type and amount
// (in minor units) dated at date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, category *models.Category, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	date = date.UTC()
	tx := &models.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount,
		Date:   &date,
	}
	if category != nil {
		categoryID := category.ID
		tx.CategoryID = &categoryID
		tx.Category = category.Name
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestNotification creates an unread notification for the user.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:  userID,
		Title:   fmt.Sprintf("Notice %d", nextID()),
		Message: "Test notification",
		Type:    models.NotificationTypeGeneral,
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
