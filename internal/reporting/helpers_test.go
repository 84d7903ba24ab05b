package reporting

import (
	"time"

	"spendwise/internal/models"
)

func strPtr(s string) *string { return &s }

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func ym(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

func expenseCategory(id, name string) models.Category {
	return models.Category{Base: models.Base{ID: id}, Name: name, Type: models.CategoryTypeExpense}
}

func incomeCategory(id, name string) models.Category {
	return models.Category{Base: models.Base{ID: id}, Name: name, Type: models.CategoryTypeIncome}
}

func budget(userID, category string, amount int64, month, year int, updatedAt time.Time) models.Budget {
	return models.Budget{
		Base:         models.Base{UpdatedAt: updatedAt},
		UserID:       userID,
		CategoryName: category,
		Amount:       amount,
		Month:        month,
		Year:         year,
	}
}

func expense(userID, category string, amount int64, when *time.Time) models.Transaction {
	return models.Transaction{
		UserID:   userID,
		Category: category,
		Amount:   amount,
		Date:     when,
		Type:     models.TransactionTypeExpense,
	}
}

func regularUser(id, email string) models.User {
	return models.User{Base: models.Base{ID: id}, Email: email, Role: models.RoleUser}
}

func adminUser(id, email string) models.User {
	return models.User{Base: models.Base{ID: id}, Email: email, Role: models.RoleAdmin}
}

var (
	t1 = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)
	t3 = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
)
