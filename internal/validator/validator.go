// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"spendwise/internal/models"
)

var (
	hexColorRegex  = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	yearMonthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("category_type", validateCategoryType)
	_ = v.RegisterValidation("user_role", validateUserRole)
	_ = v.RegisterValidation("notification_type", validateNotificationType)
	_ = v.RegisterValidation("feedback_status", validateFeedbackStatus)
	_ = v.RegisterValidation("year_month", validateYearMonth)
	_ = v.RegisterValidation("budget_year", validateBudgetYear)
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch models.CategoryType(fl.Field().String()) {
	case models.CategoryTypeIncome, models.CategoryTypeExpense:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.Role(fl.Field().String()) {
	case models.RoleUser, models.RoleAdmin:
		return true
	}
	return false
}

func validateNotificationType(fl validator.FieldLevel) bool {
	switch models.NotificationType(fl.Field().String()) {
	case models.NotificationTypeBudgetWarning, models.NotificationTypeGeneral:
		return true
	}
	return false
}

func validateFeedbackStatus(fl validator.FieldLevel) bool {
	switch models.FeedbackStatus(fl.Field().String()) {
	case models.FeedbackStatusOpen, models.FeedbackStatusResolved:
		return true
	}
	return false
}

// validateYearMonth accepts "YYYY-MM".
func validateYearMonth(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !yearMonthRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// validateBudgetYear keeps budget years inside the window the reports accept.
func validateBudgetYear(fl validator.FieldLevel) bool {
	y := fl.Field().Int()
	return y >= 2000 && y <= 2100
}
