package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction in the system.
//
// Recurring templates (IsRecurring) describe a periodic expense; only the
// instances generated from them (RecurringTransactionID set) count as spend.
type Transaction struct {
	Base
	UserID                 string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount                 int64           `gorm:"type:bigint;not null" json:"amount"`
	CategoryID             *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Category               string          `json:"category"`
	Note                   string          `json:"note,omitempty"`
	Date                   *time.Time      `gorm:"index" json:"date"`
	Type                   TransactionType `gorm:"not null" json:"type"`
	IsRecurring            bool            `gorm:"not null;default:false" json:"is_recurring"`
	RecurringStartMonth    *string         `gorm:"size:7" json:"recurring_start_month,omitempty"`
	RecurringEndMonth      *string         `gorm:"size:7" json:"recurring_end_month,omitempty"`
	RecurringTransactionID *string         `gorm:"type:uuid" json:"recurring_transaction_id,omitempty"`
}

// CountsAsSpend reports whether the transaction contributes to expense totals.
func (t *Transaction) CountsAsSpend() bool {
	return t.Type == TransactionTypeExpense && !t.IsRecurring
}
