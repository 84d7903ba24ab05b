package models

import "time"

// Budget is a spending cap a user sets for one expense category in one
// calendar month. Storage may hold duplicates for the same
// (user, category, month, year); readers collapse them by recency.
type Budget struct {
	Base
	UserID       string  `gorm:"type:uuid;not null;index:idx_budgets_user_period" json:"user_id"`
	CategoryID   *string `gorm:"type:uuid" json:"category_id,omitempty"`
	CategoryName string  `gorm:"not null" json:"category_name"`
	Amount       int64   `gorm:"type:bigint;not null" json:"amount"`
	Month        int     `gorm:"not null;index:idx_budgets_user_period" json:"month"`
	Year         int     `gorm:"not null;index:idx_budgets_user_period" json:"year"`
}

// EffectiveAt is the recency used to pick between duplicate budgets:
// UpdatedAt, falling back to CreatedAt. A zero result means unknown.
func (b *Budget) EffectiveAt() time.Time {
	if !b.UpdatedAt.IsZero() {
		return b.UpdatedAt
	}
	return b.CreatedAt
}
