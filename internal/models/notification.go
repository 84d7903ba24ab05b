package models

// NotificationType classifies notifications.
type NotificationType string

const (
	NotificationTypeBudgetWarning NotificationType = "budget_warning"
	NotificationTypeGeneral       NotificationType = "general"
)

// Notification is a message addressed to one user. Budget warnings carry the
// calendar month they were raised for.
type Notification struct {
	Base
	UserID      string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string           `gorm:"not null" json:"title"`
	Message     string           `gorm:"not null" json:"message"`
	Type        NotificationType `gorm:"not null" json:"type"`
	PeriodYear  int              `json:"period_year,omitempty"`
	PeriodMonth int              `json:"period_month,omitempty"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`
}
