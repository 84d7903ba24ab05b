package models

// FeedbackStatus tracks admin handling of a feedback entry.
type FeedbackStatus string

const (
	FeedbackStatusOpen     FeedbackStatus = "open"
	FeedbackStatusResolved FeedbackStatus = "resolved"
)

// Feedback is a message a user sends to the administrators.
type Feedback struct {
	Base
	UserID  string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Subject string         `gorm:"not null" json:"subject"`
	Message string         `gorm:"not null" json:"message"`
	Rating  int            `json:"rating,omitempty"`
	Status  FeedbackStatus `gorm:"not null;default:'open'" json:"status"`
}

// TableName overrides the GORM default of "feedbacks".
func (Feedback) TableName() string {
	return "feedback"
}
