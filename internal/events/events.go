// Package events publishes notification events to a message broker so that
// delivery (push, e-mail) can happen outside the API process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spendwise/internal/models"
)

// Event types.
const (
	TypeNotificationCreated = "notification.created"
)

// NotificationEvent is the message body published for a new notification.
type NotificationEvent struct {
	Type           string    `json:"type"`
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Kind           string    `json:"kind"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	PeriodYear     int       `json:"period_year,omitempty"`
	PeriodMonth    int       `json:"period_month,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewNotificationEvent builds the event for n.
func NewNotificationEvent(n *models.Notification) NotificationEvent {
	occurred := n.CreatedAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return NotificationEvent{
		Type:           TypeNotificationCreated,
		NotificationID: n.ID,
		UserID:         n.UserID,
		Kind:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		PeriodYear:     n.PeriodYear,
		PeriodMonth:    n.PeriodMonth,
		OccurredAt:     occurred,
	}
}

// ToJSON encodes the event.
func (e NotificationEvent) ToJSON() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal notification event: %w", err)
	}
	return b, nil
}

// Publisher delivers notification events.
type Publisher interface {
	PublishNotification(ctx context.Context, n *models.Notification) error
	Close() error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

// PublishNotification implements Publisher.
func (NopPublisher) PublishNotification(context.Context, *models.Notification) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
