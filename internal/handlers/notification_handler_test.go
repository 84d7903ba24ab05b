package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

type mockNotificationService struct {
	evaluateFn    func(ctx context.Context, userID string, now time.Time) (*models.Notification, error)
	evaluateAllFn func(ctx context.Context, now time.Time) (int, error)
	listFn        func(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	markReadFn    func(userID, notificationID string) error
	markAllFn     func(userID string) (int64, error)
	deleteFn      func(userID, notificationID string) error
	clearFn       func(userID string) (int64, error)
}

func (m *mockNotificationService) EvaluateBudgetThreshold(ctx context.Context, userID string, now time.Time) (*models.Notification, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, userID, now)
	}
	return nil, nil
}

func (m *mockNotificationService) EvaluateAll(ctx context.Context, now time.Time) (int, error) {
	if m.evaluateAllFn != nil {
		return m.evaluateAllFn(ctx, now)
	}
	return 0, nil
}

func (m *mockNotificationService) ListNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	if m.listFn != nil {
		return m.listFn(userID, page, unreadOnly)
	}
	resp := pagination.NewPageResponse([]models.Notification{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockNotificationService) MarkRead(userID, notificationID string) error {
	if m.markReadFn != nil {
		return m.markReadFn(userID, notificationID)
	}
	return nil
}

func (m *mockNotificationService) MarkAllRead(userID string) (int64, error) {
	if m.markAllFn != nil {
		return m.markAllFn(userID)
	}
	return 0, nil
}

func (m *mockNotificationService) DeleteNotification(userID, notificationID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, notificationID)
	}
	return nil
}

func (m *mockNotificationService) ClearAll(userID string) (int64, error) {
	if m.clearFn != nil {
		return m.clearFn(userID)
	}
	return 0, nil
}

var _ services.NotificationServicer = (*mockNotificationService)(nil)

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	r := gin.New()
	r.POST("/pipeline/notifications/evaluate", handler.EvaluateThresholds)
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/notifications", handler.ListNotifications)
	auth.POST("/notifications/read-all", handler.MarkAllRead)
	auth.POST("/notifications/:id/read", handler.MarkRead)
	auth.DELETE("/notifications/:id", handler.DeleteNotification)
	auth.DELETE("/notifications", handler.ClearAll)
	return r
}

func TestNotificationHandler_List(t *testing.T) {
	tests := []struct {
		path       string
		wantUnread bool
	}{
		{"/notifications", false},
		{"/notifications?unread=true", true},
		{"/notifications?unread=false", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var gotUser string
			gotUnread := !tt.wantUnread
			svc := &mockNotificationService{
				listFn: func(userID string, _ pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
					gotUser, gotUnread = userID, unreadOnly
					resp := pagination.NewPageResponse([]models.Notification{}, 1, 20, 0)
					return &resp, nil
				},
			}
			r := setupNotificationRouter(NewNotificationHandler(svc))

			rec := doRequest(r, "GET", tt.path, "")

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if gotUser != testUserID || gotUnread != tt.wantUnread {
				t.Errorf("got user %s unread %v", gotUser, gotUnread)
			}
		})
	}

	t.Run("rejects bad unread flag", func(t *testing.T) {
		r := setupNotificationRouter(NewNotificationHandler(&mockNotificationService{}))
		rec := doRequest(r, "GET", "/notifications?unread=yes", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestNotificationHandler_Inbox(t *testing.T) {
	t.Run("mark read returns 404 for foreign notification", func(t *testing.T) {
		svc := &mockNotificationService{
			markReadFn: func(string, string) error { return apperrors.ErrNotificationNotFound },
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))
		rec := doRequest(r, "POST", "/notifications/"+testItemID+"/read", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOTIFICATION_NOT_FOUND")
	})

	t.Run("mark all read reports count", func(t *testing.T) {
		svc := &mockNotificationService{
			markAllFn: func(string) (int64, error) { return 3, nil },
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))
		rec := doRequest(r, "POST", "/notifications/read-all", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["updated"] != float64(3) {
			t.Errorf("expected updated 3, got %s", rec.Body.String())
		}
	})

	t.Run("delete passes id", func(t *testing.T) {
		var gotID string
		svc := &mockNotificationService{
			deleteFn: func(_, id string) error {
				gotID = id
				return nil
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))
		rec := doRequest(r, "DELETE", "/notifications/"+testItemID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != testItemID {
			t.Errorf("expected %s, got %s", testItemID, gotID)
		}
	})

	t.Run("clear all reports count", func(t *testing.T) {
		svc := &mockNotificationService{
			clearFn: func(string) (int64, error) { return 2, nil },
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))
		rec := doRequest(r, "DELETE", "/notifications", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["removed"] != float64(2) {
			t.Errorf("expected removed 2, got %s", rec.Body.String())
		}
	})
}

func TestNotificationHandler_EvaluateThresholds(t *testing.T) {
	fixed := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("reports created warnings", func(t *testing.T) {
		var gotNow time.Time
		svc := &mockNotificationService{
			evaluateAllFn: func(_ context.Context, now time.Time) (int, error) {
				gotNow = now
				return 4, nil
			},
		}
		handler := NewNotificationHandler(svc)
		handler.now = func() time.Time { return fixed }
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/pipeline/notifications/evaluate", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !gotNow.Equal(fixed) {
			t.Errorf("expected %v, got %v", fixed, gotNow)
		}
		if parseJSON(t, rec)["created"] != float64(4) {
			t.Errorf("expected created 4, got %s", rec.Body.String())
		}
	})

	t.Run("returns 500 on failure", func(t *testing.T) {
		svc := &mockNotificationService{
			evaluateAllFn: func(context.Context, time.Time) (int, error) {
				return 0, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down"))
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))
		rec := doRequest(r, "POST", "/pipeline/notifications/evaluate", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}
