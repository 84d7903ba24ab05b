package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

type mockFeedbackService struct {
	submitFn  func(userID, subject, message string, rating int) (*models.Feedback, error)
	listFn    func(page pagination.PageRequest, status *models.FeedbackStatus) (*pagination.PageResponse[models.Feedback], error)
	resolveFn func(feedbackID string) (*models.Feedback, error)
}

func (m *mockFeedbackService) SubmitFeedback(userID, subject, message string, rating int) (*models.Feedback, error) {
	if m.submitFn != nil {
		return m.submitFn(userID, subject, message, rating)
	}
	return &models.Feedback{UserID: userID, Subject: subject, Message: message, Rating: rating, Status: models.FeedbackStatusOpen}, nil
}

func (m *mockFeedbackService) ListFeedback(page pagination.PageRequest, status *models.FeedbackStatus) (*pagination.PageResponse[models.Feedback], error) {
	if m.listFn != nil {
		return m.listFn(page, status)
	}
	resp := pagination.NewPageResponse([]models.Feedback{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockFeedbackService) ResolveFeedback(feedbackID string) (*models.Feedback, error) {
	if m.resolveFn != nil {
		return m.resolveFn(feedbackID)
	}
	return &models.Feedback{Base: models.Base{ID: feedbackID}, Status: models.FeedbackStatusResolved}, nil
}

var _ services.FeedbackServicer = (*mockFeedbackService)(nil)

func setupFeedbackRouter(handler *FeedbackHandler) *gin.Engine {
	r := gin.New()
	r.POST("/feedback", injectUserID(testUserID), handler.SubmitFeedback)
	admin := r.Group("/admin", injectUser(testAdminID, models.RoleAdmin))
	admin.GET("/feedback", handler.ListFeedback)
	admin.POST("/feedback/:id/resolve", handler.ResolveFeedback)
	return r
}

func TestFeedbackHandler_Submit(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		var gotRating int
		svc := &mockFeedbackService{
			submitFn: func(userID, subject, message string, rating int) (*models.Feedback, error) {
				gotRating = rating
				return &models.Feedback{UserID: userID, Subject: subject, Message: message, Rating: rating}, nil
			},
		}
		r := setupFeedbackRouter(NewFeedbackHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/feedback", `{"subject":"Charts","message":"Love the monthly view","rating":5}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotRating != 5 {
			t.Errorf("expected rating 5, got %d", gotRating)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing subject", `{"message":"hi"}`},
		{"missing message", `{"subject":"hi"}`},
		{"rating above five", `{"subject":"hi","message":"hi","rating":6}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupFeedbackRouter(NewFeedbackHandler(&mockFeedbackService{}, &mockAuditService{}))
			rec := doRequest(r, "POST", "/feedback", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestFeedbackHandler_Admin(t *testing.T) {
	t.Run("list passes status", func(t *testing.T) {
		var got *models.FeedbackStatus
		svc := &mockFeedbackService{
			listFn: func(_ pagination.PageRequest, status *models.FeedbackStatus) (*pagination.PageResponse[models.Feedback], error) {
				got = status
				resp := pagination.NewPageResponse([]models.Feedback{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupFeedbackRouter(NewFeedbackHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "GET", "/admin/feedback?status=open", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got == nil || *got != models.FeedbackStatusOpen {
			t.Errorf("expected open filter, got %v", got)
		}
	})

	t.Run("list rejects unknown status", func(t *testing.T) {
		r := setupFeedbackRouter(NewFeedbackHandler(&mockFeedbackService{}, &mockAuditService{}))
		rec := doRequest(r, "GET", "/admin/feedback?status=pending", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("resolve audits", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupFeedbackRouter(NewFeedbackHandler(&mockFeedbackService{}, audit))
		rec := doRequest(r, "POST", "/admin/feedback/"+testItemID+"/resolve", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		feedback := parseJSON(t, rec)["feedback"].(map[string]interface{})
		if feedback["status"] != "resolved" {
			t.Errorf("expected resolved, got %v", feedback["status"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "RESOLVE_FEEDBACK" {
			t.Errorf("expected RESOLVE_FEEDBACK audit, got %v", audit.actions)
		}
	})

	t.Run("resolve returns 404", func(t *testing.T) {
		svc := &mockFeedbackService{
			resolveFn: func(string) (*models.Feedback, error) { return nil, apperrors.ErrFeedbackNotFound },
		}
		r := setupFeedbackRouter(NewFeedbackHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "POST", "/admin/feedback/"+testItemID+"/resolve", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FEEDBACK_NOT_FOUND")
	})
}
