package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

func setupAdminRouter(handler *AdminHandler) *gin.Engine {
	r := gin.New()
	admin := r.Group("/admin", injectUser(testAdminID, models.RoleAdmin))
	admin.GET("/users", handler.ListUsers)
	admin.PUT("/users/:id/role", handler.UpdateRole)
	admin.DELETE("/users/:id", handler.DeactivateUser)
	return r
}

func TestAdminHandler_ListUsers(t *testing.T) {
	t.Run("passes role filter", func(t *testing.T) {
		var got *models.Role
		svc := &mockUserService{
			listUsersFn: func(_ pagination.PageRequest, role *models.Role) (*pagination.PageResponse[models.User], error) {
				got = role
				resp := pagination.NewPageResponse([]models.User{{Email: "a@example.com"}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupAdminRouter(NewAdminHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/admin/users?role=admin", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got == nil || *got != models.RoleAdmin {
			t.Errorf("expected admin filter, got %v", got)
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		r := setupAdminRouter(NewAdminHandler(&mockUserService{}, &mockAuditService{}))
		rec := doRequest(r, "GET", "/admin/users?role=owner", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAdminHandler_UpdateRole(t *testing.T) {
	t.Run("passes actor role and audits", func(t *testing.T) {
		var gotActor, gotRole models.Role
		var gotID string
		svc := &mockUserService{
			updateRoleFn: func(actorRole models.Role, userID string, role models.Role) (*models.User, error) {
				gotActor, gotID, gotRole = actorRole, userID, role
				return &models.User{Base: models.Base{ID: userID}, Role: role}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupAdminRouter(NewAdminHandler(svc, audit))

		rec := doRequest(r, "PUT", "/admin/users/"+testUserID+"/role", `{"role":"admin"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotActor != models.RoleAdmin || gotID != testUserID || gotRole != models.RoleAdmin {
			t.Errorf("got actor %s id %s role %s", gotActor, gotID, gotRole)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "UPDATE_ROLE" {
			t.Errorf("expected UPDATE_ROLE audit, got %v", audit.actions)
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		r := setupAdminRouter(NewAdminHandler(&mockUserService{}, &mockAuditService{}))
		rec := doRequest(r, "PUT", "/admin/users/"+testUserID+"/role", `{"role":"owner"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 for last admin", func(t *testing.T) {
		svc := &mockUserService{
			updateRoleFn: func(models.Role, string, models.Role) (*models.User, error) {
				return nil, apperrors.ErrLastAdmin
			},
		}
		r := setupAdminRouter(NewAdminHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "PUT", "/admin/users/"+testAdminID+"/role", `{"role":"user"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "LAST_ADMIN")
	})
}

func TestAdminHandler_DeactivateUser(t *testing.T) {
	t.Run("deactivates and audits", func(t *testing.T) {
		var gotID string
		svc := &mockUserService{
			deactivateUserFn: func(_ models.Role, userID string) error {
				gotID = userID
				return nil
			},
		}
		audit := &mockAuditService{}
		r := setupAdminRouter(NewAdminHandler(svc, audit))

		rec := doRequest(r, "DELETE", "/admin/users/"+testUserID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != testUserID {
			t.Errorf("expected %s, got %s", testUserID, gotID)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DEACTIVATE_USER" {
			t.Errorf("expected DEACTIVATE_USER audit, got %v", audit.actions)
		}
	})

	t.Run("returns 404 for unknown user", func(t *testing.T) {
		svc := &mockUserService{
			deactivateUserFn: func(models.Role, string) error { return apperrors.ErrUserNotFound },
		}
		audit := &mockAuditService{}
		r := setupAdminRouter(NewAdminHandler(svc, audit))
		rec := doRequest(r, "DELETE", "/admin/users/"+testOtherID, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(audit.actions) != 0 {
			t.Errorf("expected no audit on failure, got %v", audit.actions)
		}
	})
}
