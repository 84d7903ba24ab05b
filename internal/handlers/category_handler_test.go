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

type mockCategoryService struct {
	createFn func(name string, categoryType models.CategoryType, description, icon, color string) (*models.Category, error)
	listFn   func(page pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[models.Category], error)
	getFn    func(categoryID string) (*models.Category, error)
	updateFn func(categoryID, name, description, icon, color string) (*models.Category, error)
	deleteFn func(categoryID string) error
}

func (m *mockCategoryService) CreateCategory(name string, categoryType models.CategoryType, description, icon, color string) (*models.Category, error) {
	if m.createFn != nil {
		return m.createFn(name, categoryType, description, icon, color)
	}
	return &models.Category{Base: models.Base{ID: testItemID}, Name: name, Type: categoryType}, nil
}

func (m *mockCategoryService) ListCategories(page pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[models.Category], error) {
	if m.listFn != nil {
		return m.listFn(page, categoryType)
	}
	resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCategoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	if m.getFn != nil {
		return m.getFn(categoryID)
	}
	return &models.Category{Base: models.Base{ID: categoryID}}, nil
}

func (m *mockCategoryService) UpdateCategory(categoryID, name, description, icon, color string) (*models.Category, error) {
	if m.updateFn != nil {
		return m.updateFn(categoryID, name, description, icon, color)
	}
	return &models.Category{Base: models.Base{ID: categoryID}, Name: name}, nil
}

func (m *mockCategoryService) DeleteCategory(categoryID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(categoryID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUser(testAdminID, models.RoleAdmin))
	auth.GET("/categories", handler.ListCategories)
	auth.GET("/categories/:id", handler.GetCategory)
	auth.POST("/admin/categories", handler.CreateCategory)
	auth.PUT("/admin/categories/:id", handler.UpdateCategory)
	auth.DELETE("/admin/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_Create(t *testing.T) {
	t.Run("returns 201 and audits", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, audit))

		rec := doRequest(r, "POST", "/admin/categories", `{"name":"Food","type":"expense","color":"#FF8800"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		category := parseJSON(t, rec)["category"].(map[string]interface{})
		if category["name"] != "Food" {
			t.Errorf("expected name Food, got %v", category["name"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_CATEGORY" {
			t.Errorf("expected CREATE_CATEGORY audit, got %v", audit.actions)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"type":"expense"}`},
		{"bad type", `{"name":"Food","type":"savings"}`},
		{"bad color", `{"name":"Food","type":"expense","color":"orange"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))
			rec := doRequest(r, "POST", "/admin/categories", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		svc := &mockCategoryService{
			createFn: func(string, models.CategoryType, string, string, string) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "POST", "/admin/categories", `{"name":"Food","type":"expense"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
	})
}

func TestCategoryHandler_List(t *testing.T) {
	t.Run("passes type filter", func(t *testing.T) {
		var got *models.CategoryType
		svc := &mockCategoryService{
			listFn: func(_ pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[models.Category], error) {
				got = categoryType
				resp := pagination.NewPageResponse([]models.Category{{Name: "Food"}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/categories?type=expense", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got == nil || *got != models.CategoryTypeExpense {
			t.Errorf("expected expense filter, got %v", got)
		}
		if parseJSON(t, rec)["total_items"] != float64(1) {
			t.Errorf("expected total_items 1")
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))
		rec := doRequest(r, "GET", "/categories?type=savings", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_ByID(t *testing.T) {
	t.Run("rejects invalid id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))
		rec := doRequest(r, "GET", "/categories/not-a-uuid", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockCategoryService{
			getFn: func(string) (*models.Category, error) { return nil, apperrors.ErrCategoryNotFound },
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "GET", "/categories/"+testItemID, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})

	t.Run("updates", func(t *testing.T) {
		var gotName string
		svc := &mockCategoryService{
			updateFn: func(id, name, _, _, _ string) (*models.Category, error) {
				gotName = name
				return &models.Category{Base: models.Base{ID: id}, Name: name}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(svc, audit))
		rec := doRequest(r, "PUT", "/admin/categories/"+testItemID, `{"name":"Groceries"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotName != "Groceries" {
			t.Errorf("expected Groceries, got %q", gotName)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "UPDATE_CATEGORY" {
			t.Errorf("expected UPDATE_CATEGORY audit, got %v", audit.actions)
		}
	})

	t.Run("deletes", func(t *testing.T) {
		var gotID string
		svc := &mockCategoryService{
			deleteFn: func(id string) error {
				gotID = id
				return nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "DELETE", "/admin/categories/"+testItemID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != testItemID {
			t.Errorf("expected %s, got %s", testItemID, gotID)
		}
	})
}
