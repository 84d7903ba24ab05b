package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"spendwise/internal/models"
)

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(ContextUserID),
			"email":   c.GetString(ContextEmail),
		})
	})
	r.GET("/admin", AuthMiddleware(), AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func doAuthRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func testUser(role models.Role) *models.User {
	return &models.User{
		Base:  models.Base{ID: "0190a0b4-1111-7000-8000-000000000001"},
		Email: "user@example.com",
		Role:  role,
	}
}

func TestAuthMiddleware(t *testing.T) {
	user := testUser(models.RoleUser)
	access, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "valid_access_token", header: "Bearer " + access, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "wrong_scheme", header: "Token " + access, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "garbage_token", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized, wantCode: "INVALID_TOKEN"},
		{name: "refresh_token_rejected", header: "Bearer " + refresh, wantStatus: http.StatusUnauthorized, wantCode: "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthRequest(setupAuthRouter(), "/me", tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			body := parseBody(t, rec)
			if tt.wantCode != "" {
				errObj, ok := body["error"].(map[string]interface{})
				if !ok {
					t.Fatal("expected error object in response")
				}
				if code, _ := errObj["code"].(string); code != tt.wantCode {
					t.Errorf("error code = %q, want %q", code, tt.wantCode)
				}
				return
			}
			if body["user_id"] != user.ID || body["email"] != user.Email {
				t.Errorf("unexpected context values %v", body)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name       string
		role       models.Role
		wantStatus int
	}{
		{name: "admin_allowed", role: models.RoleAdmin, wantStatus: http.StatusOK},
		{name: "user_forbidden", role: models.RoleUser, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateAccessToken(testUser(tt.role))
			if err != nil {
				t.Fatalf("GenerateAccessToken: %v", err)
			}
			rec := doAuthRequest(setupAuthRouter(), "/admin", "Bearer "+token)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	user := testUser(models.RoleUser)
	refresh, _ := GenerateRefreshToken(user)
	access, _ := GenerateAccessToken(user)

	claims, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("expected refresh token to validate: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != models.RoleUser {
		t.Errorf("unexpected claims %+v", claims)
	}

	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("expected access token to be rejected as refresh token")
	}
	if _, err := ValidateRefreshToken("garbage"); err == nil {
		t.Error("expected garbage to be rejected")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a != HashToken("token-a") {
		t.Error("hash must be deterministic")
	}
	if a == HashToken("token-b") {
		t.Error("different tokens must hash differently")
	}
}
