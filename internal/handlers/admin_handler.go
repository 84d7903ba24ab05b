package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

// AdminHandler handles user administration.
type AdminHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService services.UserServicer, auditService services.AuditServicer) *AdminHandler {
	return &AdminHandler{userService: userService, auditService: auditService}
}

// UpdateRoleRequest carries the new role.
type UpdateRoleRequest struct {
	Role models.Role `json:"role" binding:"required,user_role"`
}

// ListUsers handles the admin user listing
// @Summary     List users
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       role      query string false "user or admin"
// @Param       sort      query string false "email, name or created_at"
// @Param       order     query string false "asc or desc"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.User] "Paginated users"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var role *models.Role
	if v := c.Query("role"); v != "" {
		r := models.Role(v)
		if r != models.RoleUser && r != models.RoleAdmin {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "role must be 'user' or 'admin'"))
			return
		}
		role = &r
	}

	result, err := h.userService.ListUsers(page, role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateRole handles promoting or demoting a user
// @Summary     Change user role
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "User ID"
// @Param       request body UpdateRoleRequest true "New role"
// @Success     200 {object} models.User "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Last admin"
// @Router      /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateRole(getUserRole(c), userID, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID, "UPDATE_ROLE", "user", userID, c.ClientIP(),
		map[string]interface{}{"role": req.Role})

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeactivateUser handles disabling a user account
// @Summary     Deactivate user
// @Description Disable the account and revoke its refresh token
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} MessageResponse "User deactivated"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Last admin"
// @Router      /admin/users/{id} [delete]
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeactivateUser(getUserRole(c), userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID, "DEACTIVATE_USER", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}
