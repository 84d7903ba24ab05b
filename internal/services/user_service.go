package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// Lockout policy for repeated failed logins.
const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

// userService handles user-related business logic.
type userService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db, now: time.Now}
}

// CreateUser registers a new regular user
func (s *userService) CreateUser(email, password, name string) (*models.User, error) {
	// Validate input
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	// Check if user with email exists
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     strings.TrimSpace(name),
		Role:     models.RoleUser,
		IsActive: true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin checks credentials and applies the lockout policy. Unknown
// emails and wrong passwords return the same error.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		attempts := user.FailedLoginAttempts + 1
		updates := map[string]interface{}{"failed_login_attempts": attempts}
		if attempts >= maxFailedLoginAttempts {
			lockedUntil := now.Add(lockoutDuration)
			updates["locked_until"] = &lockedUntil
			updates["failed_login_attempts"] = 0
		}
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	updates := map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	return user, nil
}

// StoreRefreshTokenHash saves the hash of the user's current refresh token.
// An empty hash revokes it.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token_hash", tokenHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}

// UpdateProfile applies the non-nil fields of update.
func (s *userService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Gender != nil {
		updates["gender"] = *update.Gender
	}
	if update.DateOfBirth != nil {
		if update.DateOfBirth.After(s.now()) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date of birth cannot be in the future")
		}
		updates["date_of_birth"] = *update.DateOfBirth
	}
	if update.AvatarURL != nil {
		updates["avatar_url"] = *update.AvatarURL
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.BudgetLimit != nil {
		if *update.BudgetLimit < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget limit cannot be negative")
		}
		updates["budget_limit"] = *update.BudgetLimit
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetUserByID(userID)
}

// ListUsers returns a page of users, optionally restricted to one role.
func (s *userService) ListUsers(page pagination.PageRequest, role *models.Role) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	base := s.db.Model(&models.User{})
	if role != nil {
		base = base.Where("role = ?", *role)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	order := page.OrderClause(map[string]string{
		"email":      "email",
		"name":       "name",
		"created_at": "created_at",
	}, "created_at DESC")

	var users []models.User
	if err := base.Order(order).Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateRole changes a user's role. Only admins may call it, and the last
// active admin cannot be demoted.
func (s *userService) UpdateRole(actorRole models.Role, userID string, role models.Role) (*models.User, error) {
	if actorRole != models.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown role")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if user.Role == models.RoleAdmin && user.IsActive {
			if err := ensureAnotherAdmin(tx, user.ID); err != nil {
				return err
			}
		}
		if err := tx.Model(user).Update("role", role).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// DeactivateUser disables a login and revokes its refresh token. Only admins
// may call it, and the last active admin cannot be deactivated.
func (s *userService) DeactivateUser(actorRole models.Role, userID string) error {
	if actorRole != models.RoleAdmin {
		return apperrors.ErrForbidden
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if user.Role == models.RoleAdmin {
			if err := ensureAnotherAdmin(tx, user.ID); err != nil {
				return err
			}
		}
		updates := map[string]interface{}{
			"is_active":          false,
			"refresh_token_hash": "",
		}
		if err := tx.Model(user).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func ensureAnotherAdmin(tx *gorm.DB, excludeID string) error {
	var others int64
	if err := tx.Model(&models.User{}).
		Where("role = ? AND is_active = ? AND id <> ?", models.RoleAdmin, true, excludeID).
		Count(&others).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if others == 0 {
		return apperrors.ErrLastAdmin
	}
	return nil
}
