package models

import "time"

// Role separates regular users from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents the user model in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Name                string     `json:"name"`
	Role                Role       `gorm:"not null;default:'user'" json:"role"`
	BudgetLimit         int64      `gorm:"type:bigint;not null;default:0" json:"budget_limit"`
	Gender              string     `json:"gender,omitempty"`
	DateOfBirth         *time.Time `json:"date_of_birth,omitempty"`
	AvatarURL           string     `json:"avatar_url,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}

// IsRegular reports whether the user takes part in reports and aggregates.
// Admin accounts never do.
func (u *User) IsRegular() bool {
	return u.Role == RoleUser
}
