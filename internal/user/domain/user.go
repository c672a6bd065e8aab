package domain

import (
	"context"
	"time"
)

// Role ids seeded by the migrate tool
const (
	RoleAdmin   uint = 1
	RoleCashier uint = 2
)

// DefaultPassword is assigned when an admin creates a user without one
const DefaultPassword = "changeme"

// MinPasswordLength applies to password changes
const MinPasswordLength = 6

// User represents a staff account
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	FullName     *string   `json:"full_name"`
	RoleID       uint      `json:"role_id" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// Role is a named permission group
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
}

func (Role) TableName() string {
	return "roles"
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	EnsureRole(ctx context.Context, role Role) error
}
