package command

import (
	"context"
	"strings"
	"time"

	"github.com/tair/pharmacy-backend/internal/user/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/auth"
)

// CreateUserCommand represents the command to create a user
type CreateUserCommand struct {
	Username string
	Password *string
	RoleID   *uint
	FullName *string
}

// CreateUserHandler handles user creation command
type CreateUserHandler struct {
	repo domain.UserRepository
}

// NewCreateUserHandler creates a new create user handler
func NewCreateUserHandler(repo domain.UserRepository) *CreateUserHandler {
	return &CreateUserHandler{repo: repo}
}

// Handle executes the create user command. Password defaults to
// DefaultPassword and role to RoleAdmin.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*domain.User, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return nil, apperror.Validation("username is required")
	}

	password := domain.DefaultPassword
	if cmd.Password != nil && *cmd.Password != "" {
		password = *cmd.Password
	}
	roleID := domain.RoleAdmin
	if cmd.RoleID != nil {
		roleID = *cmd.RoleID
	}

	if existing, err := h.repo.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, apperror.Conflict("Username already exists")
	} else if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     cmd.FullName,
		RoleID:       roleID,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := h.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
