package command

import (
	"context"

	"github.com/tair/pharmacy-backend/internal/user/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/auth"
)

// ChangePasswordCommand represents the command to change the caller's password
type ChangePasswordCommand struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordHandler handles password changes
type ChangePasswordHandler struct {
	repo domain.UserRepository
}

// NewChangePasswordHandler creates a new change password handler
func NewChangePasswordHandler(repo domain.UserRepository) *ChangePasswordHandler {
	return &ChangePasswordHandler{repo: repo}
}

// Handle verifies the current password before storing the new hash
func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) error {
	if len(cmd.NewPassword) < domain.MinPasswordLength {
		return apperror.Validation("new_password must be at least %d characters", domain.MinPasswordLength)
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, cmd.CurrentPassword) {
		return apperror.Unauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(cmd.NewPassword)
	if err != nil {
		return err
	}
	return h.repo.UpdatePassword(ctx, user.ID, hash)
}
