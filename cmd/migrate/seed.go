package main

import (
	"context"
	"fmt"

	notification "github.com/tair/pharmacy-backend/internal/notification/domain"
	"github.com/tair/pharmacy-backend/internal/user/domain"
	"github.com/tair/pharmacy-backend/internal/user/usecase/command"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

type roleStore interface {
	EnsureRole(ctx context.Context, role domain.Role) error
}

type userCreator interface {
	Handle(ctx context.Context, cmd command.CreateUserCommand) (*domain.User, error)
}

type templateStore interface {
	EnsureByName(ctx context.Context, name, body string) (*notification.Template, error)
}

var seedRoles = []domain.Role{
	{ID: domain.RoleAdmin, Name: "admin"},
	{ID: domain.RoleCashier, Name: "cashier"},
}

var seedTemplates = []notification.Template{
	{Name: notification.OrderReadyTemplate, Body: notification.OrderReadyDefaultBody},
	{Name: notification.LowStockTemplate, Body: notification.LowStockDefaultBody},
}

// seeder inserts reference rows; running it twice changes nothing
type seeder struct {
	roles     roleStore
	users     userCreator
	templates templateStore
}

func (s seeder) run(ctx context.Context, adminUsername, adminPassword string) error {
	for _, role := range seedRoles {
		if err := s.roles.EnsureRole(ctx, role); err != nil {
			return err
		}
	}

	roleID := domain.RoleAdmin
	fullName := "Administrator"
	_, err := s.users.Handle(ctx, command.CreateUserCommand{
		Username: adminUsername,
		Password: &adminPassword,
		RoleID:   &roleID,
		FullName: &fullName,
	})
	switch {
	case err == nil:
		logger.Logger.Info().Str("username", adminUsername).Msg("Admin user created")
	case apperror.Is(err, apperror.KindConflict):
		logger.Logger.Info().Str("username", adminUsername).Msg("Admin user already exists")
	default:
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	for _, t := range seedTemplates {
		if _, err := s.templates.EnsureByName(ctx, t.Name, t.Body); err != nil {
			return fmt.Errorf("failed to seed template %s: %w", t.Name, err)
		}
	}
	logger.Logger.Info().Int("roles", len(seedRoles)).Int("templates", len(seedTemplates)).Msg("Seed complete")
	return nil
}
