package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/pharmacy-backend/internal/user/domain"
)

var tracer = otel.Tracer("user-repository")

// TracingUserRepository wraps a UserRepository with tracing
type TracingUserRepository struct {
	next domain.UserRepository
}

// NewTracingUserRepository creates a new repository with tracing
func NewTracingUserRepository(next domain.UserRepository) *TracingUserRepository {
	return &TracingUserRepository{next: next}
}

func (r *TracingUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "repository.CreateUser",
		trace.WithAttributes(attribute.String("user.username", user.Username)),
	)
	defer span.End()

	err := r.next.Create(ctx, user)
	if err != nil {
		recordError(span, err)
		return err
	}
	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	return nil
}

func (r *TracingUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.FindUserByID",
		trace.WithAttributes(attribute.Int("user.id", int(id))),
	)
	defer span.End()

	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
	}
	return user, err
}

func (r *TracingUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.FindUserByUsername",
		trace.WithAttributes(attribute.String("user.username", username)),
	)
	defer span.End()

	user, err := r.next.FindByUsername(ctx, username)
	if err != nil {
		recordError(span, err)
	}
	return user, err
}

func (r *TracingUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAllUsers")
	defer span.End()

	users, err := r.next.FindAll(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("users.count", len(users)))
	return users, nil
}

func (r *TracingUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	ctx, span := tracer.Start(ctx, "repository.UpdatePassword",
		trace.WithAttributes(attribute.Int("user.id", int(id))),
	)
	defer span.End()

	err := r.next.UpdatePassword(ctx, id, hash)
	if err != nil {
		recordError(span, err)
	}
	return err
}

func (r *TracingUserRepository) EnsureRole(ctx context.Context, role domain.Role) error {
	ctx, span := tracer.Start(ctx, "repository.EnsureRole",
		trace.WithAttributes(attribute.String("role.name", role.Name)),
	)
	defer span.End()

	err := r.next.EnsureRole(ctx, role)
	if err != nil {
		recordError(span, err)
	}
	return err
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
