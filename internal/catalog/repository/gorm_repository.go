package repository

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/database"
)

var tracer = otel.Tracer("catalog-repository")

// GormRepository implements domain.Repository for one catalog table.
// label names the entity in error messages.
type GormRepository[T any] struct {
	db    *gorm.DB
	label string
}

// NewGormRepository creates a new catalog repository
func NewGormRepository[T any](db *gorm.DB, label string) *GormRepository[T] {
	return &GormRepository[T]{db: db, label: label}
}

func (r *GormRepository[T]) span(ctx context.Context, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "repository."+op, trace.WithAttributes(attribute.String("catalog.entity", r.label)))
}

func (r *GormRepository[T]) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	translated := database.TranslateError(err)
	switch apperror.KindOf(translated) {
	case apperror.KindNotFound:
		return apperror.NotFound("%s not found", r.label)
	case apperror.KindConflict:
		return apperror.Conflict("%s already exists", r.label)
	case apperror.KindInternal:
		return fmt.Errorf("failed to access %s: %w", r.label, translated)
	}
	return translated
}

func (r *GormRepository[T]) List(ctx context.Context) ([]T, error) {
	ctx, span := r.span(ctx, "List")
	defer span.End()

	var rows []T
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, r.fail(span, err)
	}
	return rows, nil
}

func (r *GormRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	ctx, span := r.span(ctx, "FindByID")
	defer span.End()

	var row T
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, r.fail(span, err)
	}
	return &row, nil
}

func (r *GormRepository[T]) Create(ctx context.Context, entry *T) error {
	ctx, span := r.span(ctx, "Create")
	defer span.End()

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return r.fail(span, err)
	}
	return nil
}

func (r *GormRepository[T]) Update(ctx context.Context, entry *T) error {
	ctx, span := r.span(ctx, "Update")
	defer span.End()

	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return r.fail(span, err)
	}
	return nil
}

func (r *GormRepository[T]) Delete(ctx context.Context, id uint) error {
	ctx, span := r.span(ctx, "Delete")
	defer span.End()

	var row T
	res := r.db.WithContext(ctx).Delete(&row, id)
	if res.Error != nil {
		return r.fail(span, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("%s not found", r.label)
	}
	return nil
}
