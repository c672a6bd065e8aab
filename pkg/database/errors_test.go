package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/pkg/apperror"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    apperror.Kind
		message string
	}{
		{
			name:    "pgx foreign key on item",
			err:     fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503", ConstraintName: "batches_item_id_fkey"}),
			kind:    apperror.KindForeignKey,
			message: "Invalid item_id",
		},
		{
			name:    "pgx unique batch",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "batches_item_id_batch_no_key"},
			kind:    apperror.KindConflict,
			message: "Batch already exists for this item",
		},
		{
			name:    "batch qty check",
			err:     &pgconn.PgError{Code: "23514", ConstraintName: "batches_qty_check"},
			kind:    apperror.KindInsufficientStock,
			message: "Insufficient batch quantity",
		},
		{
			name:    "other check",
			err:     &pgconn.PgError{Code: "23514", ConstraintName: "taxes_rate_check"},
			kind:    apperror.KindValidation,
			message: "Value out of range",
		},
		{
			name:    "lib/pq malformed number",
			err:     &pq.Error{Code: "22P02"},
			kind:    apperror.KindValidation,
			message: "Malformed value",
		},
		{
			name:    "gorm not found",
			err:     gorm.ErrRecordNotFound,
			kind:    apperror.KindNotFound,
			message: "Not found",
		},
		{
			name:    "gorm duplicated key",
			err:     gorm.ErrDuplicatedKey,
			kind:    apperror.KindConflict,
			message: "Duplicate value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(tt.err)
			if apperror.KindOf(got) != tt.kind {
				t.Fatalf("kind = %q, want %q", apperror.KindOf(got), tt.kind)
			}
			if apperror.Message(got) != tt.message {
				t.Fatalf("message = %q, want %q", apperror.Message(got), tt.message)
			}
		})
	}
}

func TestTranslateErrorPassThrough(t *testing.T) {
	if TranslateError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}

	classified := apperror.ExceedsRemaining("too many")
	if got := TranslateError(classified); got != error(classified) {
		t.Fatalf("classified error must pass through unchanged")
	}

	plain := errors.New("connection refused")
	if got := TranslateError(plain); got != plain {
		t.Fatalf("unknown errors must pass through unchanged")
	}
}
