package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// SQLSTATE codes the API maps to client errors
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeInvalidText         = "22P02"
	codeInvalidDatetime     = "22007"
	codeDatetimeOverflow    = "22008"
	codeNumericOverflow     = "22003"
)

// TranslateError classifies driver errors. Errors that are already
// classified, and nil, pass through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.Wrap(apperror.KindNotFound, err, "Not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Wrap(apperror.KindConflict, err, "Duplicate value")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.Wrap(apperror.KindForeignKey, err, "Invalid reference")
	}

	code, constraint, ok := sqlState(err)
	if !ok {
		return err
	}

	switch code {
	case codeForeignKeyViolation:
		return apperror.Wrap(apperror.KindForeignKey, err, foreignKeyMessage(constraint))
	case codeUniqueViolation:
		return apperror.Wrap(apperror.KindConflict, err, uniqueMessage(constraint))
	case codeCheckViolation:
		if strings.HasPrefix(constraint, "batches_qty") {
			return apperror.Wrap(apperror.KindInsufficientStock, err, "Insufficient batch quantity")
		}
		return apperror.Wrap(apperror.KindValidation, err, "Value out of range")
	case codeNotNullViolation:
		return apperror.Wrap(apperror.KindValidation, err, "Missing required field")
	case codeInvalidText, codeInvalidDatetime, codeDatetimeOverflow, codeNumericOverflow:
		return apperror.Wrap(apperror.KindValidation, err, "Malformed value")
	}
	return err
}

// sqlState extracts the SQLSTATE from either the pgx or the lib/pq driver
func sqlState(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}

	return "", "", false
}

func foreignKeyMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "item_id"):
		return "Invalid item_id"
	case strings.Contains(constraint, "supplier_id"):
		return "Invalid supplier_id"
	case strings.Contains(constraint, "customer_id"):
		return "Invalid customer_id"
	case strings.Contains(constraint, "category_id"):
		return "Invalid category_id"
	case strings.Contains(constraint, "brand_id"):
		return "Invalid brand_id"
	case strings.Contains(constraint, "unit_id"):
		return "Invalid unit_id"
	case strings.Contains(constraint, "payment_type_id"):
		return "Invalid payment_type_id"
	}
	return "Invalid reference"
}

func uniqueMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "batch"):
		return "Batch already exists for this item"
	case strings.Contains(constraint, "sku"):
		return "SKU already exists"
	case strings.Contains(constraint, "username"):
		return "Username already exists"
	case strings.Contains(constraint, "phone"), strings.Contains(constraint, "email"):
		return "Customer with same phone/email exists"
	case strings.Contains(constraint, "reorders_pending"):
		return "A pending reorder already exists for this item"
	}
	return "Duplicate value"
}
