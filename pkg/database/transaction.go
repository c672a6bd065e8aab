package database

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs a function inside one database transaction. Any error
// returned by fn, or a panic, rolls back every statement issued through tx.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a new transactor
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithTransaction executes fn in a transaction and translates its error
func (t *Transactor) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := t.db.WithContext(ctx).Transaction(fn)
	return TranslateError(err)
}

// DB returns the non-transactional handle
func (t *Transactor) DB() *gorm.DB {
	return t.db
}
