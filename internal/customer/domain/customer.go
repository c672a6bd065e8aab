package domain

import (
	"context"
	"time"
)

// SearchLimit caps customer search results
const SearchLimit = 200

// Customer is a buyer that sales and SMS notifications reference.
// Phone and email are unique when present.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customers"
}

// ImportResult counts the outcome of a bulk import
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// CustomerRepository defines the contract for customer data access
type CustomerRepository interface {
	Search(ctx context.Context, q string, limit int) ([]Customer, error)
	FindByID(ctx context.Context, id uint) (*Customer, error)
	// ExistsByContact reports whether a customer other than excludeID
	// already uses phone or email
	ExistsByContact(ctx context.Context, phone, email *string, excludeID uint) (bool, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id uint) error
	// Execute runs fn with a repository bound to one transaction
	Execute(ctx context.Context, fn func(tx CustomerRepository) error) error
}
