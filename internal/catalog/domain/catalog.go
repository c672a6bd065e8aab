package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Category groups items on the shelf and in reports
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

func (Category) TableName() string { return "categories" }

// Brand is the manufacturer label of an item
type Brand struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

func (Brand) TableName() string { return "brands" }

// Unit is the unit of sale (tablet, bottle, box)
type Unit struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Name   string  `json:"name" gorm:"not null"`
	Symbol *string `json:"symbol"`
}

func (Unit) TableName() string { return "units" }

// Supplier delivers purchases
type Supplier struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func (Supplier) TableName() string { return "suppliers" }

// PaymentType is a tender accepted at checkout
type PaymentType struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

func (PaymentType) TableName() string { return "payment_types" }

// Tax is a named percentage rate between 0 and 100
type Tax struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"not null"`
	Rate      decimal.Decimal `json:"rate" gorm:"type:numeric(5,2);not null"`
	IsDefault bool            `json:"is_default" gorm:"not null;default:false"`
}

func (Tax) TableName() string { return "taxes" }

// Currency is an ISO 4217 code the currency setting may take
type Currency struct {
	Code   string `json:"code" gorm:"primaryKey"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

func (Currency) TableName() string { return "currencies" }

// Lister reads every row of a reference table
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Repository is the data access contract shared by every catalog table.
// List is ordered by name.
type Repository[T any] interface {
	Lister[T]
	FindByID(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, entry *T) error
	Update(ctx context.Context, entry *T) error
	Delete(ctx context.Context, id uint) error
}
