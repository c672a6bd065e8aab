package domain

import (
	"context"
	"time"
)

// Keys exposed without authentication, with their fallbacks
const (
	KeyCurrency       = "currency"
	KeyDefaultTaxRate = "default_tax_rate"

	DefaultCurrency = "USD"
	DefaultTaxRate  = "0"
	MaxKeyLength    = 100
)

// Setting is one key/value pair of the company profile
type Setting struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     *string   `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }

// PublicSettings is what the point-of-sale screen needs before login
type PublicSettings struct {
	Currency       string `json:"currency"`
	DefaultTaxRate string `json:"default_tax_rate"`
}

// SettingRepository defines the contract for settings storage
type SettingRepository interface {
	List(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, keys ...string) (map[string]*string, error)
	// Upsert writes every pair atomically
	Upsert(ctx context.Context, values map[string]*string) error
}

// CompanyProfileID is the id of the single company profile row
const CompanyProfileID = 1

// CompanyProfile is the header printed on receipts
type CompanyProfile struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name"`
	Address       *string   `json:"address"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	TaxID         *string   `json:"tax_id"`
	ReceiptFooter *string   `json:"receipt_footer"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (CompanyProfile) TableName() string { return "company_profile" }

// CompanyProfileRepository defines the contract for company profile storage
type CompanyProfileRepository interface {
	// Get returns nil when no profile has been saved
	Get(ctx context.Context) (*CompanyProfile, error)
	// Save upserts the profile row
	Save(ctx context.Context, profile *CompanyProfile) error
}
