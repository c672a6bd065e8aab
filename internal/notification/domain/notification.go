package domain

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Outbox statuses
const (
	StatusQueued = "QUEUED"
	StatusSent   = "SENT"
	StatusFailed = "FAILED"

	OutboxLimit = 100
)

// Default templates created on first use
const (
	OrderReadyTemplate    = "OrderReady"
	OrderReadyDefaultBody = "Hi {{name}}, your order {{sale_id}} totaling {{total}} is ready. Thank you."

	LowStockTemplate    = "LowStockAlert"
	LowStockDefaultBody = "Low stock: {{sku}} {{name}} now {{qty}} (min {{min}})."
)

// Template is a reusable SMS body with {{key}} placeholders
type Template struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Body      string    `json:"body" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Template) TableName() string { return "sms_templates" }

// OutboxMessage records one send attempt
type OutboxMessage struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	ToNumber          string     `json:"to_number" gorm:"not null"`
	Body              string     `json:"body" gorm:"not null"`
	TemplateID        *uint      `json:"template_id"`
	Status            string     `json:"status" gorm:"not null;default:QUEUED"`
	Error             *string    `json:"error"`
	ProviderMessageID *string    `json:"provider_message_id"`
	CreatedAt         time.Time  `json:"created_at"`
	SentAt            *time.Time `json:"sent_at"`
}

func (OutboxMessage) TableName() string { return "sms_outbox" }

// Customer is the recipient of an order-ready message
type Customer struct {
	Name  string
	Phone *string
}

// StockLevel is an item's stock as seen after a sale
type StockLevel struct {
	ID       uint
	SKU      string
	Name     string
	StockQty int
	MinStock int
}

// Low reports whether stock has reached the reorder floor
func (s StockLevel) Low() bool { return s.StockQty <= s.MinStock }

// TemplateRepository defines the contract for template storage
type TemplateRepository interface {
	List(ctx context.Context) ([]Template, error)
	FindByID(ctx context.Context, id uint) (*Template, error)
	// EnsureByName returns the named template, creating it with body when absent
	EnsureByName(ctx context.Context, name, body string) (*Template, error)
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id uint) error
}

// OutboxRepository defines the contract for the message log
type OutboxRepository interface {
	Create(ctx context.Context, m *OutboxMessage) error
	MarkSent(ctx context.Context, id uint, providerMessageID string) error
	MarkFailed(ctx context.Context, id uint, reason string) error
	Recent(ctx context.Context, limit int) ([]OutboxMessage, error)
}

// SaleLookup reads the sale state notifications are built from
type SaleLookup interface {
	SaleTotal(ctx context.Context, saleID uint) (decimal.Decimal, error)
	Customer(ctx context.Context, customerID uint) (*Customer, error)
	StockLevels(ctx context.Context, itemIDs []uint) ([]StockLevel, error)
}

// Provider delivers a rendered message and returns the provider's id for it
type Provider interface {
	Name() string
	Send(ctx context.Context, to, body string) (string, error)
}

var placeholder = regexp.MustCompile(`\{\{\s*([\w.]+)\s*\}\}`)

// Render replaces {{key}} placeholders; missing keys render empty
func Render(body string, params map[string]string) string {
	return placeholder.ReplaceAllStringFunc(body, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		return params[key]
	})
}
