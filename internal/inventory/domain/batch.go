package domain

import (
	"time"

	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// Batch is a dated lot of one item. Qty never goes below zero and a
// batch is kept after it is emptied.
type Batch struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ItemID     uint           `json:"item_id" gorm:"not null"`
	BatchNo    string         `json:"batch_no" gorm:"not null"`
	ExpiryDate *calendar.Date `json:"expiry_date" gorm:"type:date"`
	Qty        int            `json:"qty" gorm:"not null;default:0"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TableName specifies the table name
func (Batch) TableName() string {
	return "batches"
}

// BatchPatch is a partial batch update. A nil pointer leaves the field
// unchanged; ClearExpiry sets expiry_date to null.
type BatchPatch struct {
	BatchNo     *string
	Qty         *int
	ExpiryDate  *calendar.Date
	ClearExpiry bool
}

// IsEmpty reports whether the patch changes nothing
func (p BatchPatch) IsEmpty() bool {
	return p.BatchNo == nil && p.Qty == nil && p.ExpiryDate == nil && !p.ClearExpiry
}
