package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement is the audit trail for every stock mutation. Inventory drift
// caused by best-effort adjustments is reconciled against these rows.
// Type: "sale" | "reconcile"
type StockMovement struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID  `gorm:"type:uuid;index;not null"`
	VariantID *uuid.UUID `gorm:"type:uuid"`
	Type      string     `gorm:"type:varchar(20);not null"`
	// Quantity is signed: sales are negative.
	Quantity    int    `gorm:"not null"`
	StockBefore int    `gorm:"not null"`
	StockAfter  int    `gorm:"not null"`
	Reason      string `gorm:"not null"`
	// ReferenceID links to the originating Transaction when Type is "sale"
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}
