package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction statuses and origins.
// Status: "pending" | "settled"
// Origin: "pos" | "web"
const (
	TxStatusPending = "pending"
	TxStatusSettled = "settled"

	TxOriginPOS = "pos"
	TxOriginWeb = "web"
)

// Transaction is the immutable record of a sale. Once persisted it is never
// mutated except for the controlled pending → settled status transition of
// web-originated orders. Invariant: Total = Subtotal + Tax − Discount and the
// stored payments sum to Total exactly (change is never recorded).
type Transaction struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShiftID *uuid.UUID `gorm:"type:uuid;index"`
	UserID  *uuid.UUID `gorm:"type:uuid"`
	Origin  string     `gorm:"type:varchar(10);not null;default:'pos'"`
	Status  string     `gorm:"type:varchar(20);not null;default:'settled';index"`

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Tax      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// PaymentMethod is the collapsed tag: a single method's name, or "mixed".
	PaymentMethod string `gorm:"type:varchar(20);not null;default:'cash'"`

	// StockShort marks a sale that drove stock negative — flagged for
	// supervisor review, never rejected.
	StockShort bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	SettledAt *time.Time

	Items    []TransactionItem    `gorm:"foreignKey:TransactionID"`
	Payments []TransactionPayment `gorm:"foreignKey:TransactionID"`
}

// TransactionItem is a frozen copy of a cart line: unit price and name are
// snapshots taken at settlement time.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID     *uuid.UUID      `gorm:"type:uuid"`
	Name          string          `gorm:"not null"`
	Quantity      int             `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// Discount is per unit.
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TransactionPayment is one tender of a (possibly split) payment.
// Method: "cash" | "card" | "wallet"
type TransactionPayment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method        string          `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
