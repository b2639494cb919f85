package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift statuses. At most one shift may be open at a time.
const (
	ShiftOpen   = "open"
	ShiftClosed = "closed"
)

// Cash movement types. OPEN and CLOSE entries are appended implicitly by the
// shift open/close actions; SALE entries are appended by settlement for the
// cash portion of a sale; CASH_IN / CASH_OUT are manual operator entries.
const (
	MovementOpen    = "OPEN"
	MovementClose   = "CLOSE"
	MovementSale    = "SALE"
	MovementCashIn  = "CASH_IN"
	MovementCashOut = "CASH_OUT"
)

// CashShift represents the lifecycle of a cash drawer session.
type CashShift struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OpenedBy     uuid.UUID       `gorm:"type:uuid;not null"`
	OpeningFloat decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ExpectedAmount and Variance are computed on close:
	// expected = opening float + sum of signed cash movements,
	// variance  = counted − expected. Variance is reported, never corrected.
	CountedAmount  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Variance       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status         string           `gorm:"type:varchar(20);not null;default:'open';index"`
	OpenedAt       time.Time
	ClosedAt       *time.Time

	Movements []CashMovement `gorm:"foreignKey:ShiftID"`
}

// CashMovement is an immutable event in the cash drawer ledger. Movements are
// NEVER modified or deleted. Amounts are signed: CASH_OUT entries are stored
// negated so that expected cash is a plain sum over the shift's movements.
type CashMovement struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShiftID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type    string          `gorm:"type:varchar(20);not null"`
	Amount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason  string          `gorm:"not null"`
	// ReferenceID links to the originating Transaction for SALE movements.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}
