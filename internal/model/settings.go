package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the single-row store configuration. TaxRate and
// PricesIncludeTax drive the totals calculator for every settlement.
type Settings struct {
	ID               int             `gorm:"primaryKey"`
	StoreName        string          `gorm:"not null"`
	Currency         string          `gorm:"type:varchar(10);not null;default:'S/'"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0.18"`
	PricesIncludeTax bool            `gorm:"not null;default:true"`
	Address          *string
	Phone            *string
	UpdatedAt        time.Time
}
