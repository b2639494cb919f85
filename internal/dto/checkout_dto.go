package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CheckoutItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int     `json:"quantity"   validate:"required,min=1"`
	// Discount is per unit.
	Discount decimal.Decimal `json:"discount" validate:"min=0"`
}

type PaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash card wallet"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// CheckoutRequest settles a sale against the open shift. When OrderID is set,
// the sale finalizes an existing pending web order instead of creating a new
// record — retried calls for the same order are idempotent. IdempotencyKey
// gives a plain POS sale the same guarantee: the register generates a key per
// charge attempt, so a double-tapped button returns the first settled
// transaction instead of ringing the sale twice.
type CheckoutRequest struct {
	ShiftID        string                `json:"shift_id" validate:"required,uuid"`
	Items          []CheckoutItemRequest `json:"items"    validate:"required,min=1,dive"`
	Payments       []PaymentRequest      `json:"payments" validate:"required,min=1,dive"`
	OrderID        *string               `json:"order_id" validate:"omitempty,uuid"`
	IdempotencyKey *string               `json:"idempotency_key" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CheckoutItemResponse struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type TransactionResponse struct {
	ID            string                 `json:"id"`
	ShiftID       string                 `json:"shift_id"`
	Origin        string                 `json:"origin"`
	Status        string                 `json:"status"`
	Items         []CheckoutItemResponse `json:"items"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Discount      decimal.Decimal        `json:"discount"`
	Tax           decimal.Decimal        `json:"tax"`
	Total         decimal.Decimal        `json:"total"`
	PaymentMethod string                 `json:"payment_method"`
	Payments      []PaymentRequest       `json:"payments"`
	Change        decimal.Decimal        `json:"change"`
	StockShort    bool                   `json:"stock_short"`
	// StockWarning carries a non-fatal inventory sync failure: the sale is
	// settled, the drift is reported here and corrected by reconciliation.
	StockWarning *string `json:"stock_warning,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
