package dto

import "github.com/shopspring/decimal"

type OpenShiftRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float" validate:"min=0"`
}

// MovementRequest records a manual cash entry against the open shift.
type MovementRequest struct {
	Type   string          `json:"type"   validate:"required,oneof=CASH_IN CASH_OUT"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Reason string          `json:"reason" validate:"required"`
}

type CloseShiftRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount" validate:"min=0"`
}

type MovementResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	CreatedAt string          `json:"created_at"`
}

// ReconciliationResponse is returned by shift close: variance is
// counted − expected, reported and never auto-corrected.
type ReconciliationResponse struct {
	ShiftID       string          `json:"shift_id"`
	OpeningFloat  decimal.Decimal `json:"opening_float"`
	CashSales     decimal.Decimal `json:"cash_sales"`
	CashIn        decimal.Decimal `json:"cash_in"`
	CashOut       decimal.Decimal `json:"cash_out"`
	ExpectedCash  decimal.Decimal `json:"expected_cash"`
	CountedAmount decimal.Decimal `json:"counted_amount"`
	Variance      decimal.Decimal `json:"variance"`
	Status        string          `json:"status"`
}

type ShiftReportResponse struct {
	ShiftID      string             `json:"shift_id"`
	Status       string             `json:"status"`
	OpeningFloat decimal.Decimal    `json:"opening_float"`
	CashSales    decimal.Decimal    `json:"cash_sales"`
	CashIn       decimal.Decimal    `json:"cash_in"`
	CashOut      decimal.Decimal    `json:"cash_out"`
	ExpectedCash decimal.Decimal    `json:"expected_cash"`
	Movements    []MovementResponse `json:"movements"`
	// Close-only fields
	CountedAmount *decimal.Decimal `json:"counted_amount,omitempty"`
	Variance      *decimal.Decimal `json:"variance,omitempty"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at,omitempty"`
}
