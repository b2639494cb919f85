package service

import (
	"luminapos/internal/dto"

	"github.com/shopspring/decimal"
)

// Payment methods. MethodCash is the designated method change is handed back
// from; the others are digital and cannot produce change.
const (
	MethodCash   = "cash"
	MethodCard   = "card"
	MethodWallet = "wallet"
	MethodMixed  = "mixed"
)

// paymentEpsilon tolerates rounding: a tender short by at most 0.01 of a
// currency unit still settles.
var paymentEpsilon = decimal.NewFromFloat(0.01)

// PaymentSplit is the validated, normalized payment breakdown of a sale.
// Payments holds the stored amounts after change attribution, so they sum to
// the required total exactly — the ledger never records money handed back.
type PaymentSplit struct {
	Payments  []dto.PaymentRequest
	TotalPaid decimal.Decimal
	Change    decimal.Decimal
	// Method is the collapsed tag: the single tendering method's name, or
	// "mixed" when more than one method carries a positive amount.
	Method string
}

// SplitPayments validates tendered amounts against the required total and
// computes the stored payment breakdown. Pure: validation happens before any
// action, so a rejection has no side effects anywhere.
func SplitPayments(required decimal.Decimal, tendered []dto.PaymentRequest) (*PaymentSplit, error) {
	totalPaid := decimal.Zero
	for _, p := range tendered {
		if p.Amount.IsNegative() {
			return nil, ErrInsufficientPayment
		}
		totalPaid = totalPaid.Add(p.Amount)
	}

	remaining := required.Sub(totalPaid)
	if remaining.GreaterThan(paymentEpsilon) {
		return nil, ErrInsufficientPayment
	}

	change := totalPaid.Sub(required)
	if change.IsNegative() {
		change = decimal.Zero
	}

	// Normalize: drop zero tenders, deduct change from the cash tender.
	stored := make([]dto.PaymentRequest, 0, len(tendered))
	cashIdx := -1
	for _, p := range tendered {
		if p.Amount.IsZero() {
			continue
		}
		stored = append(stored, p)
		if p.Method == MethodCash {
			cashIdx = len(stored) - 1
		}
	}

	if change.IsPositive() {
		if cashIdx < 0 {
			return nil, ErrChangeWithoutCash
		}
		stored[cashIdx].Amount = stored[cashIdx].Amount.Sub(change)
		if stored[cashIdx].Amount.IsNegative() {
			// Change exceeding the cash tender would mean handing back
			// digital money.
			return nil, ErrChangeWithoutCash
		}
	}

	method := MethodMixed
	switch len(stored) {
	case 0:
		// Zero-total sale (fully discounted): record as cash by convention.
		method = MethodCash
	case 1:
		method = stored[0].Method
	}

	return &PaymentSplit{
		Payments:  stored,
		TotalPaid: totalPaid,
		Change:    change,
		Method:    method,
	}, nil
}

// CashPortion returns the stored cash amount of the split — the figure that
// enters the drawer and therefore the shift's cash ledger.
func (s *PaymentSplit) CashPortion() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		if p.Method == MethodCash {
			total = total.Add(p.Amount)
		}
	}
	return total
}
