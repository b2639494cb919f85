package service

import (
	"luminapos/internal/cart"

	"github.com/shopspring/decimal"
)

// TaxConfig drives the totals calculation for a settlement. When
// PricesIncludeTax is true, catalog prices already contain the tax and the
// calculator backs it out; otherwise tax is added on top.
type TaxConfig struct {
	Rate             decimal.Decimal
	PricesIncludeTax bool
}

// Totals is the computed money breakdown of a sale.
// Invariant: Total = Subtotal + Tax − Discount (exact after rounding), except
// when over-discounting clamps the gross at zero — that clamp is a deliberate
// policy, not an error.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals computes subtotal, discount, tax and total for a frozen
// line list. Pure: no I/O, deterministic. All intermediate math stays in
// decimal; the only rounding is the 2dp tax line, and the displayed subtotal
// absorbs it so the figures sum exactly.
func CalculateTotals(lines []cart.Line, cfg TaxConfig) Totals {
	rawSubtotal := decimal.Zero
	discount := decimal.Zero
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		rawSubtotal = rawSubtotal.Add(l.UnitPrice.Mul(qty))
		discount = discount.Add(l.Discount.Mul(qty))
	}

	// Over-discounting floors the gross at zero rather than erroring.
	gross := rawSubtotal.Sub(discount)
	if gross.IsNegative() {
		gross = decimal.Zero
	}

	if cfg.PricesIncludeTax {
		// tax = gross − gross / (1 + rate), rounded at the tax line.
		divisor := decimal.NewFromInt(1).Add(cfg.Rate)
		tax := gross.Sub(gross.Div(divisor)).Round(2)
		return Totals{
			Subtotal: rawSubtotal.Sub(tax).Round(2),
			Discount: discount.Round(2),
			Tax:      tax,
			Total:    gross.Round(2),
		}
	}

	tax := gross.Mul(cfg.Rate).Round(2)
	return Totals{
		Subtotal: rawSubtotal.Round(2),
		Discount: discount.Round(2),
		Tax:      tax,
		Total:    gross.Add(tax).Round(2),
	}
}
