package service

import (
	"testing"

	"luminapos/internal/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(price float64, qty int, discount float64) cart.Line {
	return cart.Line{
		ProductID: uuid.New(),
		UnitPrice: decimal.NewFromFloat(price),
		Quantity:  qty,
		Discount:  decimal.NewFromFloat(discount),
	}
}

func TestTotalsExclusiveTax(t *testing.T) {
	cfg := TaxConfig{Rate: decimal.NewFromFloat(0.18), PricesIncludeTax: false}

	totals := CalculateTotals([]cart.Line{line(10, 2, 0)}, cfg)

	assert.Equal(t, "20", totals.Subtotal.String())
	assert.Equal(t, "3.6", totals.Tax.String())
	assert.Equal(t, "23.6", totals.Total.String())
}

func TestTotalsInclusiveTax(t *testing.T) {
	// 2 × 15.00 with an 18% tax already inside the price: the tax line is
	// backed out, the total stays at the shelf price.
	cfg := TaxConfig{Rate: decimal.NewFromFloat(0.18), PricesIncludeTax: true}

	totals := CalculateTotals([]cart.Line{line(15, 2, 0)}, cfg)

	assert.Equal(t, "4.58", totals.Tax.String())
	assert.Equal(t, "25.42", totals.Subtotal.String())
	assert.Equal(t, "30", totals.Total.String())
}

func TestTotalsInvariant(t *testing.T) {
	// total == subtotal + tax − discount, both modes.
	cases := []struct {
		name      string
		inclusive bool
	}{
		{"inclusive", true},
		{"exclusive", false},
	}
	lines := []cart.Line{line(19.99, 3, 2.00), line(4.25, 1, 0)}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := TaxConfig{Rate: decimal.NewFromFloat(0.18), PricesIncludeTax: tc.inclusive}
			totals := CalculateTotals(lines, cfg)
			sum := totals.Subtotal.Add(totals.Tax).Sub(totals.Discount)
			assert.True(t, totals.Total.Equal(sum),
				"total %s != subtotal %s + tax %s - discount %s",
				totals.Total, totals.Subtotal, totals.Tax, totals.Discount)
		})
	}
}

func TestTotalsOverDiscountClampsAtZero(t *testing.T) {
	cfg := TaxConfig{Rate: decimal.NewFromFloat(0.18), PricesIncludeTax: true}

	// Discount exceeds the price: gross floors at zero, no negative totals.
	totals := CalculateTotals([]cart.Line{line(5, 1, 8)}, cfg)

	assert.True(t, totals.Total.IsZero(), "total should clamp at zero, got %s", totals.Total)
	assert.True(t, totals.Tax.IsZero())
	assert.Equal(t, "8", totals.Discount.String())
}

func TestTotalsPerUnitDiscount(t *testing.T) {
	cfg := TaxConfig{Rate: decimal.NewFromFloat(0.18), PricesIncludeTax: false}

	// 3 units, 1.00 off each: discount total is 3.00.
	totals := CalculateTotals([]cart.Line{line(10, 3, 1)}, cfg)

	assert.Equal(t, "3", totals.Discount.String())
	// gross 27 → tax 4.86 → total 31.86
	assert.Equal(t, "31.86", totals.Total.String())
}

func TestTotalsEmptyCart(t *testing.T) {
	cfg := TaxConfig{Rate: decimal.NewFromFloat(0.18), PricesIncludeTax: true}
	totals := CalculateTotals(nil, cfg)
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.Tax.IsZero())
}
