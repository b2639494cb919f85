// Package cart holds the mutable line-item collection of an in-progress sale.
// Lines are keyed by (productID, variantID): adding the same product merges
// into the existing line. Unit prices are snapshots taken when the line is
// added and never change afterwards.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. Discount is per unit.
type Line struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  decimal.Decimal
}

// key identifies a line for merge-on-add.
type key struct {
	product uuid.UUID
	variant uuid.UUID // uuid.Nil when the line has no variant
}

func lineKey(productID uuid.UUID, variantID *uuid.UUID) key {
	k := key{product: productID}
	if variantID != nil {
		k.variant = *variantID
	}
	return k
}

// Cart is an ordered collection of lines. It is not safe for concurrent use:
// one cashier operates one cart.
type Cart struct {
	order []key
	lines map[key]*Line
}

func New() *Cart {
	return &Cart{lines: make(map[key]*Line)}
}

// Add merges quantity into an existing line for the same (product, variant)
// or appends a new line with the given price snapshot.
func (c *Cart) Add(productID uuid.UUID, variantID *uuid.UUID, name string, unitPrice decimal.Decimal, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	k := lineKey(productID, variantID)
	if existing, ok := c.lines[k]; ok {
		existing.Quantity += quantity
		return
	}
	c.order = append(c.order, k)
	c.lines[k] = &Line{
		ProductID: productID,
		VariantID: variantID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Discount:  decimal.Zero,
	}
}

// UpdateQuantity adjusts a line's quantity by delta, floored at 1.
// Removing a line entirely goes through Remove.
func (c *Cart) UpdateQuantity(productID uuid.UUID, variantID *uuid.UUID, delta int) {
	if l, ok := c.lines[lineKey(productID, variantID)]; ok {
		l.Quantity += delta
		if l.Quantity < 1 {
			l.Quantity = 1
		}
	}
}

// SetDiscount sets the per-unit discount for a line.
func (c *Cart) SetDiscount(productID uuid.UUID, variantID *uuid.UUID, discount decimal.Decimal) {
	if l, ok := c.lines[lineKey(productID, variantID)]; ok {
		l.Discount = discount
	}
}

// Remove deletes a line.
func (c *Cart) Remove(productID uuid.UUID, variantID *uuid.UUID) {
	k := lineKey(productID, variantID)
	if _, ok := c.lines[k]; !ok {
		return
	}
	delete(c.lines, k)
	for i, o := range c.order {
		if o == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Lines returns a frozen copy of the cart in insertion order. Mutating the
// returned slice does not affect the cart — settlement works on this snapshot.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, *c.lines[k])
	}
	return out
}

func (c *Cart) Len() int { return len(c.order) }

// Clear empties the cart. Called only after the settlement's authoritative
// write has succeeded, or on logout.
func (c *Cart) Clear() {
	c.order = nil
	c.lines = make(map[key]*Line)
}
