package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesSameProduct(t *testing.T) {
	c := New()
	pid := uuid.New()

	c.Add(pid, nil, "Coffee", decimal.NewFromFloat(8.50), 1)
	c.Add(pid, nil, "Coffee", decimal.NewFromFloat(8.50), 2)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestVariantsAreSeparateLines(t *testing.T) {
	c := New()
	pid := uuid.New()
	small := uuid.New()
	large := uuid.New()

	c.Add(pid, &small, "Shirt (S)", decimal.NewFromFloat(25), 1)
	c.Add(pid, &large, "Shirt (L)", decimal.NewFromFloat(28), 1)

	assert.Equal(t, 2, c.Len())
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	c := New()
	pid := uuid.New()
	c.Add(pid, nil, "Coffee", decimal.NewFromFloat(8.50), 2)

	c.UpdateQuantity(pid, nil, -5)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestRemovePreservesOrder(t *testing.T) {
	c := New()
	a, b, d := uuid.New(), uuid.New(), uuid.New()
	c.Add(a, nil, "A", decimal.NewFromFloat(1), 1)
	c.Add(b, nil, "B", decimal.NewFromFloat(2), 1)
	c.Add(d, nil, "D", decimal.NewFromFloat(3), 1)

	c.Remove(b, nil)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].Name)
	assert.Equal(t, "D", lines[1].Name)
}

func TestLinesIsFrozenSnapshot(t *testing.T) {
	c := New()
	pid := uuid.New()
	c.Add(pid, nil, "Coffee", decimal.NewFromFloat(8.50), 1)

	snapshot := c.Lines()
	c.UpdateQuantity(pid, nil, 4)

	assert.Equal(t, 1, snapshot[0].Quantity)
	assert.Equal(t, 5, c.Lines()[0].Quantity)
}

func TestSetDiscountAndClear(t *testing.T) {
	c := New()
	pid := uuid.New()
	c.Add(pid, nil, "Coffee", decimal.NewFromFloat(8.50), 1)
	c.SetDiscount(pid, nil, decimal.NewFromFloat(1.50))

	assert.Equal(t, "1.5", c.Lines()[0].Discount.String())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Lines())
}
