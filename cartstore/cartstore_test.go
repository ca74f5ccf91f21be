package cartstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norun9/mobileshop/catalog"
)

var (
	productA = catalog.Product{ID: "a", Title: "Product A", Price: 100}
	productB = catalog.Product{ID: "b", Title: "Product B", Price: 200}
)

func TestAddItemMergesSameProduct(t *testing.T) {
	s := New()
	s.AddItem(productA, 2)
	s.AddItem(productA, 3)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Product.ID)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemKeepsInsertionOrder(t *testing.T) {
	s := New()
	s.AddItem(productA, 1)
	s.AddItem(productB, 1)
	s.AddItem(productA, 1)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Product.ID)
	assert.Equal(t, "b", items[1].Product.ID)
}

func TestUpdateQuantity(t *testing.T) {
	s := New()
	s.AddItem(productA, 2)

	s.UpdateQuantity("a", 7)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 7, s.Items()[0].Quantity)

	// Unknown ids are ignored.
	s.UpdateQuantity("nope", 3)
	assert.Equal(t, 7, s.Items()[0].Quantity)
}

func TestUpdateQuantityRemovesAtZeroOrBelow(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		s := New()
		s.AddItem(productA, 2)
		s.UpdateQuantity("a", quantity)
		assert.Empty(t, s.Items(), "quantity %d should remove the item", quantity)
	}
}

func TestRemoveItemUnknownIDIsNoop(t *testing.T) {
	s := New()
	s.AddItem(productA, 1)
	s.RemoveItem("nope")

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "a", s.Items()[0].Product.ID)
}

func TestTotals(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.TotalItems())
	assert.Zero(t, s.TotalPrice())

	s.AddItem(productA, 2)
	s.AddItem(productB, 1)
	assert.Equal(t, 3, s.TotalItems())
	assert.InDelta(t, 400, s.TotalPrice(), 1e-9)

	s.Clear()
	assert.Equal(t, 0, s.TotalItems())
	assert.Zero(t, s.TotalPrice())
	assert.Empty(t, s.Items())
}

func TestTotalPriceFloat(t *testing.T) {
	s := New()
	s.AddItem(catalog.Product{ID: "x", Price: 19.99}, 3)
	assert.InDelta(t, 59.97, s.TotalPrice(), 1e-9)
}

func TestSubscribe(t *testing.T) {
	s := New()
	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	s.AddItem(productA, 1)
	s.UpdateQuantity("a", 2)
	assert.Equal(t, 2, calls)

	unsubscribe()
	s.Clear()
	assert.Equal(t, 2, calls)
}

func TestItemsReturnsCopy(t *testing.T) {
	s := New()
	s.AddItem(productA, 1)

	items := s.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, s.Items()[0].Quantity)
}
