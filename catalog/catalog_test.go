package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	products := c.List()
	require.Len(t, products, 4)
	assert.Equal(t, "Smartphone Plus", products[0].Title)

	p, ok := c.Get("3")
	require.True(t, ok)
	assert.Equal(t, "Smart Watch", p.Title)
	assert.Equal(t, 299.0, p.Price)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestListReturnsCopy(t *testing.T) {
	c := Default()
	products := c.List()
	products[0].Title = "mutated"

	assert.Equal(t, "Smartphone Plus", c.List()[0].Title)
}
