//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/shopcheck/pages"
)

func TestSmoke_ShoppingCart(t *testing.T) {
	t.Parallel()

	t.Run("add product", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)
		name := addFirstResultToCart(t, home, testData().ValidTerm(0))

		cart := openCart(t, home)
		assert.Greater(t, cart.ItemsCount(), 0, "cart should contain items")
		assert.True(t, cart.IsProductInCart(name), "cart should contain %q", name)
	})

	t.Run("add multiple products", func(t *testing.T) {
		t.Parallel()
		s, home := openHome(t)

		for _, term := range testData().ValidTerms(2) {
			addFirstResultToCart(t, home, term)

			var err error
			home, err = s.Home()
			require.NoError(t, err)
		}

		cart := openCart(t, home)
		assert.GreaterOrEqual(t, cart.ItemsCount(), 2, "cart should contain at least 2 items")
	})

	t.Run("update quantity", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)
		addFirstResultToCart(t, home, testData().ValidTerm(0))

		cart := openCart(t, home)
		before := cart.ItemsCount()
		require.NoError(t, cart.UpdateQuantity(0, 2))

		assert.Equal(t, before, cart.ItemsCount(), "quantity updates keep the number of rows")
	})

	t.Run("remove product", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)
		addFirstResultToCart(t, home, testData().ValidTerm(0))

		cart := openCart(t, home)
		before := cart.ItemsCount()
		require.Greater(t, before, 0, "cart should have items")

		require.NoError(t, cart.RemoveProduct(0))

		assert.Equal(t, before-1, cart.ItemsCount(), "cart should have one item less")
	})

	t.Run("total price", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)
		addFirstResultToCart(t, home, testData().ValidTerm(0))

		cart := openCart(t, home)
		total, err := cart.TotalPrice()
		require.NoError(t, err)

		assert.NotEmpty(t, total, "total price should be displayed")
		assert.True(t, pages.ContainsFold(total, "$", "£", "€"), "total %q should contain a currency symbol", total)
	})
}
