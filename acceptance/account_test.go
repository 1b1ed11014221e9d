//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/shopcheck/pages"
)

func TestRegression_Account(t *testing.T) {
	t.Parallel()

	t.Run("update account information", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)
		account := loginAsValidUser(t, home)

		edit, err := pages.Loaded(account.GoToEditAccount())
		require.NoError(t, err, "edit account page should be loaded")

		account, err = edit.UpdateAccount(pages.AccountUpdate{Telephone: "9999999999"})
		require.NoError(t, err)

		assert.True(t, account.IsSuccessMessageDisplayed(), "success message should be displayed")
	})

	t.Run("order history", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)
		account := loginAsValidUser(t, home)

		history, err := pages.Loaded(account.GoToOrderHistory())
		require.NoError(t, err, "order history page should be loaded")

		assert.True(t, history.HasOrders() || history.IsNoOrdersMessageDisplayed(),
			"should either list orders or say there are none")
	})

	t.Run("navigation", func(t *testing.T) {
		t.Parallel()
		s, home := openHome(t)
		account := loginAsValidUser(t, home)

		edit, err := pages.Loaded(account.GoToEditAccount())
		require.NoError(t, err, "edit account page should be loaded")
		require.NoError(t, edit.Back())

		home, err = s.Home()
		require.NoError(t, err)
		account, err = pages.Loaded(home.GoToMyAccount())
		require.NoError(t, err, "account page should be loaded")

		_, err = pages.Loaded(account.GoToOrderHistory())
		assert.NoError(t, err, "order history page should be loaded")
	})

	t.Run("register", func(t *testing.T) {
		t.Parallel()
		if suite.Demo() == nil {
			t.Skip("Accounts are only registered against the demo store")
		}
		_, home := openHome(t)

		register, err := pages.Loaded(home.GoToRegister())
		require.NoError(t, err, "register page should be loaded")

		id, err := uuid.NewV4()
		require.NoError(t, err)
		email := "new." + id.String()[:8] + "@example.com"
		_, err = register.Register(pages.Registration{
			FirstName: "New",
			LastName:  "Customer",
			Email:     email,
			Telephone: "5550000000",
			Password:  "Secret@123",
		})
		require.NoError(t, err)

		assert.Contains(t, register.SuccessMessage(), "Created")
		_, ok := suite.Demo().Customer(email)
		assert.True(t, ok, "demo store should know %s", email)
	})
}
