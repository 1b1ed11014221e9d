//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/shopcheck/fixtures"
	"github.com/networkteam/shopcheck/pages"
	"github.com/networkteam/shopcheck/session"
)

// openHome starts a browser session for t and opens the storefront home page.
// The session is closed when t finishes.
func openHome(t *testing.T) (*session.Session, *pages.HomePage) {
	t.Helper()
	s, err := suite.Start(t)
	require.NoError(t, err, "failed to start browser session")

	home, err := pages.Loaded(s.Home())
	require.NoError(t, err, "home page should be loaded")
	return s, home
}

func testData() *fixtures.Data {
	return suite.Data()
}

// loginAsValidUser logs in with the valid user of the test data.
func loginAsValidUser(t *testing.T, home *pages.HomePage) *pages.AccountPage {
	t.Helper()
	login, err := home.GoToLogin()
	require.NoError(t, err)

	user := testData().Users.Valid
	account, err := login.Login(user.Email, user.Password)
	require.NoError(t, err)
	require.True(t, account.IsLoggedIn(), "user should be logged in")
	return account
}

// openFirstResult searches for term and opens the first product found.
func openFirstResult(t *testing.T, home *pages.HomePage, term string) *pages.ProductPage {
	t.Helper()
	results, err := pages.Loaded(home.SearchProduct(term))
	require.NoError(t, err, "search results should be loaded")
	require.Greater(t, results.ProductCount(), 0, "search for %q should return products", term)

	product, err := pages.Loaded(results.ClickFirstProduct())
	require.NoError(t, err, "product page should be loaded")
	return product
}

// addFirstResultToCart adds the first product found for term and returns its name.
func addFirstResultToCart(t *testing.T, home *pages.HomePage, term string) string {
	t.Helper()
	product := openFirstResult(t, home, term)
	name, err := product.Name()
	require.NoError(t, err)

	added, err := product.AddToCart(1)
	require.NoError(t, err)
	require.True(t, added, "product %q should be added to cart", name)
	return name
}

func openCart(t *testing.T, home *pages.HomePage) *pages.CartPage {
	t.Helper()
	cart, err := pages.Loaded(home.GoToShoppingCart())
	require.NoError(t, err, "cart page should be loaded")
	return cart
}
