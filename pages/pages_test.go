package pages_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/shopcheck/browser"
	"github.com/networkteam/shopcheck/browser/browsertest"
	"github.com/networkteam/shopcheck/pages"
	"github.com/networkteam/shopcheck/wait"
)

const baseURL = "https://shop.example.com/"

func newEnv(t *testing.T) (*browsertest.Page, pages.Env) {
	t.Helper()
	page := browsertest.NewPage()
	policy := wait.Policy{
		Timeout:       100 * time.Millisecond,
		PollInterval:  5 * time.Millisecond,
		ClickRetries:  2,
		StalePause:    time.Millisecond,
		FallbackPause: time.Millisecond,
	}
	return page, pages.NewEnv(page, baseURL, policy, nil)
}

func TestNewHomePage_NavigatesToBaseURL(t *testing.T) {
	page, env := newEnv(t)
	page.Set(pages.HomeLocators.Logo, browsertest.NewElement("Your Store"))

	home, err := pages.Loaded(pages.NewHomePage(env))
	require.NoError(t, err)
	require.NotNil(t, home)

	assert.Equal(t, []string{"https://shop.example.com/"}, page.History())
}

func TestBasePage_NavigateTo(t *testing.T) {
	page, env := newEnv(t)
	p := &pages.BasePage{Env: env}

	require.NoError(t, p.NavigateTo("index.php?route=account/login"))
	require.NoError(t, p.NavigateTo("/index.php?route=checkout/cart"))
	require.NoError(t, p.NavigateTo("http://other.example.com/"))

	assert.Equal(t, []string{
		"https://shop.example.com/index.php?route=account/login",
		"https://shop.example.com/index.php?route=checkout/cart",
		"http://other.example.com/",
	}, page.History())

	url, err := p.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, "http://other.example.com/", url)
}

func TestLoaded_NotLoaded(t *testing.T) {
	_, env := newEnv(t)

	_, err := pages.Loaded(pages.NewHomePage(env))
	require.ErrorIs(t, err, pages.ErrNotLoaded)
	assert.Contains(t, err.Error(), "*pages.HomePage")
}

func TestHomePage_SearchProduct(t *testing.T) {
	page, env := newEnv(t)
	input := browsertest.NewElement("")
	button := browsertest.NewElement("")
	button.OnClick = func() {
		page.Set(pages.SearchResultsLocators.ProductItems, browsertest.Texts("", "")...)
		page.Set(pages.SearchResultsLocators.ProductNames, browsertest.Texts(" MacBook ", "MacBook Air")...)
	}
	page.Set(pages.HomeLocators.SearchInput, input)
	page.Set(pages.HomeLocators.SearchButton, button)

	home, err := pages.NewHomePage(env)
	require.NoError(t, err)
	results, err := pages.Loaded(home.SearchProduct("MacBook"))
	require.NoError(t, err)

	assert.Equal(t, "MacBook", input.CurrentValue())
	assert.Equal(t, 2, results.ProductCount())
	names, err := results.ProductNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"MacBook", "MacBook Air"}, names)
	assert.False(t, results.IsNoResultsDisplayed())
}

func TestSearchResultsPage_NoResults(t *testing.T) {
	page, env := newEnv(t)
	page.Set(pages.SearchResultsLocators.NoResultsMessage,
		browsertest.NewElement("There is no product that matches the search criteria."))

	results := pages.NewSearchResultsPage(env)
	assert.True(t, results.IsPageLoaded())
	assert.True(t, results.IsNoResultsDisplayed())
	assert.Equal(t, 0, results.ProductCount())

	_, err := results.ClickFirstProduct()
	assert.ErrorIs(t, err, pages.ErrNoProducts)

	added, err := results.AddFirstProductToCart()
	require.NoError(t, err)
	assert.False(t, added)
}

func TestSearchResultsPage_AddFirstProductToCart(t *testing.T) {
	page, env := newEnv(t)
	add := browsertest.NewElement("")
	add.OnClick = func() {
		page.Set(pages.SearchResultsLocators.SuccessMessage,
			browsertest.NewElement("Success: You have added iPhone to your shopping cart!"))
	}
	page.Set(pages.SearchResultsLocators.AddToCartButtons, add, browsertest.NewElement(""))

	results := pages.NewSearchResultsPage(env)
	added, err := results.AddFirstProductToCart()
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, add.Clicks())
	assert.Contains(t, results.SuccessMessage(), "iPhone")
}

func TestProductPage_AddToCart(t *testing.T) {
	page, env := newEnv(t)
	qty := &browsertest.Element{Value: "1"}
	button := browsertest.NewElement("Add to Cart")
	button.OnClick = func() {
		page.Set(pages.ProductLocators.SuccessMessage, browsertest.NewElement("Success"))
	}
	page.Set(pages.ProductLocators.QuantityInput, qty)
	page.Set(pages.ProductLocators.AddToCart, button)
	page.Set(pages.ProductLocators.Name, browsertest.NewElement("iPhone"))

	product := pages.NewProductPage(env)
	require.True(t, product.IsPageLoaded())

	added, err := product.AddToCart(1)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "1", qty.CurrentValue(), "quantity is left alone for a single item")

	added, err = product.AddToCart(3)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "3", qty.CurrentValue())

	name, err := product.Name()
	require.NoError(t, err)
	assert.Equal(t, "iPhone", name)
}

// cart renders n rows whose remove buttons drop their row.
func cart(page *browsertest.Page, names ...string) {
	rows := browsertest.Texts(names...)
	removes := make([]*browsertest.Element, len(names))
	for i := range names {
		removes[i] = browsertest.NewElement("")
		removes[i].OnClick = func() {
			rest := append(append([]string(nil), names[:i]...), names[i+1:]...)
			cart(page, rest...)
		}
	}
	page.Set(pages.CartLocators.CartItems, rows...)
	page.Set(pages.CartLocators.ProductNames, browsertest.Texts(names...)...)
	page.Set(pages.CartLocators.RemoveButtons, removes...)
}

func TestCartPage_RemoveProduct(t *testing.T) {
	page, env := newEnv(t)
	cart(page, "iPhone", "MacBook", "Samsung Galaxy Tab 10.1")

	c := pages.NewCartPage(env)
	require.Equal(t, 3, c.ItemsCount())

	require.NoError(t, c.RemoveProduct(1))
	assert.Equal(t, 2, c.ItemsCount())
	assert.True(t, c.IsProductInCart("iPhone"))
	assert.False(t, c.IsProductInCart("MacBook"))

	require.NoError(t, c.RemoveProduct(5), "out of range indexes are ignored")
	assert.Equal(t, 2, c.ItemsCount())

	require.NoError(t, c.RemoveAllProducts())
	assert.Equal(t, 0, c.ItemsCount())
	assert.True(t, c.IsCartEmpty())
}

func TestCartPage_RemoveAllProductsWithoutButtons(t *testing.T) {
	page, env := newEnv(t)
	page.Set(pages.CartLocators.CartItems, browsertest.Texts("iPhone")...)

	err := pages.NewCartPage(env).RemoveAllProducts()
	assert.ErrorContains(t, err, "still has 1 rows")
}

func TestCartPage_EmptyMessage(t *testing.T) {
	page, env := newEnv(t)
	page.Set(pages.CartLocators.EmptyCartMessage, browsertest.NewElement("Your shopping cart is empty!"))

	c := pages.NewCartPage(env)
	assert.True(t, c.IsPageLoaded())
	assert.True(t, c.IsCartEmpty())
}

func TestCartPage_UpdateQuantity(t *testing.T) {
	page, env := newEnv(t)
	qty := &browsertest.Element{Value: "1"}
	update := browsertest.NewElement("")
	page.Set(pages.CartLocators.QuantityInputs, qty)
	page.Set(pages.CartLocators.UpdateButtons, update)

	c := pages.NewCartPage(env)
	require.NoError(t, c.UpdateQuantity(0, 4))
	assert.Equal(t, "4", qty.CurrentValue())
	assert.Equal(t, 1, update.Clicks())

	require.NoError(t, c.UpdateQuantity(1, 2))
	assert.Equal(t, 1, update.Clicks())
}

func TestLoginPage_InvalidCredentials(t *testing.T) {
	page, env := newEnv(t)
	email := browsertest.NewElement("")
	password := browsertest.NewElement("")
	submit := browsertest.NewElement("")
	submit.OnClick = func() {
		page.Set(pages.LoginLocators.ErrorMessage,
			browsertest.NewElement(" Warning: No match for E-Mail Address and/or Password. "))
	}
	page.Set(pages.LoginLocators.Email, email)
	page.Set(pages.LoginLocators.Password, password)
	page.Set(pages.LoginLocators.LoginButton, submit)

	login := pages.NewLoginPage(env)
	require.True(t, login.IsPageLoaded())
	account, err := login.Login("nobody@example.com", "wrong")
	require.NoError(t, err)

	assert.Equal(t, "nobody@example.com", email.CurrentValue())
	assert.Equal(t, "wrong", password.CurrentValue())
	assert.False(t, account.IsLoggedIn())
	assert.True(t, login.IsErrorDisplayed())
	assert.Equal(t, "Warning: No match for E-Mail Address and/or Password.", login.ErrorMessage())
}

func TestCheckoutPage_CompleteGuestCheckout(t *testing.T) {
	page, env := newEnv(t)
	country := browsertest.NewElement("")
	region := browsertest.NewElement("")
	fields := map[string]*browsertest.Element{}
	for name, loc := range map[string]browser.Locator{
		"first": pages.CheckoutLocators.FirstName,
		"last":  pages.CheckoutLocators.LastName,
		"email": pages.CheckoutLocators.Email,
		"phone": pages.CheckoutLocators.Telephone,
		"addr":  pages.CheckoutLocators.Address1,
		"city":  pages.CheckoutLocators.City,
		"post":  pages.CheckoutLocators.Postcode,
	} {
		fields[name] = browsertest.NewElement("")
		page.Set(loc, fields[name])
	}
	page.Set(pages.CheckoutLocators.Country, country)
	page.Set(pages.CheckoutLocators.Region, region)
	page.Set(pages.CheckoutLocators.GuestCheckoutOption, browsertest.NewElement(""))
	page.Set(pages.CheckoutLocators.ContinueButton, browsertest.NewElement(""))
	page.Set(pages.CheckoutLocators.BillingContinue, browsertest.NewElement(""))
	confirm := browsertest.NewElement("")
	confirm.OnClick = func() {
		page.Set(pages.CheckoutLocators.OrderSuccessMessage, browsertest.NewElement("Your order has been placed!"))
	}
	page.Set(pages.CheckoutLocators.ConfirmOrderButton, confirm)

	checkout := pages.NewCheckoutPage(env)
	require.True(t, checkout.IsPageLoaded())

	ok, err := checkout.CompleteGuestCheckout(pages.BillingDetails{
		FirstName: "Guest",
		LastName:  "User",
		Email:     "guest@example.com",
		Telephone: "1234567890",
		Address:   "123 Test Street",
		City:      "Test City",
		Postcode:  "12345",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "Guest", fields["first"].CurrentValue())
	assert.Equal(t, "12345", fields["post"].CurrentValue())
	assert.Equal(t, "United States", country.Selected)
	assert.Equal(t, "California", region.Selected)
	assert.Equal(t, 1, confirm.Clicks())
}

func TestCheckoutPage_RefusedCheckout(t *testing.T) {
	_, env := newEnv(t)

	checkout := pages.NewCheckoutPage(env)
	assert.False(t, checkout.IsPageLoaded())

	_, err := checkout.CompleteGuestCheckout(pages.BillingDetails{FirstName: "Guest"})
	require.ErrorIs(t, err, wait.ErrTimeout)
	assert.ErrorContains(t, err, "checkout step billing details")
}

func TestEditAccountPage_UpdateAccountKeepsEmptyFields(t *testing.T) {
	page, env := newEnv(t)
	first := &browsertest.Element{Value: "John"}
	last := &browsertest.Element{Value: "Doe"}
	page.Set(pages.EditAccountLocators.FirstName, first)
	page.Set(pages.EditAccountLocators.LastName, last)
	page.Set(pages.EditAccountLocators.ContinueButton, browsertest.NewElement(""))

	edit := pages.NewEditAccountPage(env)
	_, err := edit.UpdateAccount(pages.AccountUpdate{LastName: "Smith"})
	require.NoError(t, err)

	firstName, err := edit.CurrentFirstName()
	require.NoError(t, err)
	assert.Equal(t, "John", firstName)
	lastName, err := edit.CurrentLastName()
	require.NoError(t, err)
	assert.Equal(t, "Smith", lastName)
}

func TestOrderHistoryPage(t *testing.T) {
	page, env := newEnv(t)
	page.Set(pages.OrderHistoryLocators.Heading, browsertest.NewElement("Order History"))
	page.Set(pages.OrderHistoryLocators.OrderRows, browsertest.Texts("", "")...)
	page.Set(pages.OrderHistoryLocators.OrderIDs, browsertest.Texts("#2", "#1")...)
	page.Set(pages.OrderHistoryLocators.OrderStatuses, browsertest.Texts("Pending", "Complete")...)
	view := browsertest.NewElement("")
	page.Set(pages.OrderHistoryLocators.ViewButtons, view, browsertest.NewElement(""))

	history := pages.NewOrderHistoryPage(env)
	require.True(t, history.IsPageLoaded())
	assert.True(t, history.HasOrders())

	ids, err := history.OrderIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"#2", "#1"}, ids)
	statuses, err := history.OrderStatuses()
	require.NoError(t, err)
	assert.Equal(t, []string{"Pending", "Complete"}, statuses)

	require.NoError(t, history.ViewOrder(0))
	assert.Equal(t, 1, view.Clicks())
	assert.Error(t, history.ViewOrder(2))
}

func TestOrderHistoryPage_NoOrders(t *testing.T) {
	page, env := newEnv(t)
	page.Set(pages.OrderHistoryLocators.NoOrders, browsertest.NewElement("You have not made any previous orders!"))

	history := pages.NewOrderHistoryPage(env)
	assert.False(t, history.HasOrders())
	assert.True(t, history.IsNoOrdersMessageDisplayed())
}

func TestHomePage_IsUserLoggedIn(t *testing.T) {
	page, env := newEnv(t)
	menu := browsertest.NewElement("My Account")
	page.Set(pages.HomeLocators.MyAccountDropdown, menu)

	home, err := pages.NewHomePage(env)
	require.NoError(t, err)
	assert.False(t, home.IsUserLoggedIn())

	page.Set(pages.HomeLocators.LogoutLink, browsertest.NewElement("Logout"))
	assert.True(t, home.IsUserLoggedIn())
	assert.Equal(t, 4, menu.Clicks(), "the menu is opened and closed again")
}

func TestContainsFold(t *testing.T) {
	assert.True(t, pages.ContainsFold("Warning: No match for E-Mail Address", "warning", "no match"))
	assert.True(t, pages.ContainsFold("$602.00", "€", "$"))
	assert.False(t, pages.ContainsFold("Success", "warning"))
	assert.False(t, pages.ContainsFold("anything"))
}
