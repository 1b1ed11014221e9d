package pages

import (
	"github.com/networkteam/shopcheck/browser"
)

// HomeLocators are the elements of the storefront header and home page.
var HomeLocators = struct {
	Logo              browser.Locator
	SearchInput       browser.Locator
	SearchButton      browser.Locator
	MyAccountDropdown browser.Locator
	LoginLink         browser.Locator
	RegisterLink      browser.Locator
	LogoutLink        browser.Locator
	ShoppingCartLink  browser.Locator
	CheckoutLink      browser.Locator
	FeaturedProducts  browser.Locator
	CurrencyDropdown  browser.Locator
	AccountLink       browser.Locator
}{
	Logo:              browser.ByCSS("#logo a"),
	SearchInput:       browser.ByName("search"),
	SearchButton:      browser.ByCSS("button.btn-default"),
	MyAccountDropdown: browser.ByCSS("a[title='My Account']"),
	LoginLink:         browser.ByLinkText("Login"),
	RegisterLink:      browser.ByLinkText("Register"),
	LogoutLink:        browser.ByLinkText("Logout"),
	ShoppingCartLink:  browser.ByCSS("a[title='Shopping Cart']"),
	CheckoutLink:      browser.ByLinkText("Checkout"),
	FeaturedProducts:  browser.ByCSS(".product-layout"),
	CurrencyDropdown:  browser.ByCSS("button.dropdown-toggle"),
	AccountLink:       browser.ByLinkText("My Account"),
}

// HomePage is the storefront landing page. The header actions work from every page.
type HomePage struct {
	BasePage
}

// NewHomePage opens the home page.
func NewHomePage(env Env) (*HomePage, error) {
	p := &HomePage{BasePage{env}}
	if err := p.NavigateTo("/"); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *HomePage) SearchProduct(name string) (*SearchResultsPage, error) {
	p.Logger.Info("Searching for product", "name", name)
	if err := p.Fill(HomeLocators.SearchInput, name); err != nil {
		return nil, err
	}
	if err := p.Click(HomeLocators.SearchButton); err != nil {
		return nil, err
	}
	return NewSearchResultsPage(p.Env), nil
}

func (p *HomePage) clickMyAccount() error {
	return p.Click(HomeLocators.MyAccountDropdown)
}

func (p *HomePage) GoToLogin() (*LoginPage, error) {
	p.Logger.Info("Navigating to login page")
	if err := p.clickMyAccount(); err != nil {
		return nil, err
	}
	if err := p.Click(HomeLocators.LoginLink); err != nil {
		return nil, err
	}
	return NewLoginPage(p.Env), nil
}

func (p *HomePage) GoToRegister() (*RegisterPage, error) {
	p.Logger.Info("Navigating to registration page")
	if err := p.clickMyAccount(); err != nil {
		return nil, err
	}
	if err := p.Click(HomeLocators.RegisterLink); err != nil {
		return nil, err
	}
	return NewRegisterPage(p.Env), nil
}

func (p *HomePage) GoToShoppingCart() (*CartPage, error) {
	p.Logger.Info("Navigating to shopping cart")
	if err := p.Click(HomeLocators.ShoppingCartLink); err != nil {
		return nil, err
	}
	return NewCartPage(p.Env), nil
}

func (p *HomePage) GoToMyAccount() (*AccountPage, error) {
	p.Logger.Info("Navigating to My Account page")
	if err := p.clickMyAccount(); err != nil {
		return nil, err
	}
	if err := p.Click(HomeLocators.AccountLink); err != nil {
		return nil, err
	}
	return NewAccountPage(p.Env), nil
}

// Logout logs out through the header menu and reopens the home page.
func (p *HomePage) Logout() (*HomePage, error) {
	p.Logger.Info("Logging out")
	if err := p.clickMyAccount(); err != nil {
		return nil, err
	}
	if err := p.Click(HomeLocators.LogoutLink); err != nil {
		return nil, err
	}
	return NewHomePage(p.Env)
}

// IsUserLoggedIn opens the account menu, looks for the logout link and closes the menu again.
func (p *HomePage) IsUserLoggedIn() bool {
	if err := p.clickMyAccount(); err != nil {
		p.Logger.Error("Error checking login status", "error", err)
		return false
	}
	loggedIn := p.IsElementVisible(HomeLocators.LogoutLink, loginCheckTimeout)
	if err := p.clickMyAccount(); err != nil {
		p.Logger.Warn("Closing account menu failed", "error", err)
	}
	return loggedIn
}

func (p *HomePage) FeaturedProductsCount() int {
	n := p.count(HomeLocators.FeaturedProducts)
	p.Logger.Info("Found featured products", "count", n)
	return n
}

func (p *HomePage) IsPageLoaded() bool {
	return p.IsElementVisible(HomeLocators.Logo, pageLoadedTimeout)
}
