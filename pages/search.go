package pages

import (
	"errors"

	"github.com/networkteam/shopcheck/browser"
)

// ErrNoProducts is returned when a product list is empty.
var ErrNoProducts = errors.New("no products found")

var SearchResultsLocators = struct {
	ProductItems     browser.Locator
	ProductNames     browser.Locator
	ProductPrices    browser.Locator
	AddToCartButtons browser.Locator
	NoResultsMessage browser.Locator
	SortDropdown     browser.Locator
	LimitDropdown    browser.Locator
	GridViewButton   browser.Locator
	ListViewButton   browser.Locator
	SuccessMessage   browser.Locator
}{
	ProductItems:     browser.ByCSS(".product-layout"),
	ProductNames:     browser.ByCSS(".product-layout h4 a"),
	ProductPrices:    browser.ByCSS(".product-layout .price"),
	AddToCartButtons: browser.ByCSS("button[onclick*='cart.add']"),
	NoResultsMessage: browser.ByCSS("#content p"),
	SortDropdown:     browser.ByID("input-sort"),
	LimitDropdown:    browser.ByID("input-limit"),
	GridViewButton:   browser.ByID("grid-view"),
	ListViewButton:   browser.ByID("list-view"),
	SuccessMessage:   browser.ByCSS(".alert-success"),
}

type SearchResultsPage struct {
	BasePage
}

func NewSearchResultsPage(env Env) *SearchResultsPage {
	return &SearchResultsPage{BasePage{env}}
}

func (p *SearchResultsPage) ProductCount() int {
	n := p.count(SearchResultsLocators.ProductItems)
	p.Logger.Info("Found products in search results", "count", n)
	return n
}

func (p *SearchResultsPage) ProductNames() ([]string, error) {
	names, err := p.texts(SearchResultsLocators.ProductNames)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("Product names", "names", names)
	return names, nil
}

func (p *SearchResultsPage) ClickProductByName(name string) (*ProductPage, error) {
	p.Logger.Info("Clicking product", "name", name)
	if err := p.Click(browser.ByLinkText(name)); err != nil {
		return nil, err
	}
	return NewProductPage(p.Env), nil
}

func (p *SearchResultsPage) ClickFirstProduct() (*ProductPage, error) {
	p.Logger.Info("Clicking first product")
	if p.count(SearchResultsLocators.ProductNames) == 0 {
		return nil, ErrNoProducts
	}
	if err := p.clickNth(SearchResultsLocators.ProductNames, 0); err != nil {
		return nil, err
	}
	return NewProductPage(p.Env), nil
}

// AddFirstProductToCart clicks the first add-to-cart button of the list and
// reports whether the success alert appeared.
func (p *SearchResultsPage) AddFirstProductToCart() (bool, error) {
	p.Logger.Info("Adding first product to cart")
	if p.count(SearchResultsLocators.AddToCartButtons) == 0 {
		return false, nil
	}
	if err := p.clickNth(SearchResultsLocators.AddToCartButtons, 0); err != nil {
		return false, err
	}
	return p.IsSuccessMessageDisplayed(), nil
}

func (p *SearchResultsPage) IsSuccessMessageDisplayed() bool {
	return p.IsElementVisible(SearchResultsLocators.SuccessMessage, defaultPresenceTimeout)
}

func (p *SearchResultsPage) SuccessMessage() string {
	return p.optionalText(SearchResultsLocators.SuccessMessage, defaultPresenceTimeout)
}

// IsNoResultsDisplayed reports whether the page says no product matched.
func (p *SearchResultsPage) IsNoResultsDisplayed() bool {
	msg, err := p.TextOf(SearchResultsLocators.NoResultsMessage)
	if err != nil {
		return false
	}
	return ContainsFold(msg, "no product")
}

func (p *SearchResultsPage) SortBy(option string) error {
	p.Logger.Info("Sorting", "option", option)
	return p.SelectByText(SearchResultsLocators.SortDropdown, option)
}

func (p *SearchResultsPage) IsPageLoaded() bool {
	return p.IsElementPresent(SearchResultsLocators.ProductItems, pageLoadedTimeout) ||
		p.IsElementPresent(SearchResultsLocators.NoResultsMessage, pageLoadedTimeout)
}
