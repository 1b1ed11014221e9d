package pages

import (
	"strconv"

	"github.com/networkteam/shopcheck/browser"
)

var ProductLocators = struct {
	Name           browser.Locator
	Price          browser.Locator
	QuantityInput  browser.Locator
	AddToCart      browser.Locator
	SuccessMessage browser.Locator
	Description    browser.Locator
	Image          browser.Locator
	WishlistButton browser.Locator
	CompareButton  browser.Locator
	Availability   browser.Locator
}{
	Name:           browser.ByCSS("h1"),
	Price:          browser.ByCSS("h2"),
	QuantityInput:  browser.ByID("input-quantity"),
	AddToCart:      browser.ByID("button-cart"),
	SuccessMessage: browser.ByCSS(".alert-success"),
	Description:    browser.ByID("tab-description"),
	Image:          browser.ByCSS(".thumbnail"),
	WishlistButton: browser.ByCSS("button[onclick*='wishlist.add']"),
	CompareButton:  browser.ByCSS("button[onclick*='compare.add']"),
	Availability:   browser.ByCSS("ul.list-unstyled li:nth-child(1)"),
}

type ProductPage struct {
	BasePage
}

func NewProductPage(env Env) *ProductPage {
	return &ProductPage{BasePage{env}}
}

func (p *ProductPage) Name() (string, error) {
	name, err := p.TextOf(ProductLocators.Name)
	if err != nil {
		return "", err
	}
	p.Logger.Info("Product name", "name", name)
	return name, nil
}

func (p *ProductPage) Price() (string, error) {
	return p.TextOf(ProductLocators.Price)
}

func (p *ProductPage) SetQuantity(quantity int) error {
	p.Logger.Info("Setting quantity", "quantity", quantity)
	return p.Fill(ProductLocators.QuantityInput, strconv.Itoa(quantity))
}

// AddToCart submits the product with the given quantity and reports whether the
// success alert appeared. The quantity field is only touched for quantities above one.
func (p *ProductPage) AddToCart(quantity int) (bool, error) {
	p.Logger.Info("Adding product to cart", "quantity", quantity)
	if quantity > 1 {
		if err := p.SetQuantity(quantity); err != nil {
			return false, err
		}
	}
	if err := p.Click(ProductLocators.AddToCart); err != nil {
		return false, err
	}
	return p.IsSuccessMessageDisplayed(), nil
}

func (p *ProductPage) IsSuccessMessageDisplayed() bool {
	return p.IsElementVisible(ProductLocators.SuccessMessage, defaultPresenceTimeout)
}

func (p *ProductPage) SuccessMessage() string {
	return p.optionalText(ProductLocators.SuccessMessage, defaultPresenceTimeout)
}

func (p *ProductPage) AddToWishlist() error {
	p.Logger.Info("Adding product to wishlist")
	return p.Click(ProductLocators.WishlistButton)
}

func (p *ProductPage) AddToCompare() error {
	p.Logger.Info("Adding product to compare")
	return p.Click(ProductLocators.CompareButton)
}

func (p *ProductPage) Availability() (string, error) {
	return p.TextOf(ProductLocators.Availability)
}

func (p *ProductPage) IsPageLoaded() bool {
	return p.IsElementVisible(ProductLocators.Name, pageLoadedTimeout)
}
