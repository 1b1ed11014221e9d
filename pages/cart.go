package pages

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/networkteam/shopcheck/browser"
)

var CartLocators = struct {
	CartItems              browser.Locator
	ProductNames           browser.Locator
	ProductPrices          browser.Locator
	QuantityInputs         browser.Locator
	UpdateButtons          browser.Locator
	RemoveButtons          browser.Locator
	CheckoutButton         browser.Locator
	ContinueShoppingButton browser.Locator
	TotalPrice             browser.Locator
	EmptyCartMessage       browser.Locator
	CouponInput            browser.Locator
	ApplyCouponButton      browser.Locator
}{
	CartItems:              browser.ByCSS(".table-responsive tbody tr"),
	ProductNames:           browser.ByCSS(".table-responsive tbody tr td:nth-child(2) a"),
	ProductPrices:          browser.ByCSS(".table-responsive tbody tr td:nth-child(5)"),
	QuantityInputs:         browser.ByCSS("input[name^='quantity']"),
	UpdateButtons:          browser.ByCSS("button[data-original-title='Update']"),
	RemoveButtons:          browser.ByCSS("button[data-original-title='Remove']"),
	CheckoutButton:         browser.ByLinkText("Checkout"),
	ContinueShoppingButton: browser.ByLinkText("Continue Shopping"),
	TotalPrice:             browser.ByCSS(".table-responsive tfoot tr:last-child td:last-child"),
	EmptyCartMessage:       browser.ByCSS("#content p"),
	CouponInput:            browser.ByID("input-coupon"),
	ApplyCouponButton:      browser.ByID("button-coupon"),
}

type CartPage struct {
	BasePage
}

func NewCartPage(env Env) *CartPage {
	return &CartPage{BasePage{env}}
}

func (p *CartPage) ItemsCount() int {
	n := p.count(CartLocators.CartItems)
	p.Logger.Info("Cart items", "count", n)
	return n
}

func (p *CartPage) ProductNames() ([]string, error) {
	names, err := p.texts(CartLocators.ProductNames)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("Products in cart", "names", names)
	return names, nil
}

// IsProductInCart reports whether a cart row is named exactly name.
func (p *CartPage) IsProductInCart(name string) bool {
	names, err := p.ProductNames()
	if err != nil {
		p.Logger.Warn("Reading cart product names failed", "error", err)
		return false
	}
	return lo.Contains(names, name)
}

// UpdateQuantity sets the quantity of the row at index and submits it.
// Indexes outside the cart are ignored.
func (p *CartPage) UpdateQuantity(index, quantity int) error {
	p.Logger.Info("Updating quantity", "index", index, "quantity", quantity)
	inputs, err := p.Wait.All(CartLocators.QuantityInputs)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(inputs) {
		return nil
	}
	input := inputs[index]
	if err := input.Clear(); err != nil {
		return fmt.Errorf("clearing quantity %d: %w", index, err)
	}
	if err := input.Type(strconv.Itoa(quantity)); err != nil {
		return fmt.Errorf("typing quantity %d: %w", index, err)
	}
	if err := p.clickNth(CartLocators.UpdateButtons, index); err != nil {
		return err
	}
	p.WaitForPageLoad()
	return nil
}

// RemoveProduct removes the row at index and waits until the cart shrank.
// Indexes outside the cart are ignored.
func (p *CartPage) RemoveProduct(index int) error {
	p.Logger.Info("Removing product", "index", index)
	before := p.count(CartLocators.RemoveButtons)
	if index < 0 || index >= before {
		return nil
	}
	rows := p.count(CartLocators.CartItems)
	if err := p.clickNth(CartLocators.RemoveButtons, index); err != nil {
		return err
	}
	return p.Wait.Until(fmt.Sprintf("cart to shrink below %d rows", rows), func() (bool, error) {
		els, err := p.Wait.All(CartLocators.CartItems)
		if err != nil {
			return false, err
		}
		return len(els) < rows, nil
	}, p.capped(pageLoadedTimeout))
}

// RemoveAllProducts removes rows until the cart is empty. It stops with an error
// once a row has no remove button.
func (p *CartPage) RemoveAllProducts() error {
	p.Logger.Info("Removing all products from cart")
	for n := p.ItemsCount(); n > 0; {
		if err := p.RemoveProduct(0); err != nil {
			return err
		}
		next := p.ItemsCount()
		if next >= n {
			return fmt.Errorf("cart still has %d rows after removing", next)
		}
		n = next
	}
	return nil
}

func (p *CartPage) TotalPrice() (string, error) {
	price, err := p.TextOf(CartLocators.TotalPrice)
	if err != nil {
		return "", err
	}
	p.Logger.Info("Total cart price", "price", price)
	return price, nil
}

func (p *CartPage) ProceedToCheckout() (*CheckoutPage, error) {
	p.Logger.Info("Proceeding to checkout")
	if err := p.Click(CartLocators.CheckoutButton); err != nil {
		return nil, err
	}
	return NewCheckoutPage(p.Env), nil
}

func (p *CartPage) ContinueShopping() (*HomePage, error) {
	p.Logger.Info("Continuing shopping")
	if err := p.Click(CartLocators.ContinueShoppingButton); err != nil {
		return nil, err
	}
	return NewHomePage(p.Env)
}

// IsCartEmpty trusts the empty cart message and falls back to counting rows.
func (p *CartPage) IsCartEmpty() bool {
	msg, err := p.Wait.GetText(CartLocators.EmptyCartMessage, p.capped(defaultPresenceTimeout))
	if err != nil {
		return p.ItemsCount() == 0
	}
	return ContainsFold(msg, "empty")
}

func (p *CartPage) ApplyCoupon(code string) error {
	p.Logger.Info("Applying coupon", "code", code)
	if err := p.Fill(CartLocators.CouponInput, code); err != nil {
		return err
	}
	return p.Click(CartLocators.ApplyCouponButton)
}

func (p *CartPage) IsPageLoaded() bool {
	return p.IsElementPresent(CartLocators.CartItems, pageLoadedTimeout) ||
		p.IsElementPresent(CartLocators.EmptyCartMessage, pageLoadedTimeout)
}
