package pages

import (
	"fmt"

	"github.com/networkteam/shopcheck/browser"
)

var CheckoutLocators = struct {
	GuestCheckoutOption     browser.Locator
	RegisterAccountOption   browser.Locator
	ReturningCustomerOption browser.Locator
	ContinueButton          browser.Locator

	FirstName           browser.Locator
	LastName            browser.Locator
	Email               browser.Locator
	Telephone           browser.Locator
	Address1            browser.Locator
	City                browser.Locator
	Postcode            browser.Locator
	Country             browser.Locator
	Region              browser.Locator
	BillingContinue     browser.Locator
	DeliveryContinue    browser.Locator
	DeliveryMethodNext  browser.Locator
	TermsCheckbox       browser.Locator
	PaymentMethodNext   browser.Locator
	ConfirmOrderButton  browser.Locator
	OrderSuccessMessage browser.Locator
	OrderNumber         browser.Locator
}{
	GuestCheckoutOption:     browser.ByCSS("input[value='guest']"),
	RegisterAccountOption:   browser.ByCSS("input[value='register']"),
	ReturningCustomerOption: browser.ByCSS("input[value='returning']"),
	ContinueButton:          browser.ByID("button-account"),

	FirstName:           browser.ByID("input-payment-firstname"),
	LastName:            browser.ByID("input-payment-lastname"),
	Email:               browser.ByID("input-payment-email"),
	Telephone:           browser.ByID("input-payment-telephone"),
	Address1:            browser.ByID("input-payment-address-1"),
	City:                browser.ByID("input-payment-city"),
	Postcode:            browser.ByID("input-payment-postcode"),
	Country:             browser.ByID("input-payment-country"),
	Region:              browser.ByID("input-payment-zone"),
	BillingContinue:     browser.ByID("button-guest"),
	DeliveryContinue:    browser.ByID("button-shipping-address"),
	DeliveryMethodNext:  browser.ByID("button-shipping-method"),
	TermsCheckbox:       browser.ByName("agree"),
	PaymentMethodNext:   browser.ByID("button-payment-method"),
	ConfirmOrderButton:  browser.ByID("button-confirm"),
	OrderSuccessMessage: browser.ByCSS("#content h1"),
	OrderNumber:         browser.ByCSS("#content p:nth-child(2)"),
}

// BillingDetails is the address entered for a guest checkout.
type BillingDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	// Country defaults to "United States".
	Country string `json:"country"`
	// Region defaults to "California".
	Region string `json:"region"`
}

func (d BillingDetails) withDefaults() BillingDetails {
	if d.Country == "" {
		d.Country = "United States"
	}
	if d.Region == "" {
		d.Region = "California"
	}
	return d
}

// CheckoutPage is the multi step checkout. Each step is only acted on if its
// controls show up, so steps the store skips are passed over.
type CheckoutPage struct {
	BasePage
}

func NewCheckoutPage(env Env) *CheckoutPage {
	return &CheckoutPage{BasePage{env}}
}

// clickIfPresent clicks loc if it appears within the presence timeout.
func (p *CheckoutPage) clickIfPresent(loc browser.Locator) error {
	if !p.IsElementPresent(loc, defaultPresenceTimeout) {
		p.Logger.Debug("Checkout step not offered", "locator", loc.String())
		return nil
	}
	return p.Click(loc)
}

func (p *CheckoutPage) SelectGuestCheckout() error {
	p.Logger.Info("Selecting guest checkout")
	if !p.IsElementPresent(CheckoutLocators.GuestCheckoutOption, defaultPresenceTimeout) {
		return nil
	}
	if err := p.Click(CheckoutLocators.GuestCheckoutOption); err != nil {
		return err
	}
	return p.Click(CheckoutLocators.ContinueButton)
}

func (p *CheckoutPage) FillBillingDetails(d BillingDetails) error {
	d = d.withDefaults()
	p.Logger.Info("Filling billing details", "email", d.Email)
	fields := []struct {
		loc   browser.Locator
		value string
	}{
		{CheckoutLocators.FirstName, d.FirstName},
		{CheckoutLocators.LastName, d.LastName},
		{CheckoutLocators.Email, d.Email},
		{CheckoutLocators.Telephone, d.Telephone},
		{CheckoutLocators.Address1, d.Address},
		{CheckoutLocators.City, d.City},
		{CheckoutLocators.Postcode, d.Postcode},
	}
	for _, f := range fields {
		if err := p.Fill(f.loc, f.value); err != nil {
			return err
		}
	}
	if err := p.SelectByText(CheckoutLocators.Country, d.Country); err != nil {
		return err
	}
	// The region list is reloaded after the country changed.
	if p.IsElementVisible(CheckoutLocators.Region, defaultPresenceTimeout) {
		if err := p.SelectByText(CheckoutLocators.Region, d.Region); err != nil {
			return err
		}
	}
	return p.Click(CheckoutLocators.BillingContinue)
}

func (p *CheckoutPage) ContinueDeliveryDetails() error {
	p.Logger.Info("Continuing delivery details")
	return p.clickIfPresent(CheckoutLocators.DeliveryContinue)
}

func (p *CheckoutPage) ContinueDeliveryMethod() error {
	p.Logger.Info("Continuing delivery method")
	return p.clickIfPresent(CheckoutLocators.DeliveryMethodNext)
}

func (p *CheckoutPage) AcceptTermsAndContinuePayment() error {
	p.Logger.Info("Accepting terms and continuing payment")
	if err := p.clickIfPresent(CheckoutLocators.TermsCheckbox); err != nil {
		return err
	}
	return p.clickIfPresent(CheckoutLocators.PaymentMethodNext)
}

func (p *CheckoutPage) ConfirmOrder() error {
	p.Logger.Info("Confirming order")
	return p.clickIfPresent(CheckoutLocators.ConfirmOrderButton)
}

// IsOrderSuccess reports whether the page heading announces a placed order.
func (p *CheckoutPage) IsOrderSuccess() bool {
	msg := p.optionalText(CheckoutLocators.OrderSuccessMessage, pageLoadedTimeout)
	return ContainsFold(msg, "placed", "success")
}

func (p *CheckoutPage) OrderNumber() string {
	return p.optionalText(CheckoutLocators.OrderNumber, defaultPresenceTimeout)
}

// CompleteGuestCheckout runs all checkout steps and reports whether the order was placed.
func (p *CheckoutPage) CompleteGuestCheckout(d BillingDetails) (bool, error) {
	p.Logger.Info("Starting guest checkout")
	steps := []struct {
		name string
		run  func() error
	}{
		{"select guest checkout", p.SelectGuestCheckout},
		{"billing details", func() error { return p.FillBillingDetails(d) }},
		{"delivery details", p.ContinueDeliveryDetails},
		{"delivery method", p.ContinueDeliveryMethod},
		{"payment method", p.AcceptTermsAndContinuePayment},
		{"confirm order", p.ConfirmOrder},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return false, fmt.Errorf("checkout step %s: %w", s.name, err)
		}
	}
	return p.IsOrderSuccess(), nil
}

func (p *CheckoutPage) IsPageLoaded() bool {
	return p.IsElementPresent(CheckoutLocators.GuestCheckoutOption, pageLoadedTimeout) ||
		p.IsElementPresent(CheckoutLocators.FirstName, pageLoadedTimeout)
}
