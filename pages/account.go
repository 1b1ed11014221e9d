package pages

import (
	"fmt"

	"github.com/networkteam/shopcheck/browser"
)

var AccountLocators = struct {
	Heading         browser.Locator
	EditAccount     browser.Locator
	ChangePassword  browser.Locator
	AddressBook     browser.Locator
	Wishlist        browser.Locator
	OrderHistory    browser.Locator
	Downloads       browser.Locator
	RecurringOrders browser.Locator
	RewardPoints    browser.Locator
	Returns         browser.Locator
	Transactions    browser.Locator
	Newsletter      browser.Locator
	Logout          browser.Locator
	SuccessMessage  browser.Locator
}{
	Heading:         browser.ByCSS("#content h2"),
	EditAccount:     browser.ByLinkText("Edit Account"),
	ChangePassword:  browser.ByLinkText("Password"),
	AddressBook:     browser.ByLinkText("Address Book"),
	Wishlist:        browser.ByLinkText("Wish List"),
	OrderHistory:    browser.ByLinkText("Order History"),
	Downloads:       browser.ByLinkText("Downloads"),
	RecurringOrders: browser.ByLinkText("Recurring payments"),
	RewardPoints:    browser.ByLinkText("Reward Points"),
	Returns:         browser.ByLinkText("Returns"),
	Transactions:    browser.ByLinkText("Transactions"),
	Newsletter:      browser.ByLinkText("Newsletter"),
	Logout:          browser.ByLinkText("Logout"),
	SuccessMessage:  browser.ByCSS(".alert-success"),
}

// AccountPage is the "My Account" overview of a logged in customer.
type AccountPage struct {
	BasePage
}

func NewAccountPage(env Env) *AccountPage {
	return &AccountPage{BasePage{env}}
}

func (p *AccountPage) IsLoggedIn() bool {
	return p.IsElementVisible(AccountLocators.EditAccount, defaultPresenceTimeout)
}

func (p *AccountPage) GoToEditAccount() (*EditAccountPage, error) {
	p.Logger.Info("Navigating to edit account")
	if err := p.Click(AccountLocators.EditAccount); err != nil {
		return nil, err
	}
	return NewEditAccountPage(p.Env), nil
}

func (p *AccountPage) GoToOrderHistory() (*OrderHistoryPage, error) {
	p.Logger.Info("Navigating to order history")
	if err := p.Click(AccountLocators.OrderHistory); err != nil {
		return nil, err
	}
	return NewOrderHistoryPage(p.Env), nil
}

func (p *AccountPage) GoToAddressBook() error {
	p.Logger.Info("Navigating to address book")
	return p.Click(AccountLocators.AddressBook)
}

func (p *AccountPage) GoToWishlist() error {
	p.Logger.Info("Navigating to wishlist")
	return p.Click(AccountLocators.Wishlist)
}

func (p *AccountPage) GoToChangePassword() error {
	p.Logger.Info("Navigating to change password")
	return p.Click(AccountLocators.ChangePassword)
}

func (p *AccountPage) Logout() (*HomePage, error) {
	p.Logger.Info("Logging out from account page")
	if err := p.Click(AccountLocators.Logout); err != nil {
		return nil, err
	}
	return NewHomePage(p.Env)
}

func (p *AccountPage) SuccessMessage() string {
	return p.optionalText(AccountLocators.SuccessMessage, defaultPresenceTimeout)
}

func (p *AccountPage) IsSuccessMessageDisplayed() bool {
	return p.IsElementVisible(AccountLocators.SuccessMessage, defaultPresenceTimeout)
}

func (p *AccountPage) IsPageLoaded() bool {
	return p.IsLoggedIn()
}

var EditAccountLocators = struct {
	FirstName      browser.Locator
	LastName       browser.Locator
	Email          browser.Locator
	Telephone      browser.Locator
	ContinueButton browser.Locator
	BackButton     browser.Locator
	SuccessMessage browser.Locator
}{
	FirstName:      browser.ByID("input-firstname"),
	LastName:       browser.ByID("input-lastname"),
	Email:          browser.ByID("input-email"),
	Telephone:      browser.ByID("input-telephone"),
	ContinueButton: browser.ByCSS("input[value='Continue']"),
	BackButton:     browser.ByLinkText("Back"),
	SuccessMessage: browser.ByCSS(".alert-success"),
}

// AccountUpdate holds the account fields to change. Empty fields keep their value.
type AccountUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Telephone string
}

type EditAccountPage struct {
	BasePage
}

func NewEditAccountPage(env Env) *EditAccountPage {
	return &EditAccountPage{BasePage{env}}
}

func (p *EditAccountPage) UpdateAccount(u AccountUpdate) (*AccountPage, error) {
	p.Logger.Info("Updating account information")
	fields := []struct {
		loc   browser.Locator
		value string
	}{
		{EditAccountLocators.FirstName, u.FirstName},
		{EditAccountLocators.LastName, u.LastName},
		{EditAccountLocators.Email, u.Email},
		{EditAccountLocators.Telephone, u.Telephone},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := p.Fill(f.loc, f.value); err != nil {
			return nil, err
		}
	}
	if err := p.Click(EditAccountLocators.ContinueButton); err != nil {
		return nil, err
	}
	return NewAccountPage(p.Env), nil
}

func (p *EditAccountPage) CurrentFirstName() (string, error) {
	return p.AttributeOf(EditAccountLocators.FirstName, "value")
}

func (p *EditAccountPage) CurrentLastName() (string, error) {
	return p.AttributeOf(EditAccountLocators.LastName, "value")
}

func (p *EditAccountPage) CurrentEmail() (string, error) {
	return p.AttributeOf(EditAccountLocators.Email, "value")
}

func (p *EditAccountPage) CurrentTelephone() (string, error) {
	return p.AttributeOf(EditAccountLocators.Telephone, "value")
}

func (p *EditAccountPage) GoBack() (*AccountPage, error) {
	if err := p.Click(EditAccountLocators.BackButton); err != nil {
		return nil, err
	}
	return NewAccountPage(p.Env), nil
}

func (p *EditAccountPage) IsPageLoaded() bool {
	return p.IsElementVisible(EditAccountLocators.FirstName, pageLoadedTimeout)
}

var OrderHistoryLocators = struct {
	Heading        browser.Locator
	OrderRows      browser.Locator
	OrderIDs       browser.Locator
	OrderDates     browser.Locator
	OrderStatuses  browser.Locator
	OrderTotals    browser.Locator
	ViewButtons    browser.Locator
	NoOrders       browser.Locator
	ContinueButton browser.Locator
}{
	Heading:        browser.ByCSS("#content h1"),
	OrderRows:      browser.ByCSS(".table-responsive tbody tr"),
	OrderIDs:       browser.ByCSS(".table-responsive tbody tr td:nth-child(1)"),
	OrderDates:     browser.ByCSS(".table-responsive tbody tr td:nth-child(3)"),
	OrderStatuses:  browser.ByCSS(".table-responsive tbody tr td:nth-child(4)"),
	OrderTotals:    browser.ByCSS(".table-responsive tbody tr td:nth-child(5)"),
	ViewButtons:    browser.ByCSS("a[data-original-title='View']"),
	NoOrders:       browser.ByCSS("#content p"),
	ContinueButton: browser.ByLinkText("Continue"),
}

type OrderHistoryPage struct {
	BasePage
}

func NewOrderHistoryPage(env Env) *OrderHistoryPage {
	return &OrderHistoryPage{BasePage{env}}
}

func (p *OrderHistoryPage) OrdersCount() int {
	n := p.count(OrderHistoryLocators.OrderRows)
	p.Logger.Info("Orders in history", "count", n)
	return n
}

func (p *OrderHistoryPage) OrderIDs() ([]string, error) {
	return p.texts(OrderHistoryLocators.OrderIDs)
}

func (p *OrderHistoryPage) OrderDates() ([]string, error) {
	return p.texts(OrderHistoryLocators.OrderDates)
}

func (p *OrderHistoryPage) OrderStatuses() ([]string, error) {
	return p.texts(OrderHistoryLocators.OrderStatuses)
}

func (p *OrderHistoryPage) OrderTotals() ([]string, error) {
	return p.texts(OrderHistoryLocators.OrderTotals)
}

// ViewOrder opens the details of the order at index.
func (p *OrderHistoryPage) ViewOrder(index int) error {
	p.Logger.Info("Viewing order", "index", index)
	if n := p.count(OrderHistoryLocators.ViewButtons); index < 0 || index >= n {
		return fmt.Errorf("order history has %d orders, no index %d", n, index)
	}
	return p.clickNth(OrderHistoryLocators.ViewButtons, index)
}

func (p *OrderHistoryPage) HasOrders() bool {
	return p.OrdersCount() > 0
}

func (p *OrderHistoryPage) IsNoOrdersMessageDisplayed() bool {
	msg := p.optionalText(OrderHistoryLocators.NoOrders, defaultPresenceTimeout)
	return ContainsFold(msg, "no orders", "not made")
}

func (p *OrderHistoryPage) ContinueToAccount() (*AccountPage, error) {
	if err := p.Click(OrderHistoryLocators.ContinueButton); err != nil {
		return nil, err
	}
	return NewAccountPage(p.Env), nil
}

func (p *OrderHistoryPage) IsPageLoaded() bool {
	return p.IsElementVisible(OrderHistoryLocators.Heading, pageLoadedTimeout)
}
