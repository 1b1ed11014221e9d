package pages

import (
	"github.com/networkteam/shopcheck/browser"
)

var RegisterLocators = struct {
	FirstName       browser.Locator
	LastName        browser.Locator
	Email           browser.Locator
	Telephone       browser.Locator
	Password        browser.Locator
	ConfirmPassword browser.Locator
	PrivacyPolicy   browser.Locator
	ContinueButton  browser.Locator
	SuccessMessage  browser.Locator
	ErrorMessage    browser.Locator
	NewsletterYes   browser.Locator
	NewsletterNo    browser.Locator
}{
	FirstName:       browser.ByID("input-firstname"),
	LastName:        browser.ByID("input-lastname"),
	Email:           browser.ByID("input-email"),
	Telephone:       browser.ByID("input-telephone"),
	Password:        browser.ByID("input-password"),
	ConfirmPassword: browser.ByID("input-confirm"),
	PrivacyPolicy:   browser.ByName("agree"),
	ContinueButton:  browser.ByCSS("input[value='Continue']"),
	SuccessMessage:  browser.ByCSS("#content h1"),
	ErrorMessage:    browser.ByCSS(".alert-danger"),
	NewsletterYes:   browser.ByCSS("input[name='newsletter'][value='1']"),
	NewsletterNo:    browser.ByCSS("input[name='newsletter'][value='0']"),
}

// Registration is a new customer account.
type Registration struct {
	FirstName  string
	LastName   string
	Email      string
	Telephone  string
	Password   string
	Newsletter bool
}

type RegisterPage struct {
	BasePage
}

func NewRegisterPage(env Env) *RegisterPage {
	return &RegisterPage{BasePage{env}}
}

// Register fills the form, agrees to the privacy policy and submits it.
func (p *RegisterPage) Register(r Registration) (*AccountPage, error) {
	p.Logger.Info("Registering new user", "email", r.Email)
	fields := []struct {
		loc   browser.Locator
		value string
	}{
		{RegisterLocators.FirstName, r.FirstName},
		{RegisterLocators.LastName, r.LastName},
		{RegisterLocators.Email, r.Email},
		{RegisterLocators.Telephone, r.Telephone},
		{RegisterLocators.Password, r.Password},
		{RegisterLocators.ConfirmPassword, r.Password},
	}
	for _, f := range fields {
		if err := p.Fill(f.loc, f.value); err != nil {
			return nil, err
		}
	}
	newsletter := RegisterLocators.NewsletterNo
	if r.Newsletter {
		newsletter = RegisterLocators.NewsletterYes
	}
	if err := p.Click(newsletter); err != nil {
		return nil, err
	}
	if err := p.Click(RegisterLocators.PrivacyPolicy); err != nil {
		return nil, err
	}
	if err := p.Click(RegisterLocators.ContinueButton); err != nil {
		return nil, err
	}
	return NewAccountPage(p.Env), nil
}

func (p *RegisterPage) SuccessMessage() string {
	return p.optionalText(RegisterLocators.SuccessMessage, pageLoadedTimeout)
}

func (p *RegisterPage) ErrorMessage() string {
	return p.optionalText(RegisterLocators.ErrorMessage, defaultPresenceTimeout)
}

func (p *RegisterPage) IsErrorDisplayed() bool {
	return p.IsElementVisible(RegisterLocators.ErrorMessage, defaultPresenceTimeout)
}

func (p *RegisterPage) IsPageLoaded() bool {
	return p.IsElementVisible(RegisterLocators.FirstName, pageLoadedTimeout)
}
