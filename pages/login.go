package pages

import (
	"github.com/networkteam/shopcheck/browser"
)

var LoginLocators = struct {
	Email               browser.Locator
	Password            browser.Locator
	LoginButton         browser.Locator
	ForgottenPassword   browser.Locator
	ErrorMessage        browser.Locator
	NewCustomerContinue browser.Locator
}{
	Email:               browser.ByID("input-email"),
	Password:            browser.ByID("input-password"),
	LoginButton:         browser.ByCSS("input[value='Login']"),
	ForgottenPassword:   browser.ByLinkText("Forgotten Password"),
	ErrorMessage:        browser.ByCSS(".alert-danger"),
	NewCustomerContinue: browser.ByLinkText("Continue"),
}

type LoginPage struct {
	BasePage
}

func NewLoginPage(env Env) *LoginPage {
	return &LoginPage{BasePage{env}}
}

// Login submits the credentials. The returned account page is only shown if
// the credentials were accepted; check ErrorMessage otherwise.
func (p *LoginPage) Login(email, password string) (*AccountPage, error) {
	p.Logger.Info("Logging in", "email", email)
	if err := p.Fill(LoginLocators.Email, email); err != nil {
		return nil, err
	}
	if err := p.Fill(LoginLocators.Password, password); err != nil {
		return nil, err
	}
	if err := p.Click(LoginLocators.LoginButton); err != nil {
		return nil, err
	}
	return NewAccountPage(p.Env), nil
}

// ErrorMessage returns the warning alert, or "" if none shows up.
func (p *LoginPage) ErrorMessage() string {
	msg := p.optionalText(LoginLocators.ErrorMessage, defaultPresenceTimeout)
	if msg != "" {
		p.Logger.Info("Login error", "message", msg)
	}
	return msg
}

func (p *LoginPage) IsErrorDisplayed() bool {
	return p.IsElementVisible(LoginLocators.ErrorMessage, defaultPresenceTimeout)
}

func (p *LoginPage) ClickForgottenPassword() error {
	p.Logger.Info("Clicking forgotten password")
	return p.Click(LoginLocators.ForgottenPassword)
}

func (p *LoginPage) GoToRegister() (*RegisterPage, error) {
	p.Logger.Info("Navigating to registration from login")
	if err := p.Click(LoginLocators.NewCustomerContinue); err != nil {
		return nil, err
	}
	return NewRegisterPage(p.Env), nil
}

func (p *LoginPage) IsPageLoaded() bool {
	return p.IsElementVisible(LoginLocators.Email, pageLoadedTimeout)
}
