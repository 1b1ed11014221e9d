package demostore

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	loginNoMatch    = "Warning: No match for E-Mail Address and/or Password."
	loginLocked     = "Warning: Your account has exceeded allowed number of login attempts. Please try again in 1 hour."
	emailRegistered = "Warning: E-Mail Address is already registered!"
	accountUpdated  = "Success: Your account has been successfully updated."
	checkForm       = "Warning: Please check the form carefully for errors!"
)

type accountSection struct {
	Title string
	Empty string
}

// accountSections are the account pages without own behavior.
var accountSections = map[string]accountSection{
	"account/password":    {"Change Password", "Password changes are disabled in the demo store."},
	"account/address":     {"Address Book Entries", "You have no addresses in your account."},
	"account/wishlist":    {"My Wish List", "Your wish list is empty."},
	"account/download":    {"Account Downloads", "You have not made any previous downloadable orders!"},
	"account/recurring":   {"Recurring Payments", "No recurring payments found!"},
	"account/reward":      {"Your Reward Points", "You do not have any reward points!"},
	"account/return":      {"Product Returns", "You have not made any previous returns!"},
	"account/transaction": {"Your Transactions", "You do not have any transactions!"},
	"account/newsletter":  {"Newsletter Subscription", "Newsletter subscriptions are managed in your account details."},
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, v *visitor) {
	if v.customer != "" {
		s.redirect(w, r, "account/account")
		return
	}
	if !isPost(r) {
		s.render(w, r, v, http.StatusOK, "Account Login", loginView(""))
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	key := emailKey(email)

	s.mu.Lock()
	c, exists := s.customers[key]
	locked := s.loginAttempts[key] >= maxLoginAttempts
	ok := exists && !locked && c.Password == password
	switch {
	case ok:
		delete(s.loginAttempts, key)
	case !locked:
		s.loginAttempts[key]++
	}
	s.mu.Unlock()

	switch {
	case locked:
		v.addFlash("danger", loginLocked)
	case !ok:
		v.addFlash("danger", loginNoMatch)
	}
	if !ok {
		s.logger.Info("Login failed", "email", email, "locked", locked)
		s.render(w, r, v, http.StatusOK, "Account Login", loginView(email))
		return
	}

	v.customer = c.Email
	s.logger.Info("Customer logged in", "email", c.Email, "session", v.id.String())
	s.redirect(w, r, "account/account")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request, v *visitor) {
	if v.customer != "" {
		s.logger.Info("Customer logged out", "email", v.customer, "session", v.id.String())
	}
	v.customer = ""
	v.cart = nil
	s.render(w, r, v, http.StatusOK, "Account Logout", logoutView())
}

type registerForm struct {
	Customer
	Confirm string
	Agree   bool
}

func readRegisterForm(r *http.Request) registerForm {
	f := func(name string) string { return strings.TrimSpace(r.PostFormValue(name)) }
	return registerForm{
		Customer: Customer{
			FirstName:  f("firstname"),
			LastName:   f("lastname"),
			Email:      f("email"),
			Telephone:  f("telephone"),
			Password:   r.PostFormValue("password"),
			Newsletter: f("newsletter") == "1",
		},
		Confirm: r.PostFormValue("confirm"),
		Agree:   f("agree") != "",
	}
}

// fieldErrors maps form field names to their problem.
type fieldErrors map[string]string

func (c Customer) validate() fieldErrors {
	errs := fieldErrors{}
	if !lengthBetween(c.FirstName, 1, 32) {
		errs["firstname"] = "First Name must be between 1 and 32 characters!"
	}
	if !lengthBetween(c.LastName, 1, 32) {
		errs["lastname"] = "Last Name must be between 1 and 32 characters!"
	}
	if !validEmail(c.Email) {
		errs["email"] = "E-Mail Address does not appear to be valid!"
	}
	if !lengthBetween(c.Telephone, 3, 32) {
		errs["telephone"] = "Telephone must be between 3 and 32 characters!"
	}
	return errs
}

func (f registerForm) validate() fieldErrors {
	errs := f.Customer.validate()
	if n := len(f.Password); n < 4 || n > 40 {
		errs["password"] = "Password must be between 4 and 40 characters!"
	}
	if f.Confirm != f.Password {
		errs["confirm"] = "Password confirmation does not match password!"
	}
	return errs
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, v *visitor) {
	if v.customer != "" {
		s.redirect(w, r, "account/account")
		return
	}
	if !isPost(r) {
		s.render(w, r, v, http.StatusOK, "Register Account", registerView(registerForm{}, nil))
		return
	}

	form := readRegisterForm(r)
	errs := form.validate()

	s.mu.Lock()
	_, taken := s.customers[emailKey(form.Email)]
	ok := len(errs) == 0 && !taken && form.Agree
	if ok {
		c := form.Customer
		s.customers[emailKey(c.Email)] = &c
	}
	s.mu.Unlock()

	if !ok {
		switch {
		case taken:
			v.addFlash("danger", emailRegistered)
		case !form.Agree:
			v.addFlash("danger", "Warning: You must agree to the Privacy Policy!")
		default:
			v.addFlash("danger", checkForm)
		}
		s.render(w, r, v, http.StatusOK, "Register Account", registerView(form, errs))
		return
	}

	v.customer = form.Email
	s.logger.Info("Customer registered", "email", form.Email, "newsletter", form.Newsletter)
	s.redirect(w, r, "account/success")
}

func (s *Server) registerSuccess(w http.ResponseWriter, r *http.Request, v *visitor) {
	s.render(w, r, v, http.StatusOK, "Your Account Has Been Created!", registerSuccessView(v.customer != ""))
}

func (s *Server) forgotten(w http.ResponseWriter, r *http.Request, v *visitor) {
	if !isPost(r) {
		s.render(w, r, v, http.StatusOK, "Forgot Your Password?", forgottenView())
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	if _, ok := s.Customer(email); !ok {
		v.addFlash("danger", "Warning: The E-Mail Address was not found in our records, please try again!")
		s.render(w, r, v, http.StatusOK, "Forgot Your Password?", forgottenView())
		return
	}
	v.addFlash("success", "An email with a confirmation link has been sent your email address.")
	s.redirect(w, r, "account/login")
}

func (s *Server) account(w http.ResponseWriter, r *http.Request, v *visitor) {
	s.render(w, r, v, http.StatusOK, "My Account", accountView())
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request, v *visitor) {
	current := s.currentCustomer(v)
	if current == nil {
		v.customer = ""
		s.redirect(w, r, "account/login")
		return
	}
	if !isPost(r) {
		s.render(w, r, v, http.StatusOK, "My Account Information", editView(*current, nil))
		return
	}

	form := readRegisterForm(r).Customer
	errs := form.validate()

	oldKey, newKey := emailKey(v.customer), emailKey(form.Email)
	s.mu.Lock()
	_, taken := s.customers[newKey]
	taken = taken && newKey != oldKey
	ok := len(errs) == 0 && !taken
	if ok {
		c := s.customers[oldKey]
		c.FirstName, c.LastName, c.Email, c.Telephone = form.FirstName, form.LastName, form.Email, form.Telephone
		delete(s.customers, oldKey)
		s.customers[newKey] = c
		for i := range s.orders {
			if emailKey(s.orders[i].Customer) == oldKey {
				s.orders[i].Customer = c.Email
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		if taken {
			v.addFlash("danger", emailRegistered)
		} else {
			v.addFlash("danger", checkForm)
		}
		s.render(w, r, v, http.StatusOK, "My Account Information", editView(form, errs))
		return
	}

	v.customer = form.Email
	v.addFlash("success", accountUpdated)
	s.redirect(w, r, "account/account")
}

// customerOrders returns the orders of the logged in customer, newest first.
func (s *Server) customerOrders(v *visitor) []Order {
	key := emailKey(v.customer)
	s.mu.Lock()
	orders := lo.Filter(s.orders, func(o Order, _ int) bool { return o.Customer != "" && emailKey(o.Customer) == key })
	s.mu.Unlock()
	slices.Reverse(orders)
	return orders
}

func (s *Server) orderHistory(w http.ResponseWriter, r *http.Request, v *visitor) {
	s.render(w, r, v, http.StatusOK, "Order History", orderHistoryView(s.customerOrders(v)))
}

func (s *Server) orderInfo(w http.ResponseWriter, r *http.Request, v *visitor) {
	id, _ := strconv.Atoi(r.URL.Query().Get("order_id"))
	o, ok := lo.Find(s.customerOrders(v), func(o Order) bool { return o.ID == id })
	if !ok {
		s.notFound(w, r, v)
		return
	}
	s.render(w, r, v, http.StatusOK, "Order Information", orderInfoView(o))
}

func (s *Server) accountSection(section accountSection) routeHandler {
	return func(w http.ResponseWriter, r *http.Request, v *visitor) {
		s.render(w, r, v, http.StatusOK, section.Title, accountSectionView(section))
	}
}
