package demostore

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

const flatShippingRate = 5.0

type zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type country struct {
	ID    string
	Name  string
	Zones []zone
}

const defaultCountryID = "223"

var countries = []country{
	{ID: "81", Name: "Germany", Zones: []zone{{"1256", "Bayern"}, {"1257", "Berlin"}, {"1260", "Hamburg"}}},
	{ID: "222", Name: "United Kingdom", Zones: []zone{{"3513", "Greater London"}, {"3535", "Kent"}, {"3600", "Merseyside"}}},
	{ID: "223", Name: "United States", Zones: []zone{{"3613", "Alabama"}, {"3624", "California"}, {"3655", "New York"}, {"3669", "Texas"}}},
}

func findCountry(id string) (country, bool) {
	return lo.Find(countries, func(c country) bool { return c.ID == id })
}

// checkoutForm is the posted checkout form.
type checkoutForm struct {
	Account   string
	FirstName string
	LastName  string
	Email     string
	Telephone string
	Address   string
	City      string
	Postcode  string
	CountryID string
	ZoneID    string
	Agree     bool
}

func readCheckoutForm(r *http.Request) checkoutForm {
	f := func(name string) string { return strings.TrimSpace(r.PostFormValue(name)) }
	return checkoutForm{
		Account:   f("account"),
		FirstName: f("firstname"),
		LastName:  f("lastname"),
		Email:     f("email"),
		Telephone: f("telephone"),
		Address:   f("address_1"),
		City:      f("city"),
		Postcode:  f("postcode"),
		CountryID: f("country_id"),
		ZoneID:    f("zone_id"),
		Agree:     f("agree") != "",
	}
}

func lengthBetween(s string, lower, upper int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= lower && n <= upper
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}

// validate returns the problems of the address part of the form.
func (f checkoutForm) validate() []string {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}
	check(lengthBetween(f.FirstName, 1, 32), "First Name must be between 1 and 32 characters!")
	check(lengthBetween(f.LastName, 1, 32), "Last Name must be between 1 and 32 characters!")
	check(validEmail(f.Email), "E-Mail address does not appear to be valid!")
	check(lengthBetween(f.Telephone, 3, 32), "Telephone must be between 3 and 32 characters!")
	check(lengthBetween(f.Address, 3, 128), "Address 1 must be between 3 and 128 characters!")
	check(lengthBetween(f.City, 2, 128), "City must be between 2 and 128 characters!")
	check(lengthBetween(f.Postcode, 2, 10), "Postcode must be between 2 and 10 characters!")

	c, ok := findCountry(f.CountryID)
	check(ok, "Please select a country!")
	if ok {
		_, zoneOK := lo.Find(c.Zones, func(z zone) bool { return z.ID == f.ZoneID })
		check(zoneOK, "Please select a region / state!")
	}
	return problems
}

type checkoutData struct {
	LoggedIn      bool
	GuestCheckout bool
	Customer      Customer
	Rows          []cartRow
	SubTotal      float64
	Shipping      float64
	Total         float64
}

// checkoutBlocked redirects to the cart if the cart cannot be checked out.
func (s *Server) checkoutBlocked(w http.ResponseWriter, r *http.Request, rows []cartRow) bool {
	if len(rows) == 0 || lo.SomeBy(rows, func(r cartRow) bool { return !r.Product.InStock }) {
		s.redirect(w, r, "checkout/cart")
		return true
	}
	return false
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request, v *visitor) {
	rows := s.cartRows(v)
	if s.checkoutBlocked(w, r, rows) {
		return
	}
	d := checkoutData{
		LoggedIn:      v.customer != "",
		GuestCheckout: s.guestCheckout,
		Rows:          rows,
		SubTotal:      subTotal(rows),
		Shipping:      flatShippingRate,
	}
	d.Total = d.SubTotal + d.Shipping
	if c := s.currentCustomer(v); c != nil {
		d.Customer = *c
	}
	s.render(w, r, v, http.StatusOK, "Checkout", checkoutView(d))
}

func (s *Server) confirm(w http.ResponseWriter, r *http.Request, v *visitor) {
	if !isPost(r) {
		methodNotAllowed(w)
		return
	}
	rows := s.cartRows(v)
	if s.checkoutBlocked(w, r, rows) {
		return
	}

	form := readCheckoutForm(r)
	var problems []string
	if v.customer == "" && (form.Account != "guest" || !s.guestCheckout) {
		problems = append(problems, "Warning: Please login or register to check out!")
	}
	problems = append(problems, form.validate()...)
	if !form.Agree {
		problems = append(problems, "Warning: You must agree to the Terms & Conditions!")
	}
	if len(problems) > 0 {
		for _, p := range problems {
			v.addFlash("danger", p)
		}
		s.redirect(w, r, "checkout/checkout")
		return
	}

	c, _ := findCountry(form.CountryID)
	z, _ := lo.Find(c.Zones, func(z zone) bool { return z.ID == form.ZoneID })
	order := Order{
		Customer:  v.customer,
		Name:      form.FirstName + " " + form.LastName,
		Email:     form.Email,
		Telephone: form.Telephone,
		Address:   form.Address,
		City:      form.City,
		Postcode:  form.Postcode,
		Country:   c.Name,
		Region:    z.Name,
		Lines: lo.Map(rows, func(r cartRow, _ int) OrderLine {
			return OrderLine{ProductID: r.Product.ID, Name: r.Product.Name, Model: r.Product.Model, Quantity: r.Quantity, Price: r.Product.Price}
		}),
		Shipping: flatShippingRate,
		Total:    subTotal(rows) + flatShippingRate,
		Status:   "Pending",
		Added:    s.now(),
	}

	s.mu.Lock()
	order.ID = len(s.orders) + 1
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	v.cart = nil
	v.lastOrder = order.ID
	s.logger.Info("Order placed", "order", order.ID, "customer", lo.CoalesceOrEmpty(order.Customer, "guest"), "total", order.Total)
	s.redirect(w, r, "checkout/success")
}

func (s *Server) checkoutSuccess(w http.ResponseWriter, r *http.Request, v *visitor) {
	s.render(w, r, v, http.StatusOK, "Your order has been placed!", checkoutSuccessView(v.lastOrder, v.customer != ""))
}
