// Package demostore serves a small OpenCart compatible storefront. It keeps the
// markup the page objects target, so the suite can run without network access.
package demostore

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/gofrs/uuid"
	"github.com/samber/lo"
)

// SessionCookie carries the visitor session id.
const SessionCookie = "OCSESSID"

// maxLoginAttempts locks an email address after failed logins.
const maxLoginAttempts = 5

// Order is a placed order.
type Order struct {
	ID int
	// Customer is the email of the account, empty for guest orders.
	Customer  string
	Name      string
	Email     string
	Telephone string
	Address   string
	City      string
	Postcode  string
	Country   string
	Region    string
	Lines     []OrderLine
	Shipping  float64
	Total     float64
	Status    string
	Added     time.Time
}

type OrderLine struct {
	ProductID string
	Name      string
	Model     string
	Quantity  int
	Price     float64
}

// routeHandler serves one route for the visitor of the request. The visitor is locked.
type routeHandler func(w http.ResponseWriter, r *http.Request, v *visitor)

// Server is the demo storefront. Use NewServer and Close when done.
type Server struct {
	catalog       Catalog
	guestCheckout bool
	sessions      *SessionManager
	logger        *slog.Logger
	now           func() time.Time

	mu            sync.Mutex
	customers     map[string]*Customer
	loginAttempts map[string]int
	orders        []Order

	routes map[string]routeHandler
}

func NewServer(opts ...Option) *Server {
	o := serverOptions{
		Customers:     []Customer{DefaultCustomer},
		GuestCheckout: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Catalog == nil {
		o.Catalog = DefaultCatalog()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Now == nil {
		o.Now = time.Now
	}

	s := &Server{
		catalog:       o.Catalog,
		guestCheckout: o.GuestCheckout,
		sessions: NewSessionManager(SessionManagerOptions{
			IdleTimeout: o.SessionIdleTimeout,
			MaxSessions: o.MaxSessions,
			Logger:      o.Logger,
		}),
		logger:        o.Logger,
		now:           o.Now,
		customers:     make(map[string]*Customer),
		loginAttempts: make(map[string]int),
	}
	for _, c := range o.Customers {
		s.customers[emailKey(c.Email)] = &c
	}

	s.routes = map[string]routeHandler{
		"common/home":          s.home,
		"product/search":       s.search,
		"product/product":      s.product,
		"product/compare/add":  s.compareAdd,
		"checkout/cart":        s.cart,
		"checkout/cart/add":    s.cartAdd,
		"checkout/cart/edit":   s.cartEdit,
		"checkout/cart/remove": s.cartRemove,
		"checkout/coupon":      s.coupon,
		"checkout/checkout":    s.checkout,
		"checkout/confirm":     s.confirm,
		"checkout/success":     s.checkoutSuccess,
		"account/login":        s.login,
		"account/logout":       s.logout,
		"account/register":     s.register,
		"account/success":      s.registerSuccess,
		"account/forgotten":    s.forgotten,
		"account/account":      s.requireLogin(s.account),
		"account/edit":         s.requireLogin(s.edit),
		"account/order":        s.requireLogin(s.orderHistory),
		"account/order/info":   s.requireLogin(s.orderInfo),
		"account/wishlist/add": s.wishlistAdd,
	}
	for route, section := range accountSections {
		s.routes[route] = s.requireLogin(s.accountSection(section))
	}

	return s
}

// Close drops all visitor sessions.
func (s *Server) Close() {
	s.sessions.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.php" {
		http.NotFound(w, r)
		return
	}

	v, err := s.visitorFor(w, r)
	if errors.Is(err, ErrTooManySessions) {
		http.Error(w, "Too many visitors, try again later", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	route := lo.CoalesceOrEmpty(r.URL.Query().Get("route"), "common/home")
	s.logger.Debug("Serving request", "method", r.Method, "route", route, "session", v.id.String())

	h, ok := s.routes[route]
	if !ok {
		s.notFound(w, r, v)
		return
	}
	h(w, r, v)
}

// visitorFor returns the session of the request cookie and starts one if needed.
func (s *Server) visitorFor(w http.ResponseWriter, r *http.Request) (*visitor, error) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.FromString(c.Value); err == nil {
			if v := s.sessions.Get(id); v != nil {
				return v, nil
			}
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	v, _, err := s.sessions.GetOrCreate(id)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return v, nil
}

func (s *Server) requireLogin(next routeHandler) routeHandler {
	return func(w http.ResponseWriter, r *http.Request, v *visitor) {
		if v.customer == "" {
			s.redirect(w, r, "account/login")
			return
		}
		next(w, r, v)
	}
}

// Orders returns all placed orders, oldest first.
func (s *Server) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Order(nil), s.orders...)
}

// Customer looks up a registered account by email.
func (s *Server) Customer(email string) (Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[emailKey(email)]
	if !ok {
		return Customer{}, false
	}
	return *c, true
}

func (s *Server) currentCustomer(v *visitor) *Customer {
	if v.customer == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customers[emailKey(v.customer)]
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// link builds a storefront URL for route with query parameters given as name/value pairs.
func link(route string, params ...string) string {
	var b strings.Builder
	b.WriteString("/index.php?route=")
	b.WriteString(route)
	for i := 0; i+1 < len(params); i += 2 {
		b.WriteString("&" + params[i] + "=" + url.QueryEscape(params[i+1]))
	}
	return b.String()
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, route string, params ...string) {
	http.Redirect(w, r, link(route, params...), http.StatusFound)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, v *visitor, status int, title string, body templ.Component) {
	q := r.URL.Query()
	d := layoutData{
		Title:     title,
		Search:    q.Get("search"),
		LoggedIn:  v.customer != "",
		CartTotal: s.cartSummary(v),
		Flashes:   v.takeFlashes(),
	}
	d.Sidebar = d.LoggedIn && strings.HasPrefix(q.Get("route"), "account/")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := layout(d, body).Render(r.Context(), w); err != nil {
		s.logger.Warn("Rendering page failed", "title", title, "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Writing JSON failed", "error", err)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, v *visitor) {
	s.render(w, r, v, http.StatusNotFound, "The page you requested cannot be found!", notFoundView())
}

func isPost(r *http.Request) bool {
	return r.Method == http.MethodPost
}

// methodNotAllowed answers non POST requests to form endpoints.
func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodPost)
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
