package demostore

import (
	"log/slog"
	"time"
)

// Customer is a registered account of the demo store.
type Customer struct {
	FirstName  string
	LastName   string
	Email      string
	Telephone  string
	Password   string
	Newsletter bool
}

// DefaultCustomer matches the valid user of the repository test data.
var DefaultCustomer = Customer{
	FirstName: "Test",
	LastName:  "User",
	Email:     "test.user@example.com",
	Telephone: "1234567890",
	Password:  "Test@12345",
}

// serverOptions holds configuration for a Server.
// This is unexported; use Option functions to configure.
type serverOptions struct {
	// Customers are registered when the server starts.
	Customers []Customer
	// Catalog is the product list, DefaultCatalog if nil.
	Catalog Catalog
	// SessionIdleTimeout is how long a visitor session lives without requests.
	SessionIdleTimeout time.Duration
	// MaxSessions is the maximum number of concurrent visitor sessions (0 = unlimited).
	MaxSessions int
	// GuestCheckout allows checking out without an account.
	GuestCheckout bool
	Logger        *slog.Logger
	Now           func() time.Time
}

// Option configures a Server.
type Option func(*serverOptions)

// WithCustomers registers accounts in addition to DefaultCustomer.
func WithCustomers(customers ...Customer) Option {
	return func(o *serverOptions) {
		o.Customers = append(o.Customers, customers...)
	}
}

// WithCatalog replaces the default sample products.
func WithCatalog(c Catalog) Option {
	return func(o *serverOptions) {
		o.Catalog = c
	}
}

// WithSessionIdleTimeout sets how long an inactive visitor keeps its cart and login.
// Default is 30 minutes if not specified.
func WithSessionIdleTimeout(timeout time.Duration) Option {
	return func(o *serverOptions) {
		o.SessionIdleTimeout = timeout
	}
}

// WithMaxSessions sets the maximum number of concurrent visitor sessions.
// Default is 0 (unlimited).
func WithMaxSessions(limit int) Option {
	return func(o *serverOptions) {
		o.MaxSessions = limit
	}
}

// WithGuestCheckout enables or disables checkout without an account.
// It is enabled by default.
func WithGuestCheckout(enabled bool) Option {
	return func(o *serverOptions) {
		o.GuestCheckout = enabled
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *serverOptions) {
		o.Logger = logger
	}
}

// WithClock sets the time source for order dates.
func WithClock(now func() time.Time) Option {
	return func(o *serverOptions) {
		o.Now = now
	}
}
