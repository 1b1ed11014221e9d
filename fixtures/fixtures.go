// Package fixtures loads the read-only test data: users and product search terms.
package fixtures

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/networkteam/shopcheck/pages"
)

const (
	UsersFile    = "test_users.json"
	ProductsFile = "products.json"
)

type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Password  string `json:"password"`

	// Address fields are only set for the guest user.
	Address  string `json:"address"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
	Region   string `json:"region"`
}

// Billing returns the user as checkout billing details.
func (u User) Billing() pages.BillingDetails {
	return pages.BillingDetails{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Telephone: u.Telephone,
		Address:   u.Address,
		City:      u.City,
		Postcode:  u.Postcode,
		Country:   u.Country,
		Region:    u.Region,
	}
}

type Users struct {
	Valid   User `json:"valid_user"`
	Invalid User `json:"invalid_user"`
	Guest   User `json:"guest_user"`
}

type SearchTerms struct {
	Valid   []string `json:"valid"`
	Invalid []string `json:"invalid"`
}

type Products struct {
	SearchTerms SearchTerms `json:"search_terms"`
}

// Data is the loaded test data.
type Data struct {
	Users    Users
	Products Products

	doc string
}

// Load reads both data files from dir.
func Load(fsys afero.Fs, dir string) (*Data, error) {
	d := &Data{}
	users, err := readJSON(fsys, path.Join(dir, UsersFile), &d.Users)
	if err != nil {
		return nil, err
	}
	productsPath := path.Join(dir, ProductsFile)
	products, err := readJSON(fsys, productsPath, &d.Products)
	if err != nil {
		return nil, err
	}
	if len(d.Products.SearchTerms.Valid) == 0 || len(d.Products.SearchTerms.Invalid) == 0 {
		return nil, fmt.Errorf("test data %s needs valid and invalid search terms", productsPath)
	}
	doc, err := json.Marshal(map[string]json.RawMessage{"users": users, "products": products})
	if err != nil {
		return nil, err
	}
	d.doc = string(doc)
	return d, nil
}

func readJSON(fsys afero.Fs, p string, v any) (json.RawMessage, error) {
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading test data: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parsing test data %s: %w", p, err)
	}
	return data, nil
}

// Get looks up a gjson path below "users" and "products",
// e.g. "products.search_terms.valid.0".
func (d *Data) Get(path string) gjson.Result {
	return gjson.Get(d.doc, path)
}

// ValidTerm returns the i-th valid search term. Indexes past the end wrap around,
// so scenarios asking for more terms than the data has reuse the first ones.
func (d *Data) ValidTerm(i int) string {
	return nth(d.Products.SearchTerms.Valid, i)
}

// ValidTerms returns up to n valid search terms.
func (d *Data) ValidTerms(n int) []string {
	terms := d.Products.SearchTerms.Valid
	return terms[:min(n, len(terms))]
}

func (d *Data) InvalidTerm(i int) string {
	return nth(d.Products.SearchTerms.Invalid, i)
}

// nth returns terms[i] with i wrapped into range. Load ensures terms is not empty.
func nth(terms []string, i int) string {
	n := len(terms)
	return terms[(i%n+n)%n]
}
