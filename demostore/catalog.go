package demostore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

type Product struct {
	ID          string
	Name        string
	Model       string
	Price       float64
	Description string
	InStock     bool
	Featured    bool
}

// Catalog is the read-only product list of a store.
type Catalog []Product

// DefaultCatalog mirrors a part of the OpenCart sample data.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "43", Name: "MacBook", Model: "Product 16", Price: 602, InStock: true, Featured: true,
			Description: "Intel Core 2 Duo processor, 13.3-inch widescreen display and a built in iSight camera."},
		{ID: "44", Name: "MacBook Air", Model: "Product 17", Price: 1202, InStock: true,
			Description: "The thinnest and lightest MacBook with a 13.3-inch LED backlit display."},
		{ID: "45", Name: "MacBook Pro", Model: "Product 18", Price: 2000, InStock: true,
			Description: "Latest Intel mobile architecture with a 15-inch display."},
		{ID: "40", Name: "iPhone", Model: "product 11", Price: 123.20, InStock: true, Featured: true,
			Description: "iPhone is a revolutionary new mobile phone that allows you to make a call by simply tapping a name."},
		{ID: "33", Name: "Samsung SyncMaster 941BW", Model: "Product 6", Price: 242, InStock: true,
			Description: "Imagine the advantages of going big without slowing down."},
		{ID: "49", Name: "Samsung Galaxy Tab 10.1", Model: "SAM1", Price: 241.99, InStock: false,
			Description: "Samsung Galaxy Tab 10.1 is the world's thinnest tablet."},
		{ID: "42", Name: "Apple Cinema 30\"", Model: "Product 15", Price: 122, InStock: true, Featured: true,
			Description: "The 30-inch Apple Cinema HD Display delivers an amazing 2560 x 1600 pixel resolution."},
		{ID: "30", Name: "Canon EOS 5D", Model: "Product 3", Price: 98, InStock: true, Featured: true,
			Description: "Canon's press material for the EOS 5D states that it defines a new D-SLR category."},
		{ID: "47", Name: "HP LP3065", Model: "Product 21", Price: 122, InStock: true,
			Description: "Stop your co-workers in their tracks with the stunning new 30-inch diagonal HP LP3065."},
		{ID: "28", Name: "HTC Touch HD", Model: "Product 1", Price: 122, InStock: true,
			Description: "HTC Touch HD, a Windows Mobile phone with a 3.8-inch touch screen."},
		{ID: "36", Name: "iPod Nano", Model: "Product 9", Price: 122, InStock: true,
			Description: "Video in your pocket. Its the small iPod with one very big idea."},
	}
}

func (c Catalog) Product(id string) (Product, bool) {
	return lo.Find(c, func(p Product) bool { return p.ID == id })
}

func (c Catalog) Featured() []Product {
	return lo.Filter(c, func(p Product, _ int) bool { return p.Featured })
}

// Sort orders of the search results.
const (
	SortDefault   = "p.sort_order-ASC"
	SortNameAsc   = "pd.name-ASC"
	SortNameDesc  = "pd.name-DESC"
	SortPriceAsc  = "p.price-ASC"
	SortPriceDesc = "p.price-DESC"
)

var sortOptions = []struct {
	Value, Label string
}{
	{SortDefault, "Default"},
	{SortNameAsc, "Name (A - Z)"},
	{SortNameDesc, "Name (Z - A)"},
	{SortPriceAsc, "Price (Low > High)"},
	{SortPriceDesc, "Price (High > Low)"},
}

// Search returns the products whose name contains every word of term, ignoring case.
// An empty term matches nothing.
func (c Catalog) Search(term, order string) []Product {
	words := strings.Fields(strings.ToLower(term))
	if len(words) == 0 {
		return nil
	}
	result := lo.Filter(c, func(p Product, _ int) bool {
		name := strings.ToLower(p.Name)
		return lo.EveryBy(words, func(w string) bool { return strings.Contains(name, w) })
	})

	switch order {
	case SortNameDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Name > result[j].Name })
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	default:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	}
	return result
}

// formatPrice renders an amount like OpenCart's default currency: $1,202.00
func formatPrice(amount float64) string {
	cents := int64(amount*100 + 0.5)
	whole, frac := cents/100, cents%100

	digits := fmt.Sprint(whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return fmt.Sprintf("$%s.%02d", b.String(), frac)
}
