package demostore

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCatalog_Search(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name  string
		term  string
		order string
		want  []string
	}{
		{"by name", "macbook", SortDefault, []string{"MacBook", "MacBook Air", "MacBook Pro"}},
		{"all words", "MacBook pro", SortDefault, []string{"MacBook Pro"}},
		{"name descending", "samsung", SortNameDesc, []string{"Samsung SyncMaster 941BW", "Samsung Galaxy Tab 10.1"}},
		{"price ascending", "macbook", SortPriceAsc, []string{"MacBook", "MacBook Air", "MacBook Pro"}},
		{"price descending", "macbook", SortPriceDesc, []string{"MacBook Pro", "MacBook Air", "MacBook"}},
		{"no match", "xyznonexistentproduct123", SortDefault, nil},
		{"empty term", "  ", SortDefault, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lo.Map(c.Search(tt.term, tt.order), func(p Product, _ int) string { return p.Name })
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_Search_MatchesAllWords(t *testing.T) {
	c := DefaultCatalog()
	words := lo.Uniq(lo.FlatMap(c, func(p Product, _ int) []string { return strings.Fields(p.Name) }))
	orders := []string{SortDefault, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}

	rapid.Check(t, func(t *rapid.T) {
		term := strings.Join(rapid.SliceOfN(rapid.SampledFrom(words), 1, 3).Draw(t, "words"), " ")
		if rapid.Bool().Draw(t, "upper") {
			term = strings.ToUpper(term)
		}
		order := rapid.SampledFrom(orders).Draw(t, "order")

		matches := func(p Product) bool {
			name := strings.ToLower(p.Name)
			return lo.EveryBy(strings.Fields(strings.ToLower(term)), func(w string) bool { return strings.Contains(name, w) })
		}

		got := c.Search(term, order)
		for _, p := range got {
			if !matches(p) {
				t.Fatalf("%q does not match %q", p.Name, term)
			}
		}
		if want := lo.CountBy(c, matches); len(got) != want {
			t.Fatalf("got %d results for %q, want %d", len(got), term, want)
		}
	})
}

func TestCatalog_Featured(t *testing.T) {
	names := lo.Map(DefaultCatalog().Featured(), func(p Product, _ int) string { return p.Name })
	assert.Equal(t, []string{"MacBook", "iPhone", "Apple Cinema 30\"", "Canon EOS 5D"}, names)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{98, "$98.00"},
		{123.2, "$123.20"},
		{241.99, "$241.99"},
		{1202, "$1,202.00"},
		{1234567.5, "$1,234,567.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPrice(tt.amount))
	}
}
