package demostore

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/samber/lo"
)

const (
	defaultSearchLimit = 15
	cartModified       = "Success: You have modified your shopping cart!"
)

var searchLimits = []int{15, 25, 50, 75, 100}

type cartRow struct {
	Key      string
	Product  Product
	Quantity int
	Total    float64
}

func (s *Server) cartRows(v *visitor) []cartRow {
	rows := make([]cartRow, 0, len(v.cart))
	for _, l := range v.cart {
		p, ok := s.catalog.Product(l.ProductID)
		if !ok {
			continue
		}
		rows = append(rows, cartRow{Key: l.Key, Product: p, Quantity: l.Quantity, Total: p.Price * float64(l.Quantity)})
	}
	return rows
}

func subTotal(rows []cartRow) float64 {
	return lo.SumBy(rows, func(r cartRow) float64 { return r.Total })
}

func (s *Server) cartSummary(v *visitor) string {
	rows := s.cartRows(v)
	items := lo.SumBy(rows, func(r cartRow) int { return r.Quantity })
	return fmt.Sprintf("%d item(s) - %s", items, formatPrice(subTotal(rows)))
}

func (s *Server) home(w http.ResponseWriter, r *http.Request, v *visitor) {
	s.render(w, r, v, http.StatusOK, "Your Store", homeView(s.catalog.Featured()))
}

type searchResult struct {
	Term     string
	Sort     string
	Limit    int
	Page     int
	Total    int
	Products []Product
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, v *visitor) {
	q := r.URL.Query()
	res := searchResult{
		Term:  q.Get("search"),
		Sort:  SortDefault,
		Limit: defaultSearchLimit,
		Page:  1,
	}
	if sort, order := q.Get("sort"), q.Get("order"); sort != "" {
		res.Sort = sort + "-" + strings.ToUpper(lo.CoalesceOrEmpty(order, "ASC"))
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		res.Limit = limit
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		res.Page = page
	}

	found := s.catalog.Search(res.Term, res.Sort)
	res.Total = len(found)
	res.Products = lo.Subset(found, (res.Page-1)*res.Limit, uint(res.Limit))

	title := "Search"
	if res.Term != "" {
		title = "Search - " + res.Term
	}
	s.render(w, r, v, http.StatusOK, title, searchView(res))
}

func (s *Server) product(w http.ResponseWriter, r *http.Request, v *visitor) {
	p, ok := s.catalog.Product(r.URL.Query().Get("product_id"))
	if !ok {
		s.render(w, r, v, http.StatusNotFound, "Product not found!", notFoundView())
		return
	}
	s.render(w, r, v, http.StatusOK, p.Name, productView(p))
}

// isXHR reports whether a request was sent by the storefront script.
func isXHR(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

type jsonAlert struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
	Total   string `json:"total,omitempty"`
}

func (s *Server) cartAdd(w http.ResponseWriter, r *http.Request, v *visitor) {
	if !isPost(r) {
		methodNotAllowed(w)
		return
	}
	p, ok := s.catalog.Product(r.FormValue("product_id"))
	if !ok {
		s.writeJSON(w, jsonAlert{Error: "Warning: Product not found!"})
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	if _, i, ok := lo.FindIndexOf(v.cart, func(l cartLine) bool { return l.ProductID == p.ID }); ok {
		v.cart[i].Quantity += quantity
	} else {
		v.cart = append(v.cart, cartLine{Key: uuid.Must(uuid.NewV4()).String(), ProductID: p.ID, Quantity: quantity})
	}
	s.logger.Info("Added product to cart", "product", p.ID, "quantity", quantity, "session", v.id.String())

	msg := fmt.Sprintf("Success: You have added %s to your shopping cart!", p.Name)
	if !isXHR(r) {
		v.addFlash("success", msg)
		s.redirect(w, r, "checkout/cart")
		return
	}
	s.writeJSON(w, jsonAlert{Success: msg, Total: s.cartSummary(v)})
}

func (s *Server) cart(w http.ResponseWriter, r *http.Request, v *visitor) {
	rows := s.cartRows(v)
	outOfStock := lo.SomeBy(rows, func(r cartRow) bool { return !r.Product.InStock })
	if outOfStock {
		v.addFlash("danger", "Products marked with *** are not available in the desired quantity or not in stock!")
	}
	s.render(w, r, v, http.StatusOK, "Shopping Cart", cartView(rows))
}

func (s *Server) cartEdit(w http.ResponseWriter, r *http.Request, v *visitor) {
	if !isPost(r) {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	v.cart = lo.FilterMap(v.cart, func(l cartLine, _ int) (cartLine, bool) {
		raw, ok := r.PostForm["quantity["+l.Key+"]"]
		if !ok || len(raw) == 0 {
			return l, true
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(raw[0]))
		if err != nil {
			return l, true
		}
		l.Quantity = quantity
		return l, quantity > 0
	})
	v.addFlash("success", cartModified)
	s.redirect(w, r, "checkout/cart")
}

func (s *Server) cartRemove(w http.ResponseWriter, r *http.Request, v *visitor) {
	if !isPost(r) {
		methodNotAllowed(w)
		return
	}
	key := lo.CoalesceOrEmpty(r.URL.Query().Get("key"), r.PostFormValue("key"))
	v.cart = lo.Reject(v.cart, func(l cartLine, _ int) bool { return l.Key == key })
	v.addFlash("success", cartModified)
	s.redirect(w, r, "checkout/cart")
}

// coupon rejects every code, the demo store has no coupons.
func (s *Server) coupon(w http.ResponseWriter, r *http.Request, v *visitor) {
	if !isPost(r) {
		methodNotAllowed(w)
		return
	}
	msg := "Warning: Coupon is either invalid, expired or reached its usage limit!"
	if strings.TrimSpace(r.FormValue("coupon")) == "" {
		msg = "Warning: Please enter a coupon code!"
	}
	if !isXHR(r) {
		v.addFlash("danger", msg)
		s.redirect(w, r, "checkout/cart")
		return
	}
	s.writeJSON(w, jsonAlert{Error: msg})
}

func (s *Server) compareAdd(w http.ResponseWriter, r *http.Request, v *visitor) {
	if !isPost(r) {
		methodNotAllowed(w)
		return
	}
	p, ok := s.catalog.Product(r.FormValue("product_id"))
	if !ok {
		s.writeJSON(w, jsonAlert{Error: "Warning: Product not found!"})
		return
	}
	s.writeJSON(w, jsonAlert{Success: fmt.Sprintf("Success: You have added %s to your product comparison!", p.Name)})
}

func (s *Server) wishlistAdd(w http.ResponseWriter, r *http.Request, v *visitor) {
	if !isPost(r) {
		methodNotAllowed(w)
		return
	}
	p, ok := s.catalog.Product(r.FormValue("product_id"))
	if !ok {
		s.writeJSON(w, jsonAlert{Error: "Warning: Product not found!"})
		return
	}
	if v.customer == "" {
		s.writeJSON(w, jsonAlert{Success: fmt.Sprintf("You must login or create an account to save %s to your wish list!", p.Name)})
		return
	}
	s.writeJSON(w, jsonAlert{Success: fmt.Sprintf("Success: You have added %s to your wish list!", p.Name)})
}
