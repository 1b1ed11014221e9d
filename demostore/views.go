package demostore

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/networkteam/shopcheck/internal/view"
)

// placeholderImage stands in for product photos. It is inline so pages load no
// sub resources that could fail.
const placeholderImage = "data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='228' height='228'%3E%3Crect width='100%25' height='100%25' fill='%23eeeeee'/%3E%3C/svg%3E"

type layoutData struct {
	Title     string
	Search    string
	LoggedIn  bool
	CartTotal string
	Flashes   []flash
	// Sidebar shows the account links next to the content.
	Sidebar bool
}

func layout(d layoutData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
		h.Tag("title", d.Title)
		h.Raw(`<link rel="icon" href="data:,">`)
		h.Raw("<style>" + storeCSS + "</style></head><body>")

		h.Raw(`<nav id="top"><div class="container"><form id="form-currency"><div class="btn-group">`)
		h.Raw(`<button type="button" class="btn btn-link dropdown-toggle">$ Currency</button></div></form>`)
		h.Raw(`<div id="top-links" class="nav pull-right"><ul class="list-inline">`)
		h.Raw(`<li class="dropdown">`)
		h.Open("a", "href", link("account/account"), "title", "My Account", "class", "dropdown-toggle", "onclick", "return accountMenu.toggle(event);")
		h.Raw("Account</a></li><li>")
		h.Tag("a", "Wish List (0)", "href", link("account/wishlist"), "id", "wishlist-total", "title", "Wish List (0)")
		h.Raw("</li><li>")
		h.Tag("a", "Shopping Cart", "href", link("checkout/cart"), "title", "Shopping Cart")
		h.Raw("</li><li>")
		h.Tag("a", "Checkout", "href", link("checkout/checkout"), "title", "Checkout")
		h.Raw("</li></ul></div></div></nav>")

		h.Raw(`<header><div class="container"><div class="row">`)
		h.Raw(`<div class="col-sm-4"><div id="logo"><a href="/">Your Store</a></div></div>`)
		h.Raw(`<div class="col-sm-5"><div id="search" class="input-group"><form action="/index.php" method="get">`)
		h.Raw(`<input type="hidden" name="route" value="product/search">`)
		h.Open("input", "type", "text", "name", "search", "value", d.Search, "placeholder", "Search", "class", "form-control input-lg")
		h.Raw(`<span class="input-group-btn"><button type="submit" class="btn btn-default btn-lg">Search</button></span></form></div></div>`)
		h.Raw(`<div class="col-sm-3"><div id="cart" class="btn-group btn-block">`)
		h.Open("a", "href", link("checkout/cart"), "class", "btn btn-inverse btn-block btn-lg")
		h.Tag("span", d.CartTotal, "id", "cart-total")
		h.Raw("</a></div></div></div></div></header>")

		contentClass := "col-sm-12"
		if d.Sidebar {
			contentClass = "col-sm-9"
		}
		h.Raw(`<div id="container" class="container"><div class="row">`)
		h.Open("div", "id", "content", "class", contentClass)
		for _, f := range d.Flashes {
			h.Tag("div", f.Text, "class", "alert alert-"+f.Kind+" alert-dismissible")
		}
		h.Component(ctx, body)
		h.Raw("</div>")
		if d.Sidebar {
			h.Raw(`<aside id="column-right" class="col-sm-3"><div class="list-group">`)
			for _, l := range accountLinks {
				h.Tag("a", l.Text, "href", link(l.Route), "class", "list-group-item")
			}
			h.Raw("</div></aside>")
		}
		h.Raw("</div></div>")
		h.Raw(`<footer><div class="container"><p>Powered By OpenCart, Your Store &copy; demo</p></div></footer>`)

		h.Raw(`<ul id="account-menu" class="dropdown-menu dropdown-menu-right">`)
		menu := loggedOutMenu
		if d.LoggedIn {
			menu = loggedInMenu
		}
		for _, l := range menu {
			h.Raw("<li>")
			h.Tag("a", l.Text, "href", link(l.Route))
			h.Raw("</li>")
		}
		h.Raw("</ul>")
		h.Raw("<script>" + storeScript + "</script></body></html>")
		return h.Err()
	})
}

type navLink struct {
	Text  string
	Route string
}

var loggedOutMenu = []navLink{
	{"Register", "account/register"},
	{"Login", "account/login"},
}

var loggedInMenu = []navLink{
	{"My Account", "account/account"},
	{"Order History", "account/order"},
	{"Transactions", "account/transaction"},
	{"Downloads", "account/download"},
	{"Logout", "account/logout"},
}

var accountLinks = []navLink{
	{"My Account", "account/account"},
	{"Edit Account", "account/edit"},
	{"Password", "account/password"},
	{"Address Book", "account/address"},
	{"Wish List", "account/wishlist"},
	{"Order History", "account/order"},
	{"Downloads", "account/download"},
	{"Recurring payments", "account/recurring"},
	{"Reward Points", "account/reward"},
	{"Returns", "account/return"},
	{"Transactions", "account/transaction"},
	{"Newsletter", "account/newsletter"},
	{"Logout", "account/logout"},
}

// jsString quotes s for an inline handler attribute.
func jsString(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

func buttons(h *view.Writer, text, href string) {
	h.Raw(`<div class="buttons clearfix"><div class="pull-right">`)
	h.Tag("a", text, "href", href, "class", "btn btn-primary")
	h.Raw("</div></div>")
}

func productThumb(h *view.Writer, p Product) {
	href := link("product/product", "product_id", p.ID)
	h.Raw(`<div class="product-layout product-grid col-lg-3 col-md-3 col-sm-6 col-xs-12"><div class="product-thumb transition"><div class="image">`)
	h.Open("a", "href", href)
	h.Open("img", "src", placeholderImage, "alt", p.Name, "title", p.Name, "class", "img-responsive")
	h.Raw(`</a></div><div class="caption"><h4>`)
	h.Tag("a", p.Name, "href", href)
	h.Raw("</h4>")
	h.Tag("p", p.Description)
	h.Tag("p", formatPrice(p.Price), "class", "price")
	h.Raw(`</div><div class="button-group">`)
	h.Open("button", "type", "button", "onclick", "cart.add("+jsString(p.ID)+");")
	h.Raw(`<span>Add to Cart</span></button>`)
	h.Tag("button", "Wish", "type", "button", "title", "Add to Wish List", "onclick", "wishlist.add("+jsString(p.ID)+");")
	h.Tag("button", "Compare", "type", "button", "title", "Compare this Product", "onclick", "compare.add("+jsString(p.ID)+");")
	h.Raw("</div></div></div>")
}

func homeView(featured []Product) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Raw(`<h3>Featured</h3><div class="row">`)
		for _, p := range featured {
			productThumb(h, p)
		}
		h.Raw("</div>")
		return h.Err()
	})
}

func searchView(res searchResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		if res.Term != "" {
			h.Tag("h1", "Search - "+res.Term)
		} else {
			h.Tag("h1", "Search")
		}
		h.Tag("h2", "Products meeting the search criteria")

		if len(res.Products) == 0 {
			h.Tag("p", "There is no product that matches the search criteria.")
			return h.Err()
		}

		pageLink := func(sort string, limit, page int) string {
			field, order, _ := strings.Cut(sort, "-")
			return link("product/search", "search", res.Term, "sort", field, "order", order,
				"limit", strconv.Itoa(limit), "page", strconv.Itoa(page))
		}

		h.Raw(`<div class="row"><div class="col-md-2"><div class="btn-group">`)
		h.Tag("button", "List", "type", "button", "id", "list-view", "class", "btn btn-link", "title", "List", "onclick", "productView.list();")
		h.Tag("button", "Grid", "type", "button", "id", "grid-view", "class", "btn btn-link", "title", "Grid", "onclick", "productView.grid();")
		h.Raw(`</div></div><div class="col-md-4"><label class="control-label" for="input-sort">Sort By:</label>`)
		h.Raw(`<select id="input-sort" class="form-control" onchange="location = this.value;">`)
		for _, o := range sortOptions {
			attrs := []string{"value", pageLink(o.Value, res.Limit, 1)}
			if o.Value == res.Sort {
				attrs = append(attrs, "selected", "")
			}
			h.Tag("option", o.Label, attrs...)
		}
		h.Raw(`</select></div><div class="col-md-3"><label class="control-label" for="input-limit">Show:</label>`)
		h.Raw(`<select id="input-limit" class="form-control" onchange="location = this.value;">`)
		for _, l := range searchLimits {
			attrs := []string{"value", pageLink(res.Sort, l, 1)}
			if l == res.Limit {
				attrs = append(attrs, "selected", "")
			}
			h.Tag("option", strconv.Itoa(l), attrs...)
		}
		h.Raw(`</select></div></div><div class="row">`)
		for _, p := range res.Products {
			productThumb(h, p)
		}
		h.Raw("</div>")

		pages := (res.Total + res.Limit - 1) / res.Limit
		from := (res.Page-1)*res.Limit + 1
		h.Raw(`<div class="row"><div class="col-sm-6 text-left">`)
		if pages > 1 {
			h.Raw(`<ul class="pagination">`)
			for i := 1; i <= pages; i++ {
				h.Raw("<li>")
				h.Tag("a", strconv.Itoa(i), "href", pageLink(res.Sort, res.Limit, i))
				h.Raw("</li>")
			}
			h.Raw("</ul>")
		}
		h.Raw(`</div>`)
		h.Tag("div", fmt.Sprintf("Showing %d to %d of %d (%d Pages)", from, from+len(res.Products)-1, res.Total, pages), "class", "col-sm-6 text-right")
		h.Raw("</div>")
		return h.Err()
	})
}

func productView(p Product) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		id := jsString(p.ID)
		h.Raw(`<div class="row"><div class="col-sm-8"><ul class="thumbnails"><li>`)
		h.Open("a", "class", "thumbnail", "href", "#", "title", p.Name)
		h.Open("img", "src", placeholderImage, "alt", p.Name, "title", p.Name)
		h.Raw(`</a></li></ul><ul class="nav nav-tabs"><li class="active"><a href="#tab-description">Description</a></li></ul>`)
		h.Raw(`<div class="tab-content"><div class="tab-pane active" id="tab-description">`)
		h.Tag("p", p.Description)
		h.Raw(`</div></div></div><div class="col-sm-4"><div class="btn-group">`)
		h.Tag("button", "Wish", "type", "button", "class", "btn btn-link", "title", "Add to Wish List", "onclick", "wishlist.add("+id+");")
		h.Tag("button", "Compare", "type", "button", "class", "btn btn-link", "title", "Compare this Product", "onclick", "compare.add("+id+");")
		h.Raw("</div>")
		h.Tag("h1", p.Name)

		availability := "In Stock"
		if !p.InStock {
			availability = "Out Of Stock"
		}
		h.Raw(`<ul class="list-unstyled">`)
		h.Tag("li", "Availability: "+availability)
		h.Tag("li", "Product Code: "+p.Model)
		h.Raw(`</ul><ul class="list-unstyled"><li>`)
		h.Tag("h2", formatPrice(p.Price))
		h.Raw(`</li></ul><div id="product"><div class="form-group">`)
		h.Raw(`<label class="control-label" for="input-quantity">Qty</label>`)
		h.Raw(`<input type="text" name="quantity" value="1" size="2" id="input-quantity" class="form-control">`)
		h.Open("input", "type", "hidden", "name", "product_id", "value", p.ID)
		h.Tag("button", "Add to Cart", "type", "button", "id", "button-cart", "class", "btn btn-primary btn-lg btn-block",
			"onclick", "cart.add("+id+", document.getElementById('input-quantity').value);")
		h.Raw("</div></div></div></div>")
		return h.Err()
	})
}

func cartView(rows []cartRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "Shopping Cart")
		if len(rows) == 0 {
			h.Tag("p", "Your shopping cart is empty!")
			buttons(h, "Continue", "/")
			return h.Err()
		}

		items := 0
		for _, r := range rows {
			items += r.Quantity
		}
		h.Tag("p", fmt.Sprintf("%d item(s) in your cart.", items))

		h.Open("form", "action", link("checkout/cart/edit"), "method", "post", "id", "cart-form")
		h.Raw(`<div class="table-responsive"><table class="table table-bordered"><thead><tr>`)
		h.Raw(`<td class="text-center">Image</td><td class="text-left">Product Name</td><td class="text-left">Model</td>`)
		h.Raw(`<td class="text-left">Quantity</td><td class="text-right">Unit Price</td><td class="text-right">Total</td></tr></thead><tbody>`)
		for _, r := range rows {
			href := link("product/product", "product_id", r.Product.ID)
			h.Raw(`<tr><td class="text-center">`)
			h.Open("a", "href", href)
			h.Open("img", "src", placeholderImage, "alt", r.Product.Name, "title", r.Product.Name, "width", "47", "height", "47")
			h.Raw(`</a></td><td class="text-left">`)
			h.Tag("a", r.Product.Name, "href", href)
			if !r.Product.InStock {
				h.Raw(` <span class="text-danger">***</span>`)
			}
			h.Raw("</td>")
			h.Tag("td", r.Product.Model, "class", "text-left")
			h.Raw(`<td class="text-left"><div class="input-group btn-block">`)
			h.Open("input", "type", "text", "name", "quantity["+r.Key+"]", "value", strconv.Itoa(r.Quantity), "size", "1", "class", "form-control")
			h.Raw(`<span class="input-group-btn">`)
			h.Tag("button", "Update", "type", "submit", "data-toggle", "tooltip", "title", "Update", "data-original-title", "Update", "class", "btn btn-primary")
			h.Tag("button", "Remove", "type", "submit", "formaction", link("checkout/cart/remove", "key", r.Key),
				"data-toggle", "tooltip", "title", "Remove", "data-original-title", "Remove", "class", "btn btn-danger")
			h.Raw("</span></div></td>")
			h.Tag("td", formatPrice(r.Product.Price), "class", "text-right")
			h.Tag("td", formatPrice(r.Total), "class", "text-right")
			h.Raw("</tr>")
		}
		total := formatPrice(subTotal(rows))
		h.Raw(`</tbody><tfoot><tr><td colspan="5" class="text-right"><strong>Sub-Total:</strong></td>`)
		h.Tag("td", total, "class", "text-right")
		h.Raw(`</tr><tr><td colspan="5" class="text-right"><strong>Total:</strong></td>`)
		h.Tag("td", total, "class", "text-right")
		h.Raw("</tr></tfoot></table></div></form>")

		h.Raw(`<h2>What would you like to do next?</h2><div class="panel-group"><div class="panel panel-default">`)
		h.Raw(`<div class="panel-heading"><h4 class="panel-title">Use Coupon Code</h4></div><div class="panel-body">`)
		h.Raw(`<label class="control-label" for="input-coupon">Enter your coupon here</label><div class="input-group">`)
		h.Raw(`<input type="text" name="coupon" value="" placeholder="Enter your coupon here" id="input-coupon" class="form-control">`)
		h.Raw(`<span class="input-group-btn"><input type="button" value="Apply Coupon" id="button-coupon" class="btn btn-primary" onclick="coupon.apply();"></span>`)
		h.Raw("</div></div></div></div>")

		h.Raw(`<div class="buttons clearfix"><div class="pull-left"><a href="/" class="btn btn-default">Continue Shopping</a></div>`)
		h.Raw(`<div class="pull-right">`)
		h.Tag("a", "Checkout", "href", link("checkout/checkout"), "class", "btn btn-primary")
		h.Raw("</div></div>")
		return h.Err()
	})
}

func notFoundView() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "The page you requested cannot be found!")
		h.Tag("p", "The page you requested cannot be found.")
		buttons(h, "Continue", "/")
		return h.Err()
	})
}
