package demostore

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/samber/lo"

	"github.com/networkteam/shopcheck/internal/view"
)

// checkoutStep opens a step panel. Only the first step of a checkout is shown initially.
func checkoutStep(h *view.Writer, id, title string, shown bool) {
	h.Open("div", "class", "panel panel-default checkout-step", "id", id)
	h.Raw(`<div class="panel-heading">`)
	h.Tag("h4", title, "class", "panel-title")
	h.Raw("</div>")
	if shown {
		h.Raw(`<div class="panel-body">`)
	} else {
		h.Raw(`<div class="panel-body" style="display: none">`)
	}
}

func stepButton(h *view.Writer, id, onclick string) {
	h.Raw(`<div class="buttons"><div class="pull-right">`)
	h.Open("input", "type", "button", "value", "Continue", "id", id, "class", "btn btn-primary", "onclick", onclick)
	h.Raw("</div></div>")
}

func selectField(h *view.Writer, label, name, id string, options []zone, selected string) {
	h.Raw(`<div class="form-group required">`)
	h.Tag("label", label, "class", "control-label", "for", id)
	attrs := []string{"name", name, "id", id, "class", "form-control", "data-required", "true"}
	if name == "country_id" {
		attrs = append(attrs, "onchange", "checkout.zones();")
	}
	h.Open("select", attrs...)
	h.Raw(`<option value=""> --- Please Select --- </option>`)
	for _, o := range options {
		optAttrs := []string{"value", o.ID}
		if o.ID == selected {
			optAttrs = append(optAttrs, "selected", "")
		}
		h.Tag("option", o.Name, optAttrs...)
	}
	h.Raw("</select></div>")
}

func checkoutView(d checkoutData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "Checkout")
		h.Open("form", "id", "checkout-form", "action", link("checkout/confirm"), "method", "post", "novalidate", "")
		h.Raw(`<div class="panel-group" id="accordion">`)

		step := 1
		title := func(name string) string {
			t := "Step " + strconv.Itoa(step) + ": " + name
			step++
			return t
		}

		if !d.LoggedIn {
			checkoutStep(h, "collapse-checkout-option", title("Checkout Options"), true)
			h.Raw(`<h2>New Customer</h2><p>Checkout Options:</p>`)
			h.Raw(`<div class="radio"><label><input type="radio" name="account" value="register" checked> Register Account</label></div>`)
			if d.GuestCheckout {
				h.Raw(`<div class="radio"><label><input type="radio" name="account" value="guest"> Guest Checkout</label></div>`)
			} else {
				h.Tag("p", "Guest checkout is not available, please register or log in.", "class", "text-muted")
			}
			h.Raw(`<div class="radio"><label><input type="radio" name="account" value="returning"> Returning Customer</label></div>`)
			stepButton(h, "button-account", "checkout.account();")
			h.Raw("</div></div>")
		}

		checkoutStep(h, "collapse-payment-address", title("Billing Details"), d.LoggedIn)
		for _, f := range []formField{
			{"First Name", "firstname", "input-payment-firstname", "text", d.Customer.FirstName},
			{"Last Name", "lastname", "input-payment-lastname", "text", d.Customer.LastName},
			{"E-Mail", "email", "input-payment-email", "text", d.Customer.Email},
			{"Telephone", "telephone", "input-payment-telephone", "text", d.Customer.Telephone},
			{"Address 1", "address_1", "input-payment-address-1", "text", ""},
			{"City", "city", "input-payment-city", "text", ""},
			{"Post Code", "postcode", "input-payment-postcode", "text", ""},
		} {
			h.Raw(`<div class="form-group required">`)
			h.Tag("label", f.Label, "class", "control-label", "for", f.ID)
			h.Open("input", "type", f.Type, "name", f.Name, "value", f.Value, "placeholder", f.Label, "id", f.ID, "class", "form-control", "data-required", "true")
			h.Raw("</div>")
		}
		countryOptions := lo.Map(countries, func(c country, _ int) zone { return zone{ID: c.ID, Name: c.Name} })
		selectField(h, "Country", "country_id", "input-payment-country", countryOptions, defaultCountryID)
		defaultCountry, _ := findCountry(defaultCountryID)
		selectField(h, "Region / State", "zone_id", "input-payment-zone", defaultCountry.Zones, "")
		stepButton(h, "button-guest", "checkout.billing();")
		h.Raw("</div></div>")

		checkoutStep(h, "collapse-shipping-address", title("Delivery Details"), false)
		h.Tag("p", "My delivery and billing addresses are the same.")
		stepButton(h, "button-shipping-address", "checkout.show('collapse-shipping-method');")
		h.Raw("</div></div>")

		checkoutStep(h, "collapse-shipping-method", title("Delivery Method"), false)
		h.Raw(`<p>Please select the preferred shipping method to use on this order.</p><p><strong>Flat Rate</strong></p>`)
		h.Raw(`<div class="radio"><label><input type="radio" name="shipping_method" value="flat.flat" checked> `)
		h.Text("Flat Shipping Rate - " + formatPrice(d.Shipping))
		h.Raw(`</label></div><p><strong>Add Comments About Your Order</strong></p><textarea name="comment" rows="4" class="form-control"></textarea>`)
		stepButton(h, "button-shipping-method", "checkout.show('collapse-payment-method');")
		h.Raw("</div></div>")

		checkoutStep(h, "collapse-payment-method", title("Payment Method"), false)
		h.Raw(`<p>Please select the preferred payment method to use on this order.</p>`)
		h.Raw(`<div class="radio"><label><input type="radio" name="payment_method" value="cod" checked> Cash On Delivery</label></div>`)
		h.Raw(`<div class="buttons"><div class="pull-right">I have read and agree to the <a href="#"><b>Terms &amp; Conditions</b></a> `)
		h.Raw(`<input type="checkbox" name="agree" value="1"> `)
		h.Raw(`<input type="button" value="Continue" id="button-payment-method" class="btn btn-primary" onclick="checkout.payment();">`)
		h.Raw("</div></div></div></div>")

		checkoutStep(h, "collapse-checkout-confirm", title("Confirm Order"), false)
		h.Raw(`<table class="table table-bordered table-hover"><thead><tr><td class="text-left">Product Name</td><td class="text-left">Model</td>`)
		h.Raw(`<td class="text-right">Quantity</td><td class="text-right">Unit Price</td><td class="text-right">Total</td></tr></thead><tbody>`)
		for _, r := range d.Rows {
			h.Raw("<tr>")
			h.Tag("td", r.Product.Name, "class", "text-left")
			h.Tag("td", r.Product.Model, "class", "text-left")
			h.Tag("td", strconv.Itoa(r.Quantity), "class", "text-right")
			h.Tag("td", formatPrice(r.Product.Price), "class", "text-right")
			h.Tag("td", formatPrice(r.Total), "class", "text-right")
			h.Raw("</tr>")
		}
		h.Raw("</tbody><tfoot>")
		for _, t := range []struct {
			label  string
			amount float64
		}{{"Sub-Total:", d.SubTotal}, {"Flat Shipping Rate:", d.Shipping}, {"Total:", d.Total}} {
			h.Raw(`<tr><td colspan="4" class="text-right">`)
			h.Tag("strong", t.label)
			h.Raw("</td>")
			h.Tag("td", formatPrice(t.amount), "class", "text-right")
			h.Raw("</tr>")
		}
		h.Raw(`</tfoot></table><div class="buttons"><div class="pull-right">`)
		h.Raw(`<button type="submit" id="button-confirm" class="btn btn-primary">Confirm Order</button>`)
		h.Raw("</div></div></div></div>")

		h.Raw("</div></form>")

		zones := make(map[string][]zone, len(countries))
		for _, c := range countries {
			zones[c.ID] = c.Zones
		}
		data, err := json.Marshal(zones)
		if err != nil {
			return err
		}
		h.Raw("<script>var checkoutZones = " + string(data) + ";</script>")
		return h.Err()
	})
}

func checkoutSuccessView(orderID int, loggedIn bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "Your order has been placed!")
		if orderID > 0 {
			h.Tag("p", "Your order number is #"+strconv.Itoa(orderID)+".")
		}
		h.Tag("p", "Your order has been successfully processed!")
		if loggedIn {
			h.Raw("<p>You can view your order history by going to the ")
			h.Tag("a", "my account", "href", link("account/account"))
			h.Raw(" page and by clicking on ")
			h.Tag("a", "history", "href", link("account/order"))
			h.Raw(".</p>")
		}
		h.Tag("p", "Thanks for shopping with us online!")
		buttons(h, "Continue", "/")
		return h.Err()
	})
}
