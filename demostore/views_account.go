package demostore

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/networkteam/shopcheck/internal/view"
)

type formField struct {
	Label string
	Name  string
	ID    string
	Type  string
	Value string
}

func writeField(h *view.Writer, f formField, problem string) {
	h.Raw(`<div class="form-group required">`)
	h.Tag("label", f.Label, "class", "col-sm-2 control-label", "for", f.ID)
	h.Raw(`<div class="col-sm-10">`)
	h.Open("input", "type", f.Type, "name", f.Name, "value", f.Value, "placeholder", f.Label, "id", f.ID, "class", "form-control")
	if problem != "" {
		h.Tag("div", problem, "class", "text-danger")
	}
	h.Raw("</div></div>")
}

func personalFields(c Customer) []formField {
	return []formField{
		{"First Name", "firstname", "input-firstname", "text", c.FirstName},
		{"Last Name", "lastname", "input-lastname", "text", c.LastName},
		{"E-Mail", "email", "input-email", "email", c.Email},
		{"Telephone", "telephone", "input-telephone", "tel", c.Telephone},
	}
}

func loginView(email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Raw(`<div class="row"><div class="col-sm-6"><div class="well"><h2>New Customer</h2><p><strong>Register Account</strong></p>`)
		h.Raw(`<p>By creating an account you will be able to shop faster, be up to date on an order's status, and keep track of the orders you have previously made.</p>`)
		h.Tag("a", "Continue", "href", link("account/register"), "class", "btn btn-primary")
		h.Raw(`</div></div><div class="col-sm-6"><div class="well"><h2>Returning Customer</h2><p><strong>I am a returning customer</strong></p>`)
		h.Open("form", "action", link("account/login"), "method", "post", "novalidate", "")
		h.Raw(`<div class="form-group"><label class="control-label" for="input-email">E-Mail Address</label>`)
		h.Open("input", "type", "text", "name", "email", "value", email, "placeholder", "E-Mail Address", "id", "input-email", "class", "form-control")
		h.Raw(`</div><div class="form-group"><label class="control-label" for="input-password">Password</label>`)
		h.Raw(`<input type="password" name="password" value="" placeholder="Password" id="input-password" class="form-control">`)
		h.Tag("a", "Forgotten Password", "href", link("account/forgotten"))
		h.Raw(`</div><input type="submit" value="Login" class="btn btn-primary"></form></div></div></div>`)
		return h.Err()
	})
}

func registerView(form registerForm, errs fieldErrors) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "Register Account")
		h.Raw("<p>If you already have an account with us, please login at the ")
		h.Tag("a", "login page", "href", link("account/login"))
		h.Raw(".</p>")
		h.Open("form", "action", link("account/register"), "method", "post", "class", "form-horizontal", "novalidate", "")
		h.Raw(`<fieldset id="account"><legend>Your Personal Details</legend>`)
		for _, f := range personalFields(form.Customer) {
			writeField(h, f, errs[f.Name])
		}
		h.Raw(`</fieldset><fieldset><legend>Your Password</legend>`)
		writeField(h, formField{"Password", "password", "input-password", "password", ""}, errs["password"])
		writeField(h, formField{"Password Confirm", "confirm", "input-confirm", "password", ""}, errs["confirm"])
		h.Raw(`</fieldset><fieldset><legend>Newsletter</legend><div class="form-group"><label class="col-sm-2 control-label">Subscribe</label><div class="col-sm-10">`)
		for _, o := range []struct {
			value, label string
			checked      bool
		}{{"1", "Yes", form.Newsletter}, {"0", "No", !form.Newsletter}} {
			h.Raw(`<label class="radio-inline">`)
			attrs := []string{"type", "radio", "name", "newsletter", "value", o.value}
			if o.checked {
				attrs = append(attrs, "checked", "")
			}
			h.Open("input", attrs...)
			h.Text(" " + o.label)
			h.Raw("</label>")
		}
		h.Raw(`</div></div></fieldset><div class="buttons"><div class="pull-right">I have read and agree to the `)
		h.Raw(`<a href="#"><b>Privacy Policy</b></a> <input type="checkbox" name="agree" value="1"> `)
		h.Raw(`<input type="submit" value="Continue" class="btn btn-primary"></div></div></form>`)
		return h.Err()
	})
}

func registerSuccessView(loggedIn bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "Your Account Has Been Created!")
		h.Tag("p", "Congratulations! Your new account has been successfully created!")
		h.Tag("p", "You can now take advantage of member privileges to enhance your online shopping experience with us.")
		target := link("account/account")
		if !loggedIn {
			target = link("account/login")
		}
		buttons(h, "Continue", target)
		return h.Err()
	})
}

func forgottenView() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "Forgot Your Password?")
		h.Tag("p", "Enter the e-mail address associated with your account. Click submit to have a password reset link e-mailed to you.")
		h.Open("form", "action", link("account/forgotten"), "method", "post", "class", "form-horizontal", "novalidate", "")
		h.Raw(`<fieldset><legend>Your E-Mail Address</legend>`)
		writeField(h, formField{"E-Mail Address", "email", "input-email", "text", ""}, "")
		h.Raw(`</fieldset><div class="buttons clearfix"><div class="pull-left">`)
		h.Tag("a", "Back", "href", link("account/login"), "class", "btn btn-default")
		h.Raw(`</div><div class="pull-right"><input type="submit" value="Continue" class="btn btn-primary"></div></div></form>`)
		return h.Err()
	})
}

func logoutView() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "Account Logout")
		h.Tag("p", "You have been logged off your account. It is now safe to leave the computer.")
		h.Tag("p", "Your shopping cart has been saved, the items inside it will be restored whenever you log back into your account.")
		buttons(h, "Continue", "/")
		return h.Err()
	})
}

func accountView() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		groups := []struct {
			heading string
			links   []navLink
		}{
			{"My Account", []navLink{
				{"Edit Account", "account/edit"},
				{"Password", "account/password"},
				{"Address Book", "account/address"},
				{"Wish List", "account/wishlist"},
			}},
			{"My Orders", []navLink{
				{"Order History", "account/order"},
				{"Downloads", "account/download"},
				{"Reward Points", "account/reward"},
				{"Returns", "account/return"},
				{"Transactions", "account/transaction"},
				{"Recurring payments", "account/recurring"},
			}},
			{"Newsletter", []navLink{
				{"Newsletter", "account/newsletter"},
				{"Logout", "account/logout"},
			}},
		}
		for _, g := range groups {
			h.Tag("h2", g.heading)
			h.Raw(`<ul class="list-unstyled">`)
			for _, l := range g.links {
				h.Raw("<li>")
				h.Tag("a", l.Text, "href", link(l.Route))
				h.Raw("</li>")
			}
			h.Raw("</ul>")
		}
		return h.Err()
	})
}

func editView(c Customer, errs fieldErrors) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "My Account Information")
		h.Open("form", "action", link("account/edit"), "method", "post", "class", "form-horizontal", "novalidate", "")
		h.Raw(`<fieldset><legend>Your Personal Details</legend>`)
		for _, f := range personalFields(c) {
			writeField(h, f, errs[f.Name])
		}
		h.Raw(`</fieldset><div class="buttons clearfix"><div class="pull-left">`)
		h.Tag("a", "Back", "href", link("account/account"), "class", "btn btn-default")
		h.Raw(`</div><div class="pull-right"><input type="submit" value="Continue" class="btn btn-primary"></div></div></form>`)
		return h.Err()
	})
}

const orderDateLayout = "02/01/2006"

func orderHistoryView(orders []Order) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "Order History")
		if len(orders) == 0 {
			h.Tag("p", "You have not made any previous orders!")
		} else {
			h.Raw(`<div class="table-responsive"><table class="table table-bordered table-hover"><thead><tr>`)
			h.Raw(`<td class="text-right">Order ID</td><td class="text-left">Customer</td><td class="text-left">Date Added</td>`)
			h.Raw(`<td class="text-left">Status</td><td class="text-right">Total</td><td></td></tr></thead><tbody>`)
			for _, o := range orders {
				h.Raw("<tr>")
				h.Tag("td", "#"+strconv.Itoa(o.ID), "class", "text-right")
				h.Tag("td", o.Name, "class", "text-left")
				h.Tag("td", o.Added.Format(orderDateLayout), "class", "text-left")
				h.Tag("td", o.Status, "class", "text-left")
				h.Tag("td", formatPrice(o.Total), "class", "text-right")
				h.Raw(`<td class="text-right">`)
				h.Tag("a", "View", "href", link("account/order/info", "order_id", strconv.Itoa(o.ID)),
					"data-toggle", "tooltip", "title", "View", "data-original-title", "View", "class", "btn btn-info")
				h.Raw("</td></tr>")
			}
			h.Raw("</tbody></table></div>")
		}
		buttons(h, "Continue", link("account/account"))
		return h.Err()
	})
}

func orderInfoView(o Order) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", "Order Information")
		h.Raw(`<table class="table table-bordered table-hover"><tbody><tr><td class="text-left">`)
		h.Raw("<b>Order ID:</b> ")
		h.Text("#" + strconv.Itoa(o.ID))
		h.Raw("<br><b>Date Added:</b> ")
		h.Text(o.Added.Format(orderDateLayout))
		h.Raw("<br><b>Status:</b> ")
		h.Text(o.Status)
		h.Raw(`</td><td class="text-left"><b>Payment Address</b><br>`)
		h.Text(o.Name)
		for _, line := range []string{o.Address, o.City + " " + o.Postcode, o.Region + ", " + o.Country} {
			h.Raw("<br>")
			h.Text(line)
		}
		h.Raw(`</td></tr></tbody></table><table class="table table-bordered table-hover order-lines"><thead><tr>`)
		h.Raw(`<td class="text-left">Product Name</td><td class="text-left">Model</td><td class="text-right">Quantity</td><td class="text-right">Price</td><td class="text-right">Total</td></tr></thead><tbody>`)
		for _, l := range o.Lines {
			h.Raw("<tr>")
			h.Tag("td", l.Name, "class", "text-left")
			h.Tag("td", l.Model, "class", "text-left")
			h.Tag("td", strconv.Itoa(l.Quantity), "class", "text-right")
			h.Tag("td", formatPrice(l.Price), "class", "text-right")
			h.Tag("td", formatPrice(l.Price*float64(l.Quantity)), "class", "text-right")
			h.Raw("</tr>")
		}
		h.Raw(`</tbody><tfoot><tr><td colspan="4" class="text-right"><b>Flat Shipping Rate</b></td>`)
		h.Tag("td", formatPrice(o.Shipping), "class", "text-right")
		h.Raw(`</tr><tr><td colspan="4" class="text-right"><b>Total</b></td>`)
		h.Tag("td", formatPrice(o.Total), "class", "text-right")
		h.Raw("</tr></tfoot></table>")
		buttons(h, "Continue", link("account/order"))
		return h.Err()
	})
}

func accountSectionView(section accountSection) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Tag("h1", section.Title)
		h.Tag("p", section.Empty)
		buttons(h, "Continue", link("account/account"))
		return h.Err()
	})
}
