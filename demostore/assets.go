package demostore

const storeCSS = `
body { font-family: "Open Sans", sans-serif; font-size: 12px; color: #666; margin: 0; }
.container { max-width: 1170px; margin: 0 auto; padding: 0 15px; }
#top { background: #eee; border-bottom: 1px solid #e2e2e2; padding: 4px 0; }
#top .list-inline { list-style: none; margin: 0; padding: 0; display: flex; gap: 12px; justify-content: flex-end; }
#logo a { font-size: 28px; color: #229ac8; text-decoration: none; }
header .row, #container .row { display: flex; flex-wrap: wrap; gap: 16px; align-items: center; }
#content { flex: 1; min-width: 0; padding: 16px 0; }
#column-right { width: 220px; }
.list-group-item { display: block; padding: 6px 10px; border: 1px solid #ddd; margin-bottom: -1px; }
.btn { display: inline-block; padding: 6px 12px; border: 1px solid #ccc; border-radius: 4px; background: #fff; cursor: pointer; }
.btn-primary { background: #229ac8; border-color: #1f90bb; color: #fff; }
.btn-danger { background: #da4f49; color: #fff; }
.btn-link { border-color: transparent; background: none; color: #888; }
.form-control { display: block; width: 100%; max-width: 400px; padding: 6px; box-sizing: border-box; }
.form-group { margin-bottom: 12px; }
.text-danger { color: #a94442; }
.alert { padding: 8px 14px; margin-bottom: 12px; border: 1px solid transparent; border-radius: 4px; }
.alert-success { color: #3c763d; background: #dff0d8; border-color: #d6e9c6; }
.alert-danger { color: #a94442; background: #f2dede; border-color: #ebccd1; }
.product-layout { display: inline-block; vertical-align: top; width: 240px; margin: 0 8px 16px 0; border: 1px solid #ddd; }
.product-layout.product-list { display: block; width: auto; }
.caption { padding: 0 12px; }
.price { color: #444; font-weight: 600; }
table { border-collapse: collapse; width: 100%; margin-bottom: 16px; }
td { border: 1px solid #ddd; padding: 6px; }
.panel { border: 1px solid #ddd; margin-bottom: 8px; }
.panel-heading { background: #f5f5f5; padding: 8px 12px; }
.panel-title { margin: 0; }
.panel-body { padding: 12px; }
.well { background: #f5f5f5; border: 1px solid #e3e3e3; padding: 16px; }
.buttons { overflow: hidden; margin: 12px 0; }
.pull-left { float: left; }
.pull-right { float: right; }
.dropdown-menu { display: none; position: fixed; top: 28px; right: 16px; z-index: 1000; list-style: none; margin: 0; padding: 6px 0; background: #fff; border: 1px solid #ccc; min-width: 160px; }
.dropdown-menu.open { display: block; }
.dropdown-menu a { display: block; padding: 4px 16px; }
`

const storeScript = `
var accountMenu = {
  toggle: function(e) {
    if (e) { e.preventDefault(); }
    document.getElementById('account-menu').classList.toggle('open');
    return false;
  }
};

function alertBox(kind, text) {
  var content = document.getElementById('content');
  content.querySelectorAll(':scope > .alert-dismissible').forEach(function(el) { el.remove(); });
  var div = document.createElement('div');
  div.className = 'alert alert-' + kind + ' alert-dismissible';
  div.textContent = text;
  content.insertBefore(div, content.firstChild);
}

function post(route, data) {
  return fetch('/index.php?route=' + route, {
    method: 'POST',
    credentials: 'same-origin',
    headers: {
      'X-Requested-With': 'XMLHttpRequest',
      'Content-Type': 'application/x-www-form-urlencoded'
    },
    body: new URLSearchParams(data)
  }).then(function(response) { return response.json(); });
}

function showResult(json) {
  if (json.error) {
    alertBox('danger', json.error);
    return false;
  }
  alertBox('success', json.success);
  return true;
}

var cart = {
  add: function(productId, quantity) {
    post('checkout/cart/add', { product_id: productId, quantity: quantity || 1 }).then(function(json) {
      if (showResult(json) && json.total) {
        document.getElementById('cart-total').textContent = json.total;
      }
    });
  }
};

var wishlist = {
  add: function(productId) {
    post('account/wishlist/add', { product_id: productId }).then(showResult);
  }
};

var compare = {
  add: function(productId) {
    post('product/compare/add', { product_id: productId }).then(showResult);
  }
};

var coupon = {
  apply: function() {
    post('checkout/coupon', { coupon: document.getElementById('input-coupon').value }).then(showResult);
  }
};

var productView = {
  list: function() {
    document.querySelectorAll('.product-layout').forEach(function(el) { el.classList.add('product-list'); el.classList.remove('product-grid'); });
  },
  grid: function() {
    document.querySelectorAll('.product-layout').forEach(function(el) { el.classList.add('product-grid'); el.classList.remove('product-list'); });
  }
};

var checkout = {
  show: function(id) {
    document.querySelectorAll('.checkout-step').forEach(function(step) {
      step.querySelector('.panel-body').style.display = step.id === id ? 'block' : 'none';
    });
  },
  account: function() {
    var choice = document.querySelector('input[name=account]:checked');
    var value = choice ? choice.value : '';
    if (value === 'register') { location = '/index.php?route=account/register'; return; }
    if (value === 'returning') { location = '/index.php?route=account/login'; return; }
    if (value !== 'guest') { alertBox('danger', 'Warning: Please select a checkout option!'); return; }
    checkout.show('collapse-payment-address');
  },
  billing: function() {
    var step = document.getElementById('collapse-payment-address');
    step.querySelectorAll('.text-danger').forEach(function(el) { el.remove(); });
    var missing = Array.prototype.filter.call(step.querySelectorAll('[data-required]'), function(el) {
      return !el.value.trim();
    });
    missing.forEach(function(el) {
      var msg = document.createElement('div');
      msg.className = 'text-danger';
      msg.textContent = 'This field is required!';
      el.parentNode.appendChild(msg);
    });
    if (missing.length === 0) { checkout.show('collapse-shipping-address'); }
  },
  payment: function() {
    if (!document.querySelector('input[name=agree]').checked) {
      alertBox('danger', 'Warning: You must agree to the Terms & Conditions!');
      return;
    }
    checkout.show('collapse-checkout-confirm');
  },
  zones: function() {
    var country = document.getElementById('input-payment-country');
    var zone = document.getElementById('input-payment-zone');
    zone.innerHTML = '';
    zone.add(new Option(' --- Please Select --- ', ''));
    (checkoutZones[country.value] || []).forEach(function(z) { zone.add(new Option(z.name, z.id)); });
  }
};
`
