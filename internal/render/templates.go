package render

// All markup lives here as named templates. Class names are stable hooks
// for stylesheets; styling itself is out of scope.
const templateSource = `
{{define "layout_top"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.AppName}}</title>
</head>
<body>
<header class="site-header">
  <a href="/market" class="brand">{{.AppName}}</a>
  <nav>
    <a href="/market">Market</a>
    <a href="/selling">My Shop</a>
    {{if .User}}
      <span id="user-display-name" class="user-name">{{.User.Fullname}}</span>
      {{if .User.IsAdmin}}<a href="/admin">Admin</a>{{end}}
      <form method="post" action="/logout" class="inline-form"><button type="submit">Logout</button></form>
    {{else}}
      <a id="login-link" href="/login">Login</a>
    {{end}}
  </nav>
</header>
{{if .Toast}}<div id="toast" class="toast">{{.Toast}}</div>{{end}}
{{if .Error}}<div class="alert alert-error" role="alert">{{.Error}}</div>{{end}}
<main>{{end}}

{{define "layout_bottom"}}</main>
</body>
</html>{{end}}

{{define "listing_card"}}<div class="listing-card" data-listing-id="{{.ID}}">
  <div class="card-media">
    <img src="{{.Image}}" alt="{{.Name}}">
    <span class="category-tag">{{.Category}}</span>
    <span class="badge {{if .Cash}}badge-sale{{else}}badge-barter{{end}}">{{.Badge}}</span>
  </div>
  <div class="card-body">
    <h3 class="listing-name">{{.Name}}</h3>
    <div class="listing-meta">
      <span class="location">{{.Location}}</span>
      <span class="date">{{.Date}}</span>
    </div>
    <p class="description">{{.Description}}</p>
    {{if .Cash}}<span class="price">{{.Price}}</span>{{else}}<span class="exchange-label">Exchange:</span> <span class="exchange">{{.Exchange}}</span>{{end}}
  </div>
  <div class="card-footer">
    {{if .Owned}}<button disabled class="action your-item">Your Item</button>
    {{else}}<a href="/trade/{{.ID}}" class="action {{if .Cash}}action-buy{{else}}action-offer{{end}}">{{.ActionLabel}}</a>{{end}}
  </div>
</div>{{end}}

{{define "market_grid"}}{{if not .Cards}}<p class="empty-market">No listings match your search.</p>{{else}}<div class="market-grid">{{range .Cards}}{{template "listing_card" .}}{{end}}</div>{{end}}{{end}}

{{define "market_page"}}{{template "layout_top" .}}
<section id="view-market">
  <form method="get" action="/market" class="market-filters">
    <input type="search" name="q" placeholder="Search produce..." value="{{.Filters.Search}}">
    <select name="type">
      <option value="all" {{if eq .Filters.Type "all"}}selected{{end}}>All Types</option>
      <option value="cash" {{if eq .Filters.Type "cash"}}selected{{end}}>For Sale</option>
      <option value="barter" {{if eq .Filters.Type "barter"}}selected{{end}}>Barter / Trade</option>
    </select>
    <select name="location">
      <option value="all">All Locations</option>
      {{$loc := .Filters.Location}}{{range .Locations}}<option value="{{.}}" {{if eq . $loc}}selected{{end}}>{{.}}</option>{{end}}
    </select>
    <button type="submit">Filter</button>
  </form>
  <a href="/sell" class="sell-button">Sell an Item</a>
  <div id="market-grid">{{.Grid}}</div>
</section>
{{template "layout_bottom" .}}{{end}}

{{define "my_listings"}}{{if not .Items}}<p class="no-items">You haven't listed any items yet.</p>{{else}}<div class="my-listings">{{range .Items}}<div class="my-listing" data-listing-id="{{.ID}}">
  <h4>{{.Name}}</h4>
  <span class="date">{{.Date}}</span>
  <form method="post" action="/listings/{{.ID}}/delete" class="inline-form">
    <button type="submit" class="delete" onclick="return confirm('Remove this listing?')">Remove</button>
  </form>
</div>{{end}}</div>{{end}}{{end}}

{{define "incoming_offers"}}{{if not .Offers}}<div class="no-offers"><p>No active offers yet.</p></div>{{else}}<div class="offers">{{range .Offers}}<div class="offer-card" data-offer-id="{{.ID}}">
  <span class="offer-for">Offer for: {{.ItemName}}</span>
  <span class="seller">Seller: {{.SellerName}}</span>
  <p class="offer-text">{{.OfferText}}</p>
  <span class="buyer-phone">{{.BuyerPhone}}</span>
  <div class="offer-actions">
    <form method="post" action="/offers/{{.ID}}/accept" class="inline-form"><button type="submit" class="accept">Accept</button></form>
    <form method="post" action="/offers/{{.ID}}/decline" class="inline-form"><button type="submit" class="decline">Decline</button></form>
  </div>
</div>{{end}}</div>{{end}}{{end}}

{{define "selling_page"}}{{template "layout_top" .}}
<section id="view-selling">
  <div class="stats">
    <span id="user-listings-count">{{.ListingsCount}}</span> listings,
    <span id="user-trades-count">{{.TradesCount}}</span> trades
  </div>
  <h2>My Listings</h2>
  <div id="my-listings-container">{{.MyItems}}</div>
  <h2>Incoming Offers</h2>
  <div id="incoming-offers-container">{{.Offers}}</div>
</section>
{{template "layout_bottom" .}}{{end}}

{{define "sell_page"}}{{template "layout_top" .}}
<section id="sell-form-section">
  <h2>Sell an Item</h2>
  <form method="post" action="/sell" id="sell-form" enctype="multipart/form-data">
    <input id="item-name" name="name" placeholder="Item name" value="{{.Values.Name}}" required>
    <input id="item-category" name="category" placeholder="Category" value="{{.Values.Category}}" required>
    <input id="item-location" name="location" placeholder="Location" value="{{.Values.Location}}" required>
    <fieldset class="trans-type">
      <label><input type="radio" name="transType" value="cash" {{if ne .Values.Type "barter"}}checked{{end}} onchange="togglePriceMode()"> Sell for Cash</label>
      <label><input type="radio" name="transType" value="barter" {{if eq .Values.Type "barter"}}checked{{end}} onchange="togglePriceMode()"> Barter / Trade</label>
    </fieldset>
    <div id="price-input-container">
      <input id="item-price" name="price" type="number" min="1" step="any" placeholder="Price (KSh)" value="{{if .Values.Price}}{{.Values.Price}}{{end}}">
    </div>
    <div id="barter-input-container">
      <textarea id="item-barter-desc" name="barterDesc" placeholder="What do you want in exchange?">{{.Values.BarterDesc}}</textarea>
    </div>
    <textarea id="item-desc" name="description" placeholder="Description">{{.Values.Description}}</textarea>
    <input id="item-image" name="image" type="file" accept="image/*">
    <button type="submit">List Item</button>
  </form>
  <script>
  function togglePriceMode() {
    var cash = document.querySelector('input[name="transType"]:checked').value === 'cash';
    document.getElementById('price-input-container').hidden = !cash;
    document.getElementById('barter-input-container').hidden = cash;
    document.getElementById('item-price').required = cash;
    document.getElementById('item-barter-desc').required = !cash;
  }
  togglePriceMode();
  </script>
</section>
{{template "layout_bottom" .}}{{end}}

{{define "trade_page"}}{{template "layout_top" .}}
<section id="trade-form-section">
  {{if .Cash}}
    <h2 id="trade-modal-title">Contact Seller to Buy</h2>
    <p id="trade-modal-subtitle">You are inquiring to buy this item with cash.</p>
  {{else}}
    <h2 id="trade-modal-title">Make a Barter Offer</h2>
    <p id="trade-modal-subtitle">Propose an exchange for this item.</p>
  {{end}}
  <div class="trade-item">
    <span id="trade-item-name">{{.ItemName}}</span>
    <span id="trade-item-location">{{.ItemLocation}}</span>
    <span id="trade-item-price">{{if .Cash}}{{.Price}}{{else}}Seeking: {{.Exchange}}{{end}}</span>
  </div>
  <form method="post" action="/offers">
    <input type="hidden" name="productId" value="{{.ListingID}}">
    <input id="trade-phone" name="phone" placeholder="Your phone number" value="{{.Phone}}">
    {{if not .Cash}}
    <div id="barter-offer-section">
      <textarea id="trade-offer-desc" name="offerDesc" placeholder="What do you offer in exchange?" required>{{.OfferDesc}}</textarea>
    </div>
    {{end}}
    <button type="submit">{{if .Cash}}Send Purchase Request{{else}}Send Offer{{end}}</button>
  </form>
</section>
{{template "layout_bottom" .}}{{end}}

{{define "login_page"}}{{template "layout_top" .}}
<section id="login-section">
  <h2>Login</h2>
  <form method="post" action="/login">
    <input id="phone" name="phone" placeholder="Phone number" value="{{.Phone}}" required>
    <input id="password" name="password" type="password" placeholder="Password" required>
    <button type="submit">Login</button>
  </form>
  <p><a href="/register">Create an account</a></p>
</section>
{{template "layout_bottom" .}}{{end}}

{{define "register_page"}}{{template "layout_top" .}}
<section id="register-section">
  <h2>Register</h2>
  <form method="post" action="/register">
    <input name="fullname" placeholder="Full name" value="{{.Fullname}}" required>
    <input name="phone" placeholder="Phone number" value="{{.Phone}}" required>
    <input name="password" type="password" placeholder="Password" required>
    <input name="confirmPassword" type="password" placeholder="Confirm password" required>
    <select name="role">
      <option value="farmer" selected>Farmer</option>
      <option value="admin">Admin</option>
    </select>
    <button type="submit">Register</button>
  </form>
  <p><a href="/login">Already have an account?</a></p>
</section>
{{template "layout_bottom" .}}{{end}}

{{define "admin_page"}}{{template "layout_top" .}}
<section id="admin-dashboard">
  <h2>Admin Dashboard</h2>
  <div class="stat-cards">
    <div class="stat-card"><span id="total-users">{{.Stats.TotalUsers}}</span> Users</div>
    <div class="stat-card"><span id="total-products">{{.Stats.TotalProducts}}</span> Products</div>
    <div class="stat-card"><span id="farmer-count">{{.Stats.FarmerCount}}</span> Farmers</div>
    <div class="stat-card"><span id="admin-count">{{.Stats.AdminCount}}</span> Admins</div>
  </div>

  <h3>Users</h3>
  <table id="users-table">
    <thead><tr><th>Name</th><th>Phone</th><th>Role</th><th>Joined</th></tr></thead>
    <tbody>{{range .Users}}<tr>
      <td>{{.Fullname}}</td><td>{{.Phone}}</td>
      <td><span class="role role-{{.Role}}">{{.Role}}</span></td>
      <td>{{.CreatedAt}}</td>
    </tr>{{end}}</tbody>
  </table>

  <h3>Products</h3>
  <table id="products-table">
    <thead><tr><th>Product</th><th>Seller</th><th>Type</th><th>Location</th><th></th></tr></thead>
    <tbody>{{range .Products}}<tr id="product-row-{{.ID}}">
      <td>{{.Name}} <span class="category">{{.Category}}</span></td>
      <td>{{.Seller}}</td>
      <td>{{if .Cash}}{{.Price}}{{else}}Barter{{end}}</td>
      <td>{{.Location}}</td>
      <td><form method="post" action="/admin/products/{{.ID}}/delete" class="inline-form">
        <button type="submit" class="delete" onclick="return confirm('Delete this product?')">Delete</button>
      </form></td>
    </tr>{{end}}</tbody>
  </table>

  <h3>Offers</h3>
  <table id="requests-table">
    <thead><tr><th>Product</th><th>Buyer</th><th>Offer</th><th>Status</th><th></th></tr></thead>
    <tbody>{{range .Offers}}<tr data-offer-id="{{.ID}}">
      <td>{{.ItemName}}</td>
      <td>{{.BuyerName}} ({{.BuyerPhone}})</td>
      <td>{{.OfferText}}</td>
      <td><span class="status status-{{.Status}}">{{.Status}}</span></td>
      <td>{{if .Pending}}
        <form method="post" action="/admin/offers/{{.ID}}/accept" class="inline-form"><button type="submit">Accept</button></form>
        <form method="post" action="/admin/offers/{{.ID}}/reject" class="inline-form"><button type="submit">Reject</button></form>
      {{end}}</td>
    </tr>{{end}}</tbody>
  </table>
</section>
{{template "layout_bottom" .}}{{end}}
`
