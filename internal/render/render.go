package render

import (
	"bytes"
	"fmt"
	"html/template"
	"iter"
	"strings"

	"github.com/dustin/go-humanize"

	"mkulima/soko/internal/models"
)

// Engine turns marketplace state into markup. It holds no mutable state
// beyond the parsed templates, so every method is a pure projection:
// identical inputs produce identical output.
type Engine struct {
	t            *template.Template
	appName      string
	defaultImage string
}

// New parses the templates and returns a ready engine.
func New(appName, defaultImage string) (*Engine, error) {
	t, err := template.New("soko").Parse(templateSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Engine{t: t, appName: appName, defaultImage: defaultImage}, nil
}

// FormatKSh renders a cash amount as "KSh" plus a thousands-grouped figure.
func FormatKSh(amount float64) string {
	return "KSh " + humanize.Commaf(amount)
}

// PageData is the chrome every page shares.
type PageData struct {
	AppName string
	User    *models.User
	Toast   string
	Error   string
}

// NewPageData builds the common chrome for a page.
func (e *Engine) NewPageData(user *models.User, toast, errMsg string) PageData {
	return PageData{AppName: e.appName, User: user, Toast: toast, Error: errMsg}
}

// Card is the view model for one listing in the market grid.
type Card struct {
	ID          int64
	Name        string
	Category    string
	Seller      string
	Location    string
	Date        string
	Description string
	Image       string
	Cash        bool
	Price       string
	Exchange    string
	Badge       string
	Owned       bool
	ActionLabel string
}

// projectCard maps a listing to its card view. The ownership check happens
// before the cash/barter action branch is chosen.
func (e *Engine) projectCard(l models.Listing, owned bool) Card {
	card := Card{
		ID:          l.ID,
		Name:        l.Name,
		Category:    l.Category,
		Seller:      l.Seller,
		Location:    l.Location,
		Date:        l.Date,
		Description: l.Description,
		Image:       e.imagePath(l.ImageURL),
		Cash:        l.IsCash(),
	}
	if card.Category == "" {
		card.Category = "General"
	}
	if card.Date == "" {
		card.Date = "Today"
	}
	if card.Description == "" {
		card.Description = "No description provided."
	}

	if card.Cash {
		card.Price = FormatKSh(l.Price)
		card.Badge = "For Sale"
	} else {
		card.Exchange = l.BarterDesc
		if card.Exchange == "" {
			card.Exchange = "Trade requested"
		}
		card.Badge = "Barter / Trade"
	}

	if owned {
		card.Owned = true
		card.ActionLabel = "Your Item"
	} else if card.Cash {
		card.ActionLabel = "Buy Now"
	} else {
		card.ActionLabel = "Make Offer"
	}
	return card
}

// imagePath normalises backend image references to servable URLs, falling
// back to the placeholder when empty.
func (e *Engine) imagePath(p string) string {
	if p == "" {
		return e.defaultImage
	}
	if strings.HasPrefix(p, "/user/") || strings.HasPrefix(p, "http") {
		return p
	}
	return "/user/images/" + strings.TrimPrefix(p, "images/")
}

func (e *Engine) fragment(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func (e *Engine) page(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// MarketGrid projects a filtered view of the listings to the grid fragment.
// An empty view renders a single empty-state element.
func (e *Engine) MarketGrid(listings iter.Seq[models.Listing], owned map[int64]bool) (template.HTML, error) {
	var cards []Card
	for l := range listings {
		cards = append(cards, e.projectCard(l, owned[l.ID]))
	}
	return e.fragment("market_grid", struct{ Cards []Card }{cards})
}

// MyListings renders the "my items" panel.
func (e *Engine) MyListings(mine []models.Listing) (template.HTML, error) {
	cards := make([]Card, 0, len(mine))
	for _, l := range mine {
		cards = append(cards, e.projectCard(l, true))
	}
	return e.fragment("my_listings", struct{ Items []Card }{cards})
}

// offerView is the view model for one offer row.
type offerView struct {
	ID         int64
	ItemName   string
	SellerName string
	BuyerName  string
	BuyerPhone string
	OfferText  string
	Status     string
	Pending    bool
}

// IncomingOffers renders the incoming-offers panel. Offers whose listing has
// been deleted are rendered with placeholder product info rather than
// dropped or treated as an error.
func (e *Engine) IncomingOffers(offers []models.Offer, lookup func(int64) (models.Listing, bool)) (template.HTML, error) {
	views := make([]offerView, 0, len(offers))
	for _, o := range offers {
		v := offerView{
			ID:         o.ID,
			ItemName:   "(listing removed)",
			SellerName: "Unknown Seller",
			BuyerName:  o.BuyerName,
			BuyerPhone: o.BuyerPhone,
			Status:     o.Status,
			Pending:    o.Status == models.OfferStatusPending,
		}
		if v.BuyerPhone == "" {
			v.BuyerPhone = "N/A"
		}
		if item, ok := lookup(o.ProductID); ok {
			v.ItemName = item.Name
			if item.Seller != "" {
				v.SellerName = item.Seller
			}
		}
		if o.BarterOffer != "" {
			v.OfferText = fmt.Sprintf("Offer: %q", o.BarterOffer)
		} else {
			v.OfferText = "Wants to buy for listed price"
		}
		views = append(views, v)
	}
	return e.fragment("incoming_offers", struct{ Offers []offerView }{views})
}

// MarketPageData feeds the market page template.
type MarketPageData struct {
	PageData
	Filters   models.FilterState
	Locations []string
	Grid      template.HTML
}

// MarketPage renders the full market page.
func (e *Engine) MarketPage(data MarketPageData) ([]byte, error) {
	return e.page("market_page", data)
}

// SellingPageData feeds the "my shop" page template.
type SellingPageData struct {
	PageData
	ListingsCount int
	TradesCount   int
	MyItems       template.HTML
	Offers        template.HTML
}

// SellingPage renders the my-listings / incoming-offers page.
func (e *Engine) SellingPage(data SellingPageData) ([]byte, error) {
	return e.page("selling_page", data)
}

// SellValues carries the entered sell-form values back into the form so a
// failed submission never loses user input.
type SellValues struct {
	Name        string
	Category    string
	Location    string
	Type        string
	Price       float64
	BarterDesc  string
	Description string
}

// SellPageData feeds the sell form template.
type SellPageData struct {
	PageData
	Values SellValues
}

// SellPage renders the sell form.
func (e *Engine) SellPage(data SellPageData) ([]byte, error) {
	return e.page("sell_page", data)
}

// TradePageData feeds the buy/offer form. The cash-or-barter branch is fixed
// here, at form-open time, and decides the visible input subtree.
type TradePageData struct {
	PageData
	ListingID    int64
	Cash         bool
	ItemName     string
	ItemLocation string
	Price        string
	Exchange     string
	Phone        string
	OfferDesc    string
}

// NewTradePageData projects a listing into the trade form's view.
func (e *Engine) NewTradePageData(pd PageData, l models.Listing, phone string) TradePageData {
	data := TradePageData{
		PageData:     pd,
		ListingID:    l.ID,
		Cash:         l.IsCash(),
		ItemName:     l.Name,
		ItemLocation: l.Location,
		Phone:        phone,
	}
	if data.Cash {
		data.Price = FormatKSh(l.Price)
	} else {
		data.Exchange = l.BarterDesc
		if data.Exchange == "" {
			data.Exchange = "Trade requested"
		}
	}
	return data
}

// TradePage renders the buy/offer form.
func (e *Engine) TradePage(data TradePageData) ([]byte, error) {
	return e.page("trade_page", data)
}

// LoginPageData feeds the login template.
type LoginPageData struct {
	PageData
	Phone string
}

// LoginPage renders the login form.
func (e *Engine) LoginPage(data LoginPageData) ([]byte, error) {
	return e.page("login_page", data)
}

// RegisterPageData feeds the register template.
type RegisterPageData struct {
	PageData
	Fullname string
	Phone    string
}

// RegisterPage renders the registration form.
func (e *Engine) RegisterPage(data RegisterPageData) ([]byte, error) {
	return e.page("register_page", data)
}

// AdminPageData feeds the admin dashboard template.
type AdminPageData struct {
	PageData
	Stats    *models.AdminStats
	Users    []models.User
	Products []Card
	Offers   []offerView
}

// NewAdminPageData projects backend admin data into the dashboard view.
// Offer rows use the product fields the backend joins in; a missing join
// (deleted product) degrades to placeholders.
func (e *Engine) NewAdminPageData(pd PageData, stats *models.AdminStats, users []models.User, products []models.Listing, offers []models.Offer) AdminPageData {
	data := AdminPageData{PageData: pd, Stats: stats, Users: users}
	if data.Stats == nil {
		data.Stats = &models.AdminStats{}
	}
	for _, p := range products {
		data.Products = append(data.Products, e.projectCard(p, false))
	}
	for _, o := range offers {
		v := offerView{
			ID:         o.ID,
			ItemName:   o.ProductName,
			SellerName: o.SellerName,
			BuyerName:  o.BuyerName,
			BuyerPhone: o.BuyerPhone,
			Status:     o.Status,
			Pending:    o.Status == models.OfferStatusPending,
		}
		if v.ItemName == "" {
			v.ItemName = "(listing removed)"
		}
		if o.ProductType == models.TypeCash {
			v.OfferText = FormatKSh(o.OfferAmount)
		} else if o.BarterOffer != "" {
			v.OfferText = o.BarterOffer
		} else {
			v.OfferText = "Barter offer"
		}
		data.Offers = append(data.Offers, v)
	}
	return data
}

// AdminPage renders the admin dashboard.
func (e *Engine) AdminPage(data AdminPageData) ([]byte, error) {
	return e.page("admin_page", data)
}
