package handlers

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"mkulima/soko/internal/api/middleware"
	"mkulima/soko/internal/config"
	"mkulima/soko/internal/index"
	"mkulima/soko/internal/models"
	"mkulima/soko/internal/render"
	"mkulima/soko/internal/session"
	"mkulima/soko/internal/storage"
	"mkulima/soko/internal/tradeflow"
)

// MarketHandler serves the market grid, the sell flow and the trade flow.
type MarketHandler struct {
	cfg      *config.Config
	engine   *render.Engine
	idx      *index.Index
	sessions *session.Manager
	flow     *tradeflow.Flow
	images   storage.IImageStorage // nil when uploads are not configured
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(
	cfg *config.Config,
	engine *render.Engine,
	idx *index.Index,
	sessions *session.Manager,
	flow *tradeflow.Flow,
	images storage.IImageStorage,
) *MarketHandler {
	return &MarketHandler{
		cfg:      cfg,
		engine:   engine,
		idx:      idx,
		sessions: sessions,
		flow:     flow,
		images:   images,
	}
}

// pageData assembles the common page chrome from the session and the
// post-redirect flash parameters.
func pageData(c *gin.Context, engine *render.Engine) render.PageData {
	return engine.NewPageData(middleware.CurrentUser(c), c.Query("toast"), c.Query("error"))
}

// writePage sends a rendered page, or a plain 500 when rendering failed.
func writePage(c *gin.Context, page []byte, err error) {
	if err != nil {
		log.Printf("ERROR rendering %s: %v", c.FullPath(), err)
		c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// redirectWith sends the browser to path carrying a one-shot flash message.
func redirectWith(c *gin.Context, path, param, message string) {
	c.Redirect(http.StatusSeeOther, path+"?"+param+"="+url.QueryEscape(message))
}

// ownedSet loads the session's ownership set. A session store failure
// degrades to an empty set rather than failing the page.
func (h *MarketHandler) ownedSet(c *gin.Context) map[int64]bool {
	state, err := h.sessions.Load(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		log.Printf("WARN: Session load failed for %s: %v", middleware.SessionID(c), err)
		return map[int64]bool{}
	}
	return state.OwnedSet()
}

// GetMarket handles GET /. Filters come straight from the query string so
// filtered views survive reload and are linkable.
func (h *MarketHandler) GetMarket(c *gin.Context) {
	filters := models.NewFilterState(c.Query("q"), c.Query("type"), c.Query("location"))

	grid, err := h.engine.MarketGrid(h.idx.Apply(filters), h.ownedSet(c))
	if err != nil {
		writePage(c, nil, err)
		return
	}

	page, err := h.engine.MarketPage(render.MarketPageData{
		PageData:  pageData(c, h.engine),
		Filters:   filters,
		Locations: h.idx.Locations(),
		Grid:      grid,
	})
	writePage(c, page, err)
}

// GetSelling handles GET /selling, the seller's own listings and the offers
// mirrored for this session.
func (h *MarketHandler) GetSelling(c *gin.Context) {
	state, err := h.sessions.Load(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		log.Printf("WARN: Session load failed for %s: %v", middleware.SessionID(c), err)
		state = &session.State{}
	}

	mine := h.idx.Owned(state.OwnedSet())
	myItems, err := h.engine.MyListings(mine)
	if err != nil {
		writePage(c, nil, err)
		return
	}
	offers, err := h.engine.IncomingOffers(state.Offers, h.idx.Get)
	if err != nil {
		writePage(c, nil, err)
		return
	}

	page, err := h.engine.SellingPage(render.SellingPageData{
		PageData:      pageData(c, h.engine),
		ListingsCount: len(mine),
		TradesCount:   len(state.Offers),
		MyItems:       myItems,
		Offers:        offers,
	})
	writePage(c, page, err)
}

// GetSell handles GET /sell, the empty sell form.
func (h *MarketHandler) GetSell(c *gin.Context) {
	page, err := h.engine.SellPage(render.SellPageData{
		PageData: pageData(c, h.engine),
		Values:   render.SellValues{Type: models.TypeCash},
	})
	writePage(c, page, err)
}

// PostSell handles POST /sell. On success it redirects to the seller page;
// on failure it re-renders the form with the entered values intact.
func (h *MarketHandler) PostSell(c *gin.Context) {
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)
	in := tradeflow.SellInput{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		Location:    c.PostForm("location"),
		Type:        c.DefaultPostForm("transType", models.TypeCash),
		Price:       price,
		BarterDesc:  c.PostForm("barterDesc"),
		Description: c.PostForm("description"),
	}

	if imageURL, err := h.uploadImage(c); err != nil {
		h.rerenderSell(c, in, err.Error())
		return
	} else {
		in.ImageURL = imageURL
	}

	res := h.flow.SubmitSell(c.Request.Context(), middleware.SessionID(c), middleware.CurrentUser(c), in)
	if res.State != tradeflow.Succeeded {
		h.rerenderSell(c, in, res.Message)
		return
	}
	redirectWith(c, "/selling", "toast", res.Message)
}

func (h *MarketHandler) rerenderSell(c *gin.Context, in tradeflow.SellInput, errMsg string) {
	page, err := h.engine.SellPage(render.SellPageData{
		PageData: h.engine.NewPageData(middleware.CurrentUser(c), "", errMsg),
		Values: render.SellValues{
			Name:        in.Name,
			Category:    in.Category,
			Location:    in.Location,
			Type:        in.Type,
			Price:       in.Price,
			BarterDesc:  in.BarterDesc,
			Description: in.Description,
		},
	})
	writePage(c, page, err)
}

// uploadImage stores the optional listing photo and returns its URL. Missing
// file or unconfigured storage yields an empty URL; listings then show the
// default image.
func (h *MarketHandler) uploadImage(c *gin.Context) (string, error) {
	if h.images == nil {
		return "", nil
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", nil // no file attached
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("WARN: Opening uploaded image failed: %v", err)
		return "", nil
	}
	defer file.Close()

	maxBytes := int64(h.cfg.ImageMaxSizeMB) * 1024 * 1024
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		log.Printf("WARN: Reading uploaded image failed: %v", err)
		return "", nil
	}

	imageURL, err := h.images.UploadListingImage(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		return "", err
	}
	return imageURL, nil
}

// GetTrade handles GET /trade/:id, the buy or offer form for one listing.
// The cash-or-barter branch is fixed here and never re-chosen client side.
func (h *MarketHandler) GetTrade(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectWith(c, "/", "error", "This listing is no longer available.")
		return
	}

	listing, ok := h.idx.Get(id)
	if !ok {
		redirectWith(c, "/", "error", "This listing is no longer available.")
		return
	}
	if h.ownedSet(c)[id] {
		redirectWith(c, "/", "error", "You cannot trade on your own listing.")
		return
	}

	phone := ""
	if user := middleware.CurrentUser(c); user != nil {
		phone = user.Phone
	}
	page, err := h.engine.TradePage(h.engine.NewTradePageData(pageData(c, h.engine), listing, phone))
	writePage(c, page, err)
}

// PostOffer handles POST /offers, the submit side of the trade form.
func (h *MarketHandler) PostOffer(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		redirectWith(c, "/login", "error", "Please login first to make an offer.")
		return
	}

	listingID, _ := strconv.ParseInt(c.PostForm("productId"), 10, 64)
	in := tradeflow.OfferInput{
		ListingID: listingID,
		Phone:     c.PostForm("phone"),
		OfferDesc: c.PostForm("offerDesc"),
	}

	res := h.flow.SubmitOffer(c.Request.Context(), middleware.SessionID(c), user, in)
	if res.State == tradeflow.Succeeded {
		redirectWith(c, "/", "toast", res.Message)
		return
	}

	listing, ok := h.idx.Get(listingID)
	if !ok {
		redirectWith(c, "/", "error", "This listing is no longer available.")
		return
	}
	data := h.engine.NewTradePageData(h.engine.NewPageData(user, "", res.Message), listing, in.Phone)
	data.OfferDesc = in.OfferDesc
	page, err := h.engine.TradePage(data)
	writePage(c, page, err)
}

// PostDeleteListing handles POST /listings/:id/delete. Only listings the
// session authored can be removed here; the admin dashboard has its own
// removal path.
func (h *MarketHandler) PostDeleteListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || !h.ownedSet(c)[id] {
		redirectWith(c, "/selling", "error", "You can only remove your own listings.")
		return
	}

	res := h.flow.DeleteListing(c.Request.Context(), middleware.SessionID(c), id)
	if res.State != tradeflow.Succeeded {
		redirectWith(c, "/selling", "error", res.Message)
		return
	}
	redirectWith(c, "/selling", "toast", res.Message)
}

// PostHandleOffer handles POST /offers/:id/accept and /offers/:id/decline.
func (h *MarketHandler) PostHandleOffer(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			redirectWith(c, "/selling", "error", "Invalid offer.")
			return
		}

		res := h.flow.HandleOffer(c.Request.Context(), middleware.SessionID(c), id, status)
		if res.State != tradeflow.Succeeded {
			redirectWith(c, "/selling", "error", res.Message)
			return
		}
		redirectWith(c, "/selling", "toast", res.Message)
	}
}
