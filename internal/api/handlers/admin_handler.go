package handlers

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"mkulima/soko/internal/config"
	"mkulima/soko/internal/index"
	"mkulima/soko/internal/models"
	"mkulima/soko/internal/remote"
	"mkulima/soko/internal/render"
	"mkulima/soko/internal/tradeflow"
)

// AdminHandler serves the moderation dashboard. All data on it comes live
// from the backend; nothing is mirrored into sessions.
type AdminHandler struct {
	cfg    *config.Config
	engine *render.Engine
	client remote.IClient
	idx    *index.Index
	flow   *tradeflow.Flow
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cfg *config.Config, engine *render.Engine, client remote.IClient, idx *index.Index, flow *tradeflow.Flow) *AdminHandler {
	return &AdminHandler{
		cfg:    cfg,
		engine: engine,
		client: client,
		idx:    idx,
		flow:   flow,
	}
}

// GetDashboard handles GET /admin. A failing stats or users call degrades
// that panel to empty instead of failing the whole page.
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.client.AdminStats(ctx)
	if err != nil {
		log.Printf("WARN: Admin stats unavailable: %v", err)
	}
	users, err := h.client.AdminUsers(ctx)
	if err != nil {
		log.Printf("WARN: Admin users unavailable: %v", err)
	}
	offers, err := h.client.AdminOffers(ctx)
	if err != nil {
		log.Printf("WARN: Admin offers unavailable: %v", err)
	}

	data := h.engine.NewAdminPageData(pageData(c, h.engine), stats, users, h.idx.All(), offers)
	page, err := h.engine.AdminPage(data)
	writePage(c, page, err)
}

// PostOfferStatus handles POST /admin/offers/:id/accept and /reject.
func (h *AdminHandler) PostOfferStatus(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			redirectWith(c, "/admin", "error", "Invalid offer.")
			return
		}
		if !models.ValidStatusTransition(models.OfferStatusPending, status) {
			redirectWith(c, "/admin", "error", "Invalid offer status.")
			return
		}

		if err := h.client.SetOfferStatus(c.Request.Context(), id, status); err != nil {
			redirectWith(c, "/admin", "error", remote.UserMessage(err))
			return
		}
		redirectWith(c, "/admin", "toast", "Offer handled")
	}
}

// PostDeleteProduct handles POST /admin/products/:id/delete, the moderation
// removal of any listing regardless of author.
func (h *AdminHandler) PostDeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectWith(c, "/admin", "error", "Invalid listing.")
		return
	}

	if err := h.client.AdminDeleteProduct(c.Request.Context(), id); err != nil {
		redirectWith(c, "/admin", "error", remote.UserMessage(err))
		return
	}
	if err := h.flow.RefreshListings(c.Request.Context()); err != nil {
		log.Printf("WARN: Refetch after admin delete failed: %v", err)
	}
	redirectWith(c, "/admin", "toast", "Listing removed")
}
