package tradeflow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"mkulima/soko/internal/index"
	"mkulima/soko/internal/models"
	"mkulima/soko/internal/remote"
	"mkulima/soko/internal/session"
)

// State of a submission. Every flow starts Idle, moves to Submitting once
// validation passes, and ends Succeeded or Failed. A validation failure
// never leaves Idle and never issues a request.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of one submission. Message is always user-facing.
type Result struct {
	State     State
	Message   string
	ListingID int64 // server-assigned, sell flow only
	OfferID   int64 // server-assigned, offer flow only
}

// Flow orchestrates the modal-driven submission sequences: validation,
// the backend call, session bookkeeping, and the mutate-then-refetch
// ordering that keeps the listing index consistent with the server.
type Flow struct {
	remote   remote.IClient
	index    *index.Index
	sessions *session.Manager

	mu       sync.Mutex
	inflight map[string]bool
}

// New creates a trade flow over the given collaborators.
func New(client remote.IClient, idx *index.Index, sessions *session.Manager) *Flow {
	return &Flow{
		remote:   client,
		index:    idx,
		sessions: sessions,
		inflight: make(map[string]bool),
	}
}

// begin acquires the per-session submission gate. At most one submission
// may be in flight per session at a time.
func (f *Flow) begin(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inflight[sessionID] {
		return false
	}
	f.inflight[sessionID] = true
	return true
}

func (f *Flow) end(sessionID string) {
	f.mu.Lock()
	delete(f.inflight, sessionID)
	f.mu.Unlock()
}

// RefreshListings refetches the whole product collection into the index.
// The fetch is an idempotent read, so transient network failures retry.
func (f *Flow) RefreshListings(ctx context.Context) error {
	var listings []models.Listing
	err := remote.Try(func() error {
		var err error
		listings, err = f.remote.ListProducts(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("market refresh failed: %w", err)
	}
	f.index.ReplaceAll(listings)
	return nil
}

// SellInput carries the sell form fields.
type SellInput struct {
	Name        string
	Category    string
	Location    string
	Type        string // "cash" or "barter", fixed when the form opened
	Price       float64
	BarterDesc  string
	Description string
	ImageURL    string
}

// validateSell checks the required fields per transaction type.
func validateSell(in SellInput) string {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" || strings.TrimSpace(in.Location) == "" {
		return "Please fill in all required fields."
	}
	switch in.Type {
	case models.TypeCash:
		if in.Price <= 0 {
			return "Please enter a valid price."
		}
	case models.TypeBarter:
		if strings.TrimSpace(in.BarterDesc) == "" {
			return "Please describe what you want in exchange."
		}
	default:
		return "Please choose cash sale or barter."
	}
	return ""
}

// SubmitSell runs the sell submission sequence. On success the
// server-assigned ID joins the session's ownership set, then the index is
// refetched so the new listing appears on the next render.
func (f *Flow) SubmitSell(ctx context.Context, sessionID string, user *models.User, in SellInput) Result {
	if user == nil {
		return Result{State: Idle, Message: "You must be logged in to sell items."}
	}
	if msg := validateSell(in); msg != "" {
		return Result{State: Idle, Message: msg}
	}
	if !f.begin(sessionID) {
		return Result{State: Idle, Message: "A submission is already in progress."}
	}
	defer f.end(sessionID)

	draft := models.ListingDraft{
		Name:        in.Name,
		Category:    in.Category,
		Type:        in.Type,
		Location:    in.Location,
		Seller:      user.Fullname,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Date:        "Just now",
	}
	if in.Type == models.TypeCash {
		draft.Price = in.Price
	} else {
		draft.BarterDesc = in.BarterDesc
	}

	id, err := f.remote.CreateProduct(ctx, draft)
	if err != nil {
		return Result{State: Failed, Message: remote.UserMessage(err)}
	}

	if err := f.sessions.RecordOwnedListing(ctx, sessionID, id); err != nil {
		log.Printf("WARN: Listing %d created but ownership not recorded for session %s: %v", id, sessionID, err)
	}
	// Sequential mutate-then-refetch: the refetch always reflects the
	// listing the server just acknowledged.
	if err := f.RefreshListings(ctx); err != nil {
		log.Printf("WARN: Refetch after sell failed: %v", err)
	}

	return Result{State: Succeeded, Message: "Item listed successfully!", ListingID: id}
}

// OfferInput carries the buy/offer form fields.
type OfferInput struct {
	ListingID int64
	Phone     string
	OfferDesc string // barter listings only
}

// SubmitOffer runs the offer submission sequence. The cash/barter branch
// was fixed when the trade form opened; it is re-derived here from the
// target listing.
func (f *Flow) SubmitOffer(ctx context.Context, sessionID string, user *models.User, in OfferInput) Result {
	if user == nil {
		return Result{State: Idle, Message: "Please login first to make an offer."}
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		phone = user.Phone
	}
	if phone == "" {
		return Result{State: Idle, Message: "Please provide a phone number so the seller can reach you."}
	}

	listing, ok := f.index.Get(in.ListingID)
	if !ok {
		// The listing vanished between render and submit. No request issued.
		return Result{State: Idle, Message: "This listing is no longer available."}
	}
	if !listing.IsCash() && strings.TrimSpace(in.OfferDesc) == "" {
		return Result{State: Idle, Message: "Please describe what you offer in exchange."}
	}

	if !f.begin(sessionID) {
		return Result{State: Idle, Message: "A submission is already in progress."}
	}
	defer f.end(sessionID)

	draft := models.OfferDraft{
		ProductID:  listing.ID,
		BuyerName:  user.Fullname,
		BuyerPhone: phone,
	}
	if listing.IsCash() {
		draft.Message = "Interested in purchasing this item"
		draft.OfferAmount = listing.Price
	} else {
		draft.Message = strings.TrimSpace(in.OfferDesc)
		draft.BarterOffer = strings.TrimSpace(in.OfferDesc)
	}

	id, err := f.remote.CreateOffer(ctx, draft)
	if err != nil {
		return Result{State: Failed, Message: remote.UserMessage(err)}
	}

	// Best-effort bookkeeping for the trades counter; the server owns
	// authoritative offer state.
	offer := models.Offer{
		ID:          id,
		ProductID:   listing.ID,
		BuyerName:   user.Fullname,
		BuyerPhone:  phone,
		OfferAmount: draft.OfferAmount,
		BarterOffer: draft.BarterOffer,
		Message:     draft.Message,
		Status:      models.OfferStatusPending,
	}
	if err := f.sessions.RecordOffer(ctx, sessionID, offer); err != nil {
		log.Printf("WARN: Offer %d sent but not recorded for session %s: %v", id, sessionID, err)
	}

	return Result{State: Succeeded, Message: "Request sent to seller successfully!", OfferID: id}
}

// DeleteListing removes a listing the session authored. The confirmation
// gate lives in the UI; by the time this runs the user has confirmed.
// On failure nothing local changes.
func (f *Flow) DeleteListing(ctx context.Context, sessionID string, listingID int64) Result {
	if !f.begin(sessionID) {
		return Result{State: Idle, Message: "A submission is already in progress."}
	}
	defer f.end(sessionID)

	if err := f.remote.DeleteProduct(ctx, listingID); err != nil {
		return Result{State: Failed, Message: remote.UserMessage(err)}
	}

	if err := f.sessions.DropOwnedListing(ctx, sessionID, listingID); err != nil {
		log.Printf("WARN: Listing %d deleted but ownership not dropped for session %s: %v", listingID, sessionID, err)
	}
	if err := f.RefreshListings(ctx); err != nil {
		log.Printf("WARN: Refetch after delete failed: %v", err)
	}

	return Result{State: Succeeded, Message: "Listing removed"}
}

// HandleOffer accepts or declines an incoming offer. The server is the
// source of truth: the status update goes to the backend first, and only
// then is the offer dropped from the session mirror.
func (f *Flow) HandleOffer(ctx context.Context, sessionID string, offerID int64, status string) Result {
	if !models.ValidStatusTransition(models.OfferStatusPending, status) {
		return Result{State: Idle, Message: "Invalid offer status."}
	}

	state, err := f.sessions.Load(ctx, sessionID)
	if err == nil {
		for _, o := range state.Offers {
			if o.ID == offerID && !models.ValidStatusTransition(o.Status, status) {
				return Result{State: Idle, Message: "This offer has already been handled."}
			}
		}
	}

	if !f.begin(sessionID) {
		return Result{State: Idle, Message: "A submission is already in progress."}
	}
	defer f.end(sessionID)

	if err := f.remote.SetOfferStatus(ctx, offerID, status); err != nil {
		return Result{State: Failed, Message: remote.UserMessage(err)}
	}

	if err := f.sessions.DropOffer(ctx, sessionID, offerID); err != nil {
		log.Printf("WARN: Offer %d handled but not dropped for session %s: %v", offerID, sessionID, err)
	}

	return Result{State: Succeeded, Message: "Offer handled"}
}
