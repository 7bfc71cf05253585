package models

// Offer status values. An offer only ever moves pending -> accepted or
// pending -> rejected, never back.
const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
)

// Offer represents a buyer's proposal against a specific listing.
// ProductID may dangle if the listing has since been deleted; callers must
// tolerate that rather than treat it as fatal.
type Offer struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	BuyerName   string  `json:"buyer_name"`
	BuyerPhone  string  `json:"buyer_phone"`
	BuyerEmail  string  `json:"buyer_email"`
	OfferAmount float64 `json:"offer_amount"`
	BarterOffer string  `json:"barter_offer"`
	Message     string  `json:"message"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`

	// Denormalised product fields present only in the admin listing
	// (GET /api/admin/offers joins against products).
	ProductName  string  `json:"product_name,omitempty"`
	SellerName   string  `json:"seller_name,omitempty"`
	ProductPrice float64 `json:"product_price,omitempty"`
	ProductType  string  `json:"product_type,omitempty"`
}

// OfferDraft is the request body for POST /api/offers.
// Field names follow the backend contract.
type OfferDraft struct {
	ProductID  int64  `json:"productId"`
	BuyerName  string `json:"buyerName"`
	BuyerPhone string `json:"buyerPhone"`
	// BuyerEmail is always sent, empty when unknown. The login payload
	// carries no email, so the gateway never has one to fill in.
	BuyerEmail  string  `json:"buyerEmail"`
	Message     string  `json:"message"`
	OfferAmount float64 `json:"offerAmount,omitempty"`
	BarterOffer string  `json:"barterOffer,omitempty"`
}

// ValidStatusTransition reports whether an offer may move from one status to
// another.
func ValidStatusTransition(from, to string) bool {
	return from == OfferStatusPending &&
		(to == OfferStatusAccepted || to == OfferStatusRejected)
}
