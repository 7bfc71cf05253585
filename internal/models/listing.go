package models

// Listing transaction types.
const (
	TypeCash   = "cash"
	TypeBarter = "barter"
)

// Listing represents a marketplace item offered for cash sale or barter,
// as returned by GET /api/products. The backend assigns IDs; the gateway
// never mutates a listing in place, it replaces the whole collection on
// refetch.
type Listing struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Type        string  `json:"type"` // "cash" or "barter"
	Price       float64 `json:"price"`
	BarterDesc  string  `json:"barter_desc"`
	Location    string  `json:"location"`
	Seller      string  `json:"seller"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

// IsCash reports whether the listing is sold for cash (as opposed to barter).
// Exactly one of Price / BarterDesc is meaningful depending on this.
func (l *Listing) IsCash() bool {
	return l.Type == TypeCash
}

// ListingDraft is the request body for POST /api/products.
// Field names follow the backend contract, not this codebase's conventions.
type ListingDraft struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	BarterDesc  string  `json:"barterDesc"`
	Location    string  `json:"location"`
	Seller      string  `json:"seller"`
	Description string  `json:"desc"`
	ImageURL    string  `json:"image_url,omitempty"`
	Date        string  `json:"date,omitempty"`
}

// FilterState holds the ephemeral search criteria applied to the listing
// collection for display. Never persisted.
type FilterState struct {
	Search   string // case-insensitive substring on name or category
	Type     string // "all", "cash" or "barter"
	Location string // "all" or an exact location name
}

// NewFilterState returns a FilterState with empty values normalised to "all".
func NewFilterState(search, typ, location string) FilterState {
	if typ == "" {
		typ = "all"
	}
	if location == "" {
		location = "all"
	}
	return FilterState{Search: search, Type: typ, Location: location}
}
