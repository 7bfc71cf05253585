package session

import (
	"context"

	"mkulima/soko/internal/models"
)

// State is everything the gateway remembers about one browser session:
// which listing IDs this session authored, the offers it has recorded, and
// the logged-in user hint. All of it is advisory - the backend remains the
// source of truth and none of this gates any request.
type State struct {
	OwnedIDs []int64        `json:"owned_ids"`
	Offers   []models.Offer `json:"offers"`
	User     *models.User   `json:"user,omitempty"`
}

// OwnedSet returns the owned listing IDs as a set for render-time lookups.
func (s *State) OwnedSet() map[int64]bool {
	set := make(map[int64]bool, len(s.OwnedIDs))
	for _, id := range s.OwnedIDs {
		set[id] = true
	}
	return set
}

// Store persists session state. Implementations must treat missing or
// unreadable data as an empty state rather than an error, so a corrupt
// record never breaks the UI.
type Store interface {
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, sessionID string, state *State) error
}
