package session

import (
	"context"
	"fmt"
	"sync"

	"mkulima/soko/internal/models"
)

// Manager serialises read-modify-persist sequences per session so that two
// near-simultaneous UI actions cannot lose each other's updates. Mutations
// are atomic from the caller's perspective: load, change, save under one
// per-session lock.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a session manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *Manager) sessionLock(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionID] = l
	}
	return l
}

// update runs one read-modify-persist step for a session.
func (m *Manager) update(ctx context.Context, sessionID string, fn func(*State)) error {
	l := m.sessionLock(sessionID)
	l.Lock()
	defer l.Unlock()

	state, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("session update failed on load: %w", err)
	}
	fn(state)
	if err := m.store.Save(ctx, sessionID, state); err != nil {
		return fmt.Errorf("session update failed on save: %w", err)
	}
	return nil
}

// Load returns the current session state (empty when unknown).
func (m *Manager) Load(ctx context.Context, sessionID string) (*State, error) {
	return m.store.Load(ctx, sessionID)
}

// RecordOwnedListing remembers that this session authored the listing.
func (m *Manager) RecordOwnedListing(ctx context.Context, sessionID string, listingID int64) error {
	return m.update(ctx, sessionID, func(s *State) {
		for _, id := range s.OwnedIDs {
			if id == listingID {
				return
			}
		}
		s.OwnedIDs = append(s.OwnedIDs, listingID)
	})
}

// DropOwnedListing forgets an authored listing (after deletion).
func (m *Manager) DropOwnedListing(ctx context.Context, sessionID string, listingID int64) error {
	return m.update(ctx, sessionID, func(s *State) {
		kept := s.OwnedIDs[:0]
		for _, id := range s.OwnedIDs {
			if id != listingID {
				kept = append(kept, id)
			}
		}
		s.OwnedIDs = kept
	})
}

// RecordOffer stores an offer in the session mirror. Best-effort bookkeeping
// only; the backend owns offer state.
func (m *Manager) RecordOffer(ctx context.Context, sessionID string, offer models.Offer) error {
	return m.update(ctx, sessionID, func(s *State) {
		s.Offers = append(s.Offers, offer)
	})
}

// DropOffer removes an offer from the session mirror.
func (m *Manager) DropOffer(ctx context.Context, sessionID string, offerID int64) error {
	return m.update(ctx, sessionID, func(s *State) {
		kept := s.Offers[:0]
		for _, o := range s.Offers {
			if o.ID != offerID {
				kept = append(kept, o)
			}
		}
		s.Offers = kept
	})
}

// SetUser stores the logged-in user hint.
func (m *Manager) SetUser(ctx context.Context, sessionID string, user *models.User) error {
	return m.update(ctx, sessionID, func(s *State) {
		s.User = user
	})
}

// ClearUser drops the user hint on logout. Ownership and offer bookkeeping
// stay; they belong to the browser, not the account.
func (m *Manager) ClearUser(ctx context.Context, sessionID string) error {
	return m.update(ctx, sessionID, func(s *State) {
		s.User = nil
	})
}
