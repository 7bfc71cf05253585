package index

import (
	"iter"
	"strings"
	"sync"

	"mkulima/soko/internal/models"
)

// Index holds the session-independent mirror of the backend's product
// collection. The collection is replaced wholesale on every refetch, never
// diffed in place, and backend order is preserved (assumption: the backend
// returns newest first; no client-side sort).
type Index struct {
	mu       sync.RWMutex
	listings []models.Listing
}

// New creates an empty listing index.
func New() *Index {
	return &Index{}
}

// ReplaceAll swaps in a fresh copy of the collection. Any previously
// obtained filtered view keeps iterating its own snapshot; new calls to
// Apply see only the new data.
func (x *Index) ReplaceAll(listings []models.Listing) {
	copied := make([]models.Listing, len(listings))
	copy(copied, listings)

	x.mu.Lock()
	x.listings = copied
	x.mu.Unlock()
}

// All returns a copy of the current collection in backend order.
func (x *Index) All() []models.Listing {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]models.Listing, len(x.listings))
	copy(out, x.listings)
	return out
}

// Len returns the number of listings currently held.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.listings)
}

// Get returns the listing with the given ID, if present.
func (x *Index) Get(id int64) (models.Listing, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, l := range x.listings {
		if l.ID == id {
			return l, true
		}
	}
	return models.Listing{}, false
}

// Apply returns a lazy, restartable view of the listings matching the
// filter. The view is recomputed fresh on every call; the collections are
// small so no incremental diffing is done.
func (x *Index) Apply(f models.FilterState) iter.Seq[models.Listing] {
	x.mu.RLock()
	snapshot := x.listings
	x.mu.RUnlock()

	return func(yield func(models.Listing) bool) {
		for _, l := range snapshot {
			if !Matches(l, f) {
				continue
			}
			if !yield(l) {
				return
			}
		}
	}
}

// Owned returns the listings from ids that are present in the index, in
// backend order. Backs the "my items" panel.
func (x *Index) Owned(ids map[int64]bool) []models.Listing {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var mine []models.Listing
	for _, l := range x.listings {
		if ids[l.ID] {
			mine = append(mine, l)
		}
	}
	return mine
}

// Matches reports whether a listing satisfies the filter: search text empty
// or a case-insensitive substring of name or category, AND type filter "all"
// or equal, AND location filter "all" or equal.
func Matches(l models.Listing, f models.FilterState) bool {
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(l.Name), search) &&
			!strings.Contains(strings.ToLower(l.Category), search) {
			return false
		}
	}
	if f.Type != "" && f.Type != "all" && l.Type != f.Type {
		return false
	}
	if f.Location != "" && f.Location != "all" && l.Location != f.Location {
		return false
	}
	return true
}

// Locations returns the distinct listing locations in first-seen order, for
// the location filter dropdown.
func (x *Index) Locations() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, l := range x.listings {
		if l.Location == "" || seen[l.Location] {
			continue
		}
		seen[l.Location] = true
		out = append(out, l.Location)
	}
	return out
}
