package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkulima/soko/internal/models"
)

func TestManager_OwnedListings(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, m.RecordOwnedListing(ctx, "s1", 5))
	require.NoError(t, m.RecordOwnedListing(ctx, "s1", 9))
	// Recording the same ID twice must not duplicate it.
	require.NoError(t, m.RecordOwnedListing(ctx, "s1", 5))

	state, err := m.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 9}, state.OwnedIDs)
	assert.True(t, state.OwnedSet()[5])
	assert.False(t, state.OwnedSet()[7])

	require.NoError(t, m.DropOwnedListing(ctx, "s1", 5))
	state, err = m.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, state.OwnedIDs)

	// Other sessions are unaffected.
	other, err := m.Load(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.OwnedIDs)
}

func TestManager_Offers(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, m.RecordOffer(ctx, "s1", models.Offer{ID: 1, ProductID: 5, BuyerPhone: "0712", Status: models.OfferStatusPending}))
	require.NoError(t, m.RecordOffer(ctx, "s1", models.Offer{ID: 2, ProductID: 6, Status: models.OfferStatusPending}))

	state, err := m.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, state.Offers, 2)

	require.NoError(t, m.DropOffer(ctx, "s1", 1))
	state, err = m.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, state.Offers, 1)
	assert.Equal(t, int64(2), state.Offers[0].ID)
}

func TestManager_UserHint(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, m.RecordOwnedListing(ctx, "s1", 3))
	require.NoError(t, m.SetUser(ctx, "s1", &models.User{ID: 7, Fullname: "Wanjiku Kamau", Role: models.RoleFarmer}))

	state, err := m.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, state.User)
	assert.Equal(t, "Wanjiku Kamau", state.User.Fullname)

	// Logout keeps ownership bookkeeping.
	require.NoError(t, m.ClearUser(ctx, "s1"))
	state, err = m.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, state.User)
	assert.Equal(t, []int64{3}, state.OwnedIDs)
}

func TestManager_CorruptStateDefaultsToEmpty(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)
	ctx := context.Background()

	require.NoError(t, m.RecordOwnedListing(ctx, "s1", 3))
	store.Corrupt("s1")

	state, err := m.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, state.OwnedIDs)

	// The session stays usable after corruption.
	require.NoError(t, m.RecordOwnedListing(ctx, "s1", 4))
	state, err = m.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, state.OwnedIDs)
}

func TestManager_ConcurrentMutationsDoNotLoseUpdates(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, m.RecordOwnedListing(ctx, "s1", id))
		}(int64(i))
	}
	wg.Wait()

	state, err := m.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, state.OwnedIDs, 50)
}
