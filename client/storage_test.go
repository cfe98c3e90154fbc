package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartKey(t *testing.T) {
	assert.Equal(t, "cart_guest", CartKey(""))
	assert.Equal(t, "cart_abc123", CartKey("abc123"))
}

func TestMemoryStorageSlotsAreIsolated(t *testing.T) {
	store := NewMemoryStorage()

	require.NoError(t, store.Store(CartKey(""), []Item{{ProductID: "p1", Quantity: 1}}))
	require.NoError(t, store.Store(CartKey("u1"), []Item{{ProductID: "p2", Quantity: 2}}))

	guest, err := store.Load(CartKey(""))
	require.NoError(t, err)
	user, err := store.Load(CartKey("u1"))
	require.NoError(t, err)

	require.Len(t, guest, 1)
	require.Len(t, user, 1)
	assert.Equal(t, "p1", guest[0].ProductID)
	assert.Equal(t, "p2", user[0].ProductID)
}

func TestMemoryStorageLoadCopies(t *testing.T) {
	store := NewMemoryStorage()
	require.NoError(t, store.Store("cart_guest", []Item{{ProductID: "p1", Quantity: 1}}))

	loaded, err := store.Load("cart_guest")
	require.NoError(t, err)
	loaded[0].Quantity = 99

	again, err := store.Load("cart_guest")
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].Quantity)
}

func TestMemoryStorageRemove(t *testing.T) {
	store := NewMemoryStorage()
	require.NoError(t, store.Store("cart_guest", []Item{{ProductID: "p1", Quantity: 1}}))
	require.NoError(t, store.Remove("cart_guest"))

	items, err := store.Load("cart_guest")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Removing an absent slot is a no-op
	require.NoError(t, store.Remove("cart_guest"))
}

func TestFileStorageRoundTrip(t *testing.T) {
	store, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	items := []Item{
		{ProductID: "p1", Name: "Widget", Price: 9.99, Quantity: 2, Color: "red"},
		{ProductID: "p2", Quantity: 1},
	}
	require.NoError(t, store.Store(CartKey("u1"), items))

	loaded, err := store.Load(CartKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, "p1", loaded[0].ProductID)
	assert.Equal(t, 9.99, loaded[0].Price)
	assert.Len(t, loaded, 2)

	// Unknown slots load as empty
	empty, err := store.Load(CartKey("u2"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.Remove(CartKey("u1")))
	gone, err := store.Load(CartKey("u1"))
	require.NoError(t, err)
	assert.Empty(t, gone)
}
