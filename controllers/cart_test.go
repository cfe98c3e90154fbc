package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func syncItems(ids ...string) []SyncItem {
	items := make([]SyncItem, len(ids))
	for i, id := range ids {
		items[i] = SyncItem{ProductID: id, Quantity: 1}
	}
	return items
}

func TestResolveSyncRequestExplicitMode(t *testing.T) {
	mode, items := ResolveSyncRequest(SyncCartInput{
		Mode:  SyncModeReplace,
		Items: syncItems("a", "b"),
	})
	assert.Equal(t, SyncModeReplace, mode)
	assert.Len(t, items, 2)

	mode, items = ResolveSyncRequest(SyncCartInput{
		Mode:  SyncModeMerge,
		Items: syncItems("a"),
	})
	assert.Equal(t, SyncModeMerge, mode)
	assert.Len(t, items, 1)
}

func TestResolveSyncRequestExplicitModeIgnoresLegacyFields(t *testing.T) {
	mode, items := ResolveSyncRequest(SyncCartInput{
		Mode:      SyncModeMerge,
		Items:     syncItems("a"),
		CartItems: syncItems("x", "y", "z"),
	})
	assert.Equal(t, SyncModeMerge, mode)
	assert.Len(t, items, 1)
}

func TestResolveSyncRequestLegacyGuestItemsMerge(t *testing.T) {
	mode, items := ResolveSyncRequest(SyncCartInput{
		GuestItems: syncItems("a", "b"),
	})
	assert.Equal(t, SyncModeMerge, mode)
	assert.Len(t, items, 2)
}

func TestResolveSyncRequestLegacyGuestCartItemsMerge(t *testing.T) {
	mode, items := ResolveSyncRequest(SyncCartInput{
		GuestCartItems: syncItems("a"),
	})
	assert.Equal(t, SyncModeMerge, mode)
	assert.Len(t, items, 1)
}

func TestResolveSyncRequestLegacyCartItemsReplace(t *testing.T) {
	mode, items := ResolveSyncRequest(SyncCartInput{
		CartItems: syncItems("a", "b", "c"),
	})
	assert.Equal(t, SyncModeReplace, mode)
	assert.Len(t, items, 3)
}

func TestResolveSyncRequestLegacyPrecedence(t *testing.T) {
	// guestItems wins over guestCartItems wins over cartItems
	mode, items := ResolveSyncRequest(SyncCartInput{
		GuestItems:     syncItems("a"),
		GuestCartItems: syncItems("b", "c"),
		CartItems:      syncItems("d", "e", "f"),
	})
	assert.Equal(t, SyncModeMerge, mode)
	assert.Len(t, items, 1)
}

func TestResolveSyncRequestEmpty(t *testing.T) {
	mode, items := ResolveSyncRequest(SyncCartInput{})
	assert.Equal(t, SyncModeMerge, mode)
	assert.Empty(t, items)
}

func TestResolveSyncRequestUnknownModeFallsBack(t *testing.T) {
	mode, items := ResolveSyncRequest(SyncCartInput{
		Mode:      "upsert",
		CartItems: syncItems("a"),
	})
	assert.Equal(t, SyncModeReplace, mode)
	assert.Len(t, items, 1)
}
