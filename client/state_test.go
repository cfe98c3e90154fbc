package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestState(t *testing.T) (*CartState, *fakeBackend) {
	t.Helper()
	svc, backend := newTestService(t)
	svc.SetIdentity("u1", "token-u1")
	return NewCartState(svc), backend
}

func TestSetCartReplacesWholesale(t *testing.T) {
	state, _ := newTestState(t)

	state.AddItemOptimistic(Item{ProductID: "p9", Price: 1, Quantity: 1})
	state.SetCart([]Item{{ProductID: "p1", Price: 100, Quantity: 2}}, 200)

	snap := state.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "p1", snap.Items[0].ProductID)
	assert.Equal(t, 200.0, snap.Total)
	assert.False(t, snap.Loading)
}

func TestSetLoadingLeavesItemsAlone(t *testing.T) {
	state, _ := newTestState(t)
	state.SetCart([]Item{{ProductID: "p1", Price: 10, Quantity: 1}}, 10)

	state.SetLoading(true)

	snap := state.Snapshot()
	assert.True(t, snap.Loading)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, 10.0, snap.Total)
}

func TestAddItemOptimisticMergesByKey(t *testing.T) {
	state, _ := newTestState(t)

	state.AddItemOptimistic(Item{ProductID: "p1", Price: 100, Quantity: 2, Color: "red"})
	state.AddItemOptimistic(Item{ProductID: "p1", Price: 100, Quantity: 3, Color: "red"})
	state.AddItemOptimistic(Item{ProductID: "p1", Price: 100, Quantity: 1, Color: "blue"})

	snap := state.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 5, snap.Items[0].Quantity)
	assert.Equal(t, 600.0, snap.Total)
}

func TestRemoveItemOptimistic(t *testing.T) {
	state, _ := newTestState(t)
	state.AddItemOptimistic(Item{ProductID: "p1", Price: 100, Quantity: 1, Color: "red"})
	state.AddItemOptimistic(Item{ProductID: "p2", Price: 25, Quantity: 2})

	state.RemoveItemOptimistic("p1", "red", "")

	snap := state.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "p2", snap.Items[0].ProductID)
	assert.Equal(t, 50.0, snap.Total)
}

func TestUpdateQuantityOptimisticClampsAndDrops(t *testing.T) {
	state, _ := newTestState(t)
	state.AddItemOptimistic(Item{ProductID: "p1", Price: 10, Quantity: 3})

	state.UpdateQuantityOptimistic("p1", -5, "", "")

	snap := state.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0.0, snap.Total)
}

func TestClearLocal(t *testing.T) {
	state, _ := newTestState(t)
	state.AddItemOptimistic(Item{ProductID: "p1", Price: 10, Quantity: 1})

	state.ClearLocal()

	snap := state.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0.0, snap.Total)
}

func TestOptimisticAddThenServerFailureRefetches(t *testing.T) {
	// Scenario: optimistic add applied, server call fails, the forced
	// refetch restores the last authoritative snapshot
	ctx := context.Background()
	state, backend := newTestState(t)

	require.NoError(t, state.Add(ctx, Item{ProductID: "p1", Quantity: 1}))
	require.Len(t, state.Snapshot().Items, 1)

	backend.failNext = true
	err := state.Add(ctx, Item{ProductID: "p2", Quantity: 4})
	require.NoError(t, err) // recovery succeeded

	snap := state.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "p1", snap.Items[0].ProductID)
	assert.Equal(t, 1, snap.Items[0].Quantity)
}

func TestAddPersistsThroughService(t *testing.T) {
	ctx := context.Background()
	state, backend := newTestState(t)

	require.NoError(t, state.Add(ctx, Item{ProductID: "p1", Quantity: 2, Color: "red"}))

	require.Len(t, backend.items, 1)
	assert.Equal(t, 2, backend.items[0].Quantity)
}

func TestConcurrentOptimisticDispatch(t *testing.T) {
	state, _ := newTestState(t)

	const n = 50
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			state.AddItemOptimistic(Item{ProductID: "p1", Price: 10, Quantity: 1, Color: "red"})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	snap := state.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, n, snap.Items[0].Quantity)
	assert.Equal(t, float64(n*10), snap.Total)
}

func TestRunLogoutSavesThenClears(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state, backend := newTestState(t)
	state.RefreshEvery = 0 // no ticker in tests

	require.NoError(t, state.Add(ctx, Item{ProductID: "p1", Quantity: 2}))

	done := make(chan struct{})
	go func() {
		state.Run(ctx)
		close(done)
	}()

	state.NotifyLogout()

	// Wait for the logout flow to clear the UI state
	deadline := time.After(2 * time.Second)
	for {
		if len(state.Snapshot().Items) == 0 && !state.Snapshot().Loading {
			break
		}
		select {
		case <-deadline:
			t.Fatal("logout flow did not clear cart state")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// The server still holds the flushed items
	backend.mu.Lock()
	saved := len(backend.items)
	backend.mu.Unlock()
	assert.Equal(t, 1, saved)

	cancel()
	<-done
}
