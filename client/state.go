package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the UI-facing cart snapshot.
type State struct {
	Items   []Item
	Total   float64
	Loading bool
}

// CartState keeps the UI responsive by applying cart mutations
// immediately and reconciling with the server afterwards. A failed
// server call is recovered by refetching the authoritative cart, never
// by inverting the optimistic edit.
type CartState struct {
	svc *CartService

	mu    sync.Mutex
	state State

	// RefreshEvery is the background re-fetch interval catching changes
	// from other sessions. Zero disables the ticker.
	RefreshEvery time.Duration

	logoutCh chan struct{}
}

// NewCartState creates the optimistic state machine over a cart service.
func NewCartState(svc *CartService) *CartState {
	return &CartState{
		svc:          svc,
		state:        State{Items: []Item{}, Loading: true},
		RefreshEvery: 5 * time.Minute,
		logoutCh:     make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of the current state.
func (c *CartState) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Item, len(c.state.Items))
	copy(items, c.state.Items)
	return State{Items: items, Total: c.state.Total, Loading: c.state.Loading}
}

// SetCart replaces the state wholesale after an authoritative fetch.
func (c *CartState) SetCart(items []Item, total float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if items == nil {
		items = []Item{}
	}
	c.state.Items = items
	c.state.Total = total
	c.state.Loading = false
}

// SetLoading toggles the loading flag without touching items or total.
func (c *CartState) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = loading
}

// AddItemOptimistic merges the item into the local state using the same
// (product, color, size) key rule the server applies.
func (c *CartState) AddItemOptimistic(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := false
	for idx := range c.state.Items {
		if sameLine(c.state.Items[idx], item.ProductID, item.Color, item.Size) {
			c.state.Items[idx].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		item.Color = normalizeColor(item.Color)
		c.state.Items = append(c.state.Items, item)
	}
	c.state.Total = totalOf(c.state.Items)
}

// RemoveItemOptimistic filters out the matching line.
func (c *CartState) RemoveItemOptimistic(productID, color, size string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.state.Items[:0]
	for _, item := range c.state.Items {
		if !sameLine(item, productID, color, size) {
			kept = append(kept, item)
		}
	}
	c.state.Items = kept
	c.state.Total = totalOf(c.state.Items)
}

// UpdateQuantityOptimistic clamps the quantity at zero and drops lines
// that reach it.
func (c *CartState) UpdateQuantityOptimistic(productID string, quantity int, color, size string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity < 0 {
		quantity = 0
	}

	kept := c.state.Items[:0]
	for _, item := range c.state.Items {
		if sameLine(item, productID, color, size) {
			if quantity == 0 {
				continue
			}
			item.Quantity = quantity
		}
		kept = append(kept, item)
	}
	c.state.Items = kept
	c.state.Total = totalOf(c.state.Items)
}

// ClearLocal empties the state.
func (c *CartState) ClearLocal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = []Item{}
	c.state.Total = 0
}

// Load fetches the authoritative cart and overwrites local state.
func (c *CartState) Load(ctx context.Context) error {
	c.SetLoading(true)
	result, err := c.svc.GetCart(ctx)
	if err != nil {
		c.SetLoading(false)
		return err
	}
	c.SetCart(result.Items, result.Total)
	return nil
}

// Add applies the optimistic update, then asks the service to persist
// it. On failure the authoritative cart is reloaded.
func (c *CartState) Add(ctx context.Context, item Item) error {
	c.AddItemOptimistic(item)
	_, err := c.svc.AddToCart(ctx, item.ProductID, item.Quantity, Options{Color: item.Color, Size: item.Size})
	if err != nil {
		return c.Load(ctx)
	}
	return nil
}

// Remove applies the optimistic removal, then persists it.
func (c *CartState) Remove(ctx context.Context, productID, color, size string) error {
	c.RemoveItemOptimistic(productID, color, size)
	_, err := c.svc.RemoveFromCart(ctx, productID, Options{Color: color, Size: size})
	if err != nil {
		return c.Load(ctx)
	}
	return nil
}

// UpdateQuantity applies the optimistic quantity change, then persists it.
func (c *CartState) UpdateQuantity(ctx context.Context, productID string, quantity int, color, size string) error {
	c.UpdateQuantityOptimistic(productID, quantity, color, size)
	_, err := c.svc.UpdateQuantity(ctx, productID, quantity, Options{Color: color, Size: size})
	if err != nil {
		return c.Load(ctx)
	}
	return nil
}

// NotifyLogout signals the run loop that the session is ending. The
// auth component calls this instead of reaching into cart state.
func (c *CartState) NotifyLogout() {
	select {
	case c.logoutCh <- struct{}{}:
	default:
	}
}

// Run drives the state machine until the context is cancelled: an
// initial load, a periodic authoritative refresh, and the logout flow
// that saves the cart before blanking the UI.
func (c *CartState) Run(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		slog.Warn("initial cart load failed", "error", err)
	}

	var tick <-chan time.Time
	if c.RefreshEvery > 0 {
		ticker := time.NewTicker(c.RefreshEvery)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if !c.svc.authenticated() || c.Snapshot().Loading {
				continue
			}
			if err := c.Load(ctx); err != nil {
				slog.Warn("periodic cart refresh failed", "error", err)
			}
		case <-c.logoutCh:
			// Flush unconfirmed optimistic adds before the UI clears
			if _, err := c.svc.SaveCartBeforeLogout(ctx); err != nil {
				slog.Error("failed to save cart before logout", "error", err)
			}
			c.ClearLocal()
		}
	}
}
