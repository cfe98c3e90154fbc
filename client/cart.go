package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Item is a cart line as the client sees it. For guest sessions only
// ProductID, Quantity and the variant selectors are guaranteed; the
// display snapshot fields are filled in by the server on sync.
type Item struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Image     string    `json:"image,omitempty"`
	Quantity  int       `json:"quantity"`
	Color     string    `json:"color,omitempty"`
	Size      string    `json:"size,omitempty"`
	AddedAt   time.Time `json:"addedAt,omitempty"`
}

// Options selects a product variant when adding to the cart.
type Options struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// Result is the canonical outcome of any cart operation, identical in
// shape for authenticated and guest sessions.
type Result struct {
	Success bool
	Items   []Item
	Total   float64
	Message string
}

type cartPayload struct {
	Items     []Item  `json:"items"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

type cartEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Cart    *cartPayload `json:"cart"`
}

// CartService mediates between UI intents and the backend. While the
// session is unauthenticated it mutates a local mirror with the same
// merge-by-key rule the server applies; once authenticated the server's
// responses are adopted as ground truth.
type CartService struct {
	api   *API
	store Storage

	mu     sync.Mutex
	userID string
}

// NewCartService creates a cart service over the given API client and
// local mirror.
func NewCartService(api *API, store Storage) *CartService {
	return &CartService{api: api, store: store}
}

// SetIdentity switches the active identity. The storage slot changes
// with the identity; the previous slot is left as-is and is never
// merged implicitly — call SyncGuestCart after login to carry guest
// items over.
func (s *CartService) SetIdentity(userID, token string) {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()
	s.api.SetToken(token)
}

func (s *CartService) currentKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CartKey(s.userID)
}

func (s *CartService) authenticated() bool {
	return s.api.Authenticated()
}

// sameLine matches the server's (product, color, size) identity key.
func sameLine(a Item, productID, color, size string) bool {
	return a.ProductID == productID && normalizeColor(a.Color) == normalizeColor(color) && a.Size == size
}

func normalizeColor(color string) string {
	if color == "" {
		return "default"
	}
	return color
}

func totalOf(items []Item) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// adopt overwrites the local mirror with the server's item list.
func (s *CartService) adopt(payload *cartPayload) Result {
	items := []Item{}
	if payload != nil && payload.Items != nil {
		items = payload.Items
	}
	if err := s.store.Store(s.currentKey(), items); err != nil {
		slog.Warn("failed to store cart mirror", "error", err)
	}
	total := totalOf(items)
	if payload != nil {
		total = payload.Total
	}
	return Result{Success: true, Items: items, Total: total}
}

// refetch re-synchronizes with the server after a failed mutation
// instead of trusting optimistic local state.
func (s *CartService) refetch(ctx context.Context, cause error) Result {
	slog.Warn("cart mutation failed, refetching", "error", cause)
	result, err := s.GetCart(ctx)
	if err != nil {
		return Result{Success: false, Message: cause.Error()}
	}
	result.Success = false
	result.Message = cause.Error()
	return result
}

// AddToCart adds a product to the cart. Guest sessions merge into the
// local mirror; authenticated sessions call the server and adopt its
// response.
func (s *CartService) AddToCart(ctx context.Context, productID string, quantity int, opts Options) (Result, error) {
	if quantity <= 0 {
		quantity = 1
	}

	if !s.authenticated() {
		items, err := s.store.Load(s.currentKey())
		if err != nil {
			return Result{Success: false, Message: err.Error()}, err
		}

		merged := false
		for idx := range items {
			if sameLine(items[idx], productID, opts.Color, opts.Size) {
				items[idx].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, Item{
				ProductID: productID,
				Quantity:  quantity,
				Color:     normalizeColor(opts.Color),
				Size:      opts.Size,
				AddedAt:   time.Now(),
			})
		}

		if err := s.store.Store(s.currentKey(), items); err != nil {
			return Result{Success: false, Message: err.Error()}, err
		}
		return Result{Success: true, Items: items, Total: totalOf(items), Message: "Item added to cart successfully"}, nil
	}

	var envelope cartEnvelope
	err := s.api.Post(ctx, "/cart/add", map[string]interface{}{
		"productId": productID,
		"quantity":  quantity,
		"options":   opts,
	}, &envelope)
	if err != nil {
		return s.refetch(ctx, err), err
	}

	result := s.adopt(envelope.Cart)
	result.Message = envelope.Message
	return result, nil
}

// UpdateQuantity sets a line's quantity; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int, opts Options) (Result, error) {
	if !s.authenticated() {
		items, err := s.store.Load(s.currentKey())
		if err != nil {
			return Result{Success: false, Message: err.Error()}, err
		}

		kept := items[:0]
		for _, item := range items {
			if sameLine(item, productID, opts.Color, opts.Size) {
				if quantity <= 0 {
					continue
				}
				item.Quantity = quantity
			}
			kept = append(kept, item)
		}

		if err := s.store.Store(s.currentKey(), kept); err != nil {
			return Result{Success: false, Message: err.Error()}, err
		}
		return Result{Success: true, Items: kept, Total: totalOf(kept)}, nil
	}

	var envelope cartEnvelope
	err := s.api.Put(ctx, "/cart/update", map[string]interface{}{
		"productId": productID,
		"quantity":  quantity,
		"color":     opts.Color,
		"size":      opts.Size,
	}, &envelope)
	if err != nil {
		return s.refetch(ctx, err), err
	}
	return s.adopt(envelope.Cart), nil
}

// RemoveFromCart removes a line from the cart.
func (s *CartService) RemoveFromCart(ctx context.Context, productID string, opts Options) (Result, error) {
	if !s.authenticated() {
		items, err := s.store.Load(s.currentKey())
		if err != nil {
			return Result{Success: false, Message: err.Error()}, err
		}

		kept := items[:0]
		for _, item := range items {
			if !sameLine(item, productID, opts.Color, opts.Size) {
				kept = append(kept, item)
			}
		}

		if err := s.store.Store(s.currentKey(), kept); err != nil {
			return Result{Success: false, Message: err.Error()}, err
		}
		return Result{Success: true, Items: kept, Total: totalOf(kept)}, nil
	}

	path := "/cart/remove/" + productID + "?color=" + opts.Color + "&size=" + opts.Size
	var envelope cartEnvelope
	err := s.api.Delete(ctx, path, &envelope)
	if err != nil {
		return s.refetch(ctx, err), err
	}
	return s.adopt(envelope.Cart), nil
}

// ClearCart empties the cart on the server (when authenticated) and
// drops the local mirror slot.
func (s *CartService) ClearCart(ctx context.Context) (Result, error) {
	if s.authenticated() {
		var envelope cartEnvelope
		if err := s.api.Delete(ctx, "/cart/clear", &envelope); err != nil {
			return s.refetch(ctx, err), err
		}
	}
	if err := s.store.Remove(s.currentKey()); err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}
	return Result{Success: true, Items: []Item{}}, nil
}

// GetCart returns the authoritative cart. Authenticated sessions fetch
// from the server and overwrite the mirror (server wins); guest
// sessions compute from the mirror only.
func (s *CartService) GetCart(ctx context.Context) (Result, error) {
	if s.authenticated() {
		var envelope cartEnvelope
		if err := s.api.Get(ctx, "/cart", &envelope); err != nil {
			return Result{Success: false, Message: err.Error()}, err
		}
		return s.adopt(envelope.Cart), nil
	}

	items, err := s.store.Load(s.currentKey())
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}
	return Result{Success: true, Items: items, Total: totalOf(items)}, nil
}

// SaveCartBeforeLogout pushes the full mirror to the server with
// replace semantics so optimistic state survives the logout-driven UI
// clear. Callers must wait for it before clearing local state.
func (s *CartService) SaveCartBeforeLogout(ctx context.Context) (Result, error) {
	if !s.authenticated() {
		return Result{Success: true, Message: "No cart data to save"}, nil
	}

	items, err := s.store.Load(s.currentKey())
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}
	if len(items) == 0 {
		return Result{Success: true, Message: "No cart data to save"}, nil
	}

	var envelope cartEnvelope
	err = s.api.Post(ctx, "/cart/sync", map[string]interface{}{
		"mode":  "replace",
		"items": items,
	}, &envelope)
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}

	result := s.adopt(envelope.Cart)
	result.Message = envelope.Message
	return result, nil
}

// SyncGuestCart pushes the guest slot to the server with merge
// semantics after login, then clears the guest slot. The server sums
// quantities per line rather than overwriting.
func (s *CartService) SyncGuestCart(ctx context.Context) (Result, error) {
	guestItems, err := s.store.Load(CartKey(""))
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}
	if len(guestItems) == 0 {
		return s.GetCart(ctx)
	}

	var envelope cartEnvelope
	err = s.api.Post(ctx, "/cart/sync", map[string]interface{}{
		"mode":  "merge",
		"items": guestItems,
	}, &envelope)
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}

	// Guest additions now live in the server cart
	if err := s.store.Remove(CartKey("")); err != nil {
		slog.Warn("failed to clear guest slot", "error", err)
	}

	result := s.adopt(envelope.Cart)
	result.Message = envelope.Message
	return result, nil
}
