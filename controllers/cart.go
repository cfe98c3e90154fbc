package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"
)

// Sync modes accepted by POST /cart/sync.
const (
	SyncModeMerge   = "merge"
	SyncModeReplace = "replace"
)

// CartController handles cart-related requests
type CartController struct {
	Collection        *mongo.Collection
	ProductCollection *mongo.Collection
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client) *CartController {
	db := client.Database(utils.DatabaseName)
	return &CartController{
		Collection:        db.Collection("carts"),
		ProductCollection: db.Collection("products"),
	}
}

// loadCart fetches the user's cart document, or returns a fresh empty
// cart when none exists yet.
func (cc *CartController) loadCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, bool, error) {
	var cart models.Cart
	err := cc.Collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.NewCart(userID), false, nil
		}
		return nil, false, err
	}
	return &cart, true, nil
}

// saveCart persists the cart document, creating it when absent. The
// write is an unconditional read-modify-write; concurrent writers to the
// same cart are last-write-wins.
func (cc *CartController) saveCart(ctx context.Context, cart *models.Cart) error {
	if cart.ID.IsZero() {
		result, err := cc.Collection.InsertOne(ctx, cart)
		if err != nil {
			return err
		}
		if id, ok := result.InsertedID.(primitive.ObjectID); ok {
			cart.ID = id
		}
		return nil
	}
	_, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{
		"items":      cart.Items,
		"updated_at": cart.UpdatedAt,
	}})
	return err
}

func userIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := middleware.UserFromContext(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Invalid user identity")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// GetCart retrieves the user's cart, lazily creating an empty one.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, exists, err := cc.loadCart(ctx, userID)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to get cart")
		return
	}
	if !exists {
		// Persist the empty cart so the document is there next time
		if err := cc.saveCart(ctx, cart); err != nil {
			utils.Fail(w, http.StatusInternalServerError, "Failed to create cart")
			return
		}
	}

	slog.Debug("cart retrieved", "user_id", userID.Hex(), "items", len(cart.Items), "total", cart.Total())

	utils.Success(w, "", map[string]interface{}{
		"cart": utils.NewCartPayload(cart),
	})
}

// AddToCartInput is the body of POST /cart/add.
type AddToCartInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Options   struct {
		Color string `json:"color"`
		Size  string `json:"size"`
	} `json:"options"`
}

// AddToCart adds a product to the user's cart, snapshotting the
// product's name, price and image at add-time.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var input AddToCartInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.ProductID == "" {
		utils.Fail(w, http.StatusBadRequest, "Product ID is required")
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Snapshot the product display data
	var product models.Product
	err = cc.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		utils.Fail(w, http.StatusNotFound, "Product not found")
		return
	}

	cart, _, err := cc.loadCart(ctx, userID)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to get cart")
		return
	}

	cart.AddItem(models.CartItem{
		ProductID: productID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  input.Quantity,
		Color:     input.Options.Color,
		Size:      input.Options.Size,
	})

	if err := cc.saveCart(ctx, cart); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	slog.Info("item added to cart", "user_id", userID.Hex(), "product", product.Name, "quantity", input.Quantity)

	utils.Success(w, "Item added to cart successfully", map[string]interface{}{
		"cart": utils.NewCartPayload(cart),
	})
}

// UpdateCartInput is the body of PUT /cart/update.
type UpdateCartInput struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// UpdateCartItem sets a line's quantity; a quantity of zero removes it.
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var input UpdateCartInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.ProductID == "" || input.Quantity == nil || *input.Quantity < 0 {
		utils.Fail(w, http.StatusBadRequest, "Invalid product ID or quantity")
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, exists, err := cc.loadCart(ctx, userID)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	if !exists {
		utils.Fail(w, http.StatusNotFound, "Cart not found")
		return
	}

	if *input.Quantity == 0 {
		cart.RemoveItem(productID, input.Color, input.Size)
	} else {
		cart.UpdateQuantity(productID, *input.Quantity, input.Color, input.Size)
	}

	if err := cc.saveCart(ctx, cart); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.Success(w, "Cart updated successfully", map[string]interface{}{
		"cart": utils.NewCartPayload(cart),
	})
}

// RemoveFromCart removes a line from the user's cart.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["product_id"])
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	color := r.URL.Query().Get("color")
	size := r.URL.Query().Get("size")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, exists, err := cc.loadCart(ctx, userID)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to remove item from cart")
		return
	}
	if !exists {
		utils.Fail(w, http.StatusNotFound, "Cart not found")
		return
	}

	cart.RemoveItem(productID, color, size)

	if err := cc.saveCart(ctx, cart); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to remove item from cart")
		return
	}

	utils.Success(w, "Item removed from cart", map[string]interface{}{
		"cart": utils.NewCartPayload(cart),
	})
}

// ClearCart resets the user's cart to empty. The document is kept.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, _, err := cc.loadCart(ctx, userID)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	cart.Clear()

	if err := cc.saveCart(ctx, cart); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.Success(w, "Cart cleared successfully", nil)
}

// SyncItem is one entry in a sync request. Entries may be partial
// (productId only); missing display data is re-fetched server-side.
type SyncItem struct {
	ProductID string  `json:"productId"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
}

// SyncCartInput is the body of POST /cart/sync. Mode is the explicit
// request tag; the three legacy field names remain accepted when Mode
// is empty: guestItems and guestCartItems merge, cartItems replaces.
type SyncCartInput struct {
	Mode  string     `json:"mode"`
	Items []SyncItem `json:"items"`

	GuestItems     []SyncItem `json:"guestItems"`
	GuestCartItems []SyncItem `json:"guestCartItems"`
	CartItems      []SyncItem `json:"cartItems"`
}

// ResolveSyncRequest decides which item list a sync request carries and
// whether it merges into or replaces the stored cart.
func ResolveSyncRequest(input SyncCartInput) (mode string, items []SyncItem) {
	if input.Mode == SyncModeMerge || input.Mode == SyncModeReplace {
		return input.Mode, input.Items
	}
	switch {
	case len(input.GuestItems) > 0:
		return SyncModeMerge, input.GuestItems
	case len(input.GuestCartItems) > 0:
		return SyncModeMerge, input.GuestCartItems
	case len(input.CartItems) > 0:
		return SyncModeReplace, input.CartItems
	}
	return SyncModeMerge, nil
}

// SyncCart merges guest-session items into the user's cart, or replaces
// the stored cart with the full client state before logout.
func (cc *CartController) SyncCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var input SyncCartInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	mode, items := ResolveSyncRequest(input)
	if len(items) == 0 {
		utils.Success(w, "No items to sync", map[string]interface{}{
			"cart": utils.CartPayload{Items: []models.CartItem{}},
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cart, _, err := cc.loadCart(ctx, userID)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to sync cart")
		return
	}

	if mode == SyncModeReplace {
		cart.Clear()
	}

	synced := 0
	for _, entry := range items {
		item, err := cc.resolveSyncItem(ctx, entry)
		if err != nil {
			slog.Warn("skipping sync item", "product_id", entry.ProductID, "error", err)
			continue
		}
		cart.AddItem(item)
		synced++
	}

	if err := cc.saveCart(ctx, cart); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to sync cart")
		return
	}

	slog.Info("cart synced", "user_id", userID.Hex(), "mode", mode, "synced", synced, "skipped", len(items)-synced)

	utils.Success(w, "Cart synced successfully", map[string]interface{}{
		"cart":   utils.NewCartPayload(cart),
		"synced": synced,
	})
}

// resolveSyncItem turns a possibly partial sync entry into a full cart
// line, fetching the product when the display snapshot is missing.
func (cc *CartController) resolveSyncItem(ctx context.Context, entry SyncItem) (models.CartItem, error) {
	idHex := entry.ProductID
	if idHex == "" {
		idHex = entry.ID
	}
	productID, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return models.CartItem{}, err
	}

	quantity := entry.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	item := models.CartItem{
		ProductID: productID,
		Name:      entry.Name,
		Price:     entry.Price,
		Image:     entry.Image,
		Quantity:  quantity,
		Color:     entry.Color,
		Size:      entry.Size,
	}

	if item.Name == "" {
		var product models.Product
		if err := cc.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			return models.CartItem{}, err
		}
		item.Name = product.Name
		item.Price = product.Price
		item.Image = product.Image
	}

	return item, nil
}
