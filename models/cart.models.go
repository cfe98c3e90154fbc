package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultColor is the sentinel used when a product has no color variant.
const DefaultColor = "default"

// CartItem represents one distinct product+variant entry in a cart.
// Name, Price and Image are snapshots taken when the item was added;
// they are intentionally not refreshed if the product changes later.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Image     string             `bson:"image" json:"image"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Color     string             `bson:"color" json:"color"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	AddedAt   time.Time          `bson:"added_at" json:"addedAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Cart represents a user's shopping cart. One cart per user, keyed by UserID.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewCart returns an empty cart for the given user.
func NewCart(userID primitive.ObjectID) *Cart {
	now := time.Now()
	return &Cart{
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeColor maps an empty color selector to the DefaultColor sentinel.
func NormalizeColor(color string) string {
	if color == "" {
		return DefaultColor
	}
	return color
}

// sameLine reports whether the item matches the (product, color, size)
// identity key. An empty color is treated as DefaultColor.
func (i *CartItem) sameLine(productID primitive.ObjectID, color, size string) bool {
	return i.ProductID == productID && i.Color == NormalizeColor(color) && i.Size == size
}

// AddItem merges the item into the cart. If a line with the same
// (product, color, size) key exists its quantity is incremented,
// otherwise the item is appended. Callers must not pass a non-positive
// quantity.
func (c *Cart) AddItem(item CartItem) {
	now := time.Now()
	item.Color = NormalizeColor(item.Color)

	for idx := range c.Items {
		if c.Items[idx].sameLine(item.ProductID, item.Color, item.Size) {
			c.Items[idx].Quantity += item.Quantity
			c.Items[idx].UpdatedAt = now
			c.UpdatedAt = now
			return
		}
	}

	item.AddedAt = now
	item.UpdatedAt = now
	c.Items = append(c.Items, item)
	c.UpdatedAt = now
}

// RemoveItem deletes the matching line. Removing an absent line is a no-op.
func (c *Cart) RemoveItem(productID primitive.ObjectID, color, size string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if !item.sameLine(productID, color, size) {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.UpdatedAt = time.Now()
}

// UpdateQuantity sets the quantity of the matching line. A quantity of
// zero or below removes the line. Updating an absent line is a no-op.
func (c *Cart) UpdateQuantity(productID primitive.ObjectID, quantity int, color, size string) {
	for idx := range c.Items {
		if c.Items[idx].sameLine(productID, color, size) {
			if quantity <= 0 {
				c.RemoveItem(productID, color, size)
				return
			}
			now := time.Now()
			c.Items[idx].Quantity = quantity
			c.Items[idx].UpdatedAt = now
			c.UpdatedAt = now
			return
		}
	}
}

// Item returns the matching line, or nil if the cart has none.
func (c *Cart) Item(productID primitive.ObjectID, color, size string) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].sameLine(productID, color, size) {
			return &c.Items[idx]
		}
	}
	return nil
}

// Total sums price * quantity over all lines. Orphaned lines keep their
// snapshot price.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount sums the quantities of all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clear empties the cart without deleting it.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.UpdatedAt = time.Now()
}

// ValidItems filters out lines that would not survive a defensive check:
// a missing product reference, a non-positive quantity or a negative
// snapshot price. Used before trusting persisted data.
func (c *Cart) ValidItems() []CartItem {
	valid := []CartItem{}
	for _, item := range c.Items {
		if !item.ProductID.IsZero() && item.Quantity > 0 && item.Price >= 0 {
			valid = append(valid, item)
		}
	}
	return valid
}
