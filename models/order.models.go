package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order payment and fulfilment states.
const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentFailed    = "failed"
	OrderProcessing  = "processing"
	OrderConfirmed   = "confirmed"
	OrderShipped     = "shipped"
	OrderDelivered   = "delivered"
	OrderCancelled   = "cancelled"
	freeShippingOver = 500.0
	flatShippingCost = 50.0
	taxRate          = 0.18
)

// Order represents a user's order. Items carry the cart's snapshot
// prices; the order total is fixed at creation time.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderNumber   string             `bson:"order_number" json:"orderNumber"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	Items         []CartItem         `bson:"items" json:"items"`
	Address       Address            `bson:"address" json:"address"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	Tax           float64            `bson:"tax" json:"tax"`
	ShippingCost  float64            `bson:"shipping_cost" json:"shippingCost"`
	Discount      float64            `bson:"discount" json:"discount"`
	Total         float64            `bson:"total" json:"total"`
	PaymentMethod string             `bson:"payment_method" json:"paymentMethod"`
	PaymentStatus string             `bson:"payment_status" json:"paymentStatus"`
	OrderStatus   string             `bson:"order_status" json:"orderStatus"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewOrderNumber returns a short human-readable order reference.
func NewOrderNumber() string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("ORD-%d-%s", time.Now().Unix(), strings.ToUpper(suffix))
}

// ComputeTotals derives subtotal, tax, shipping and total from the
// order items. Tax is rounded to the nearest unit; orders below the
// free-shipping threshold pay a flat shipping cost.
func (o *Order) ComputeTotals() {
	subtotal := 0.0
	for _, item := range o.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	o.Subtotal = subtotal
	o.Tax = math.Round(subtotal * taxRate)

	if subtotal > 0 && subtotal < freeShippingOver {
		o.ShippingCost = flatShippingCost
	} else {
		o.ShippingCost = 0
	}

	o.Total = o.Subtotal + o.Tax + o.ShippingCost - o.Discount
	o.UpdatedAt = time.Now()
}
