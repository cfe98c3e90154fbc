// controllers/order.go
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

// OrderController handles order-related requests
type OrderController struct {
	OrderCollection *mongo.Collection
	CartCollection  *mongo.Collection
	UserCollection  *mongo.Collection
	EmailService    *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, emailService *utils.EmailService) *OrderController {
	db := client.Database(utils.DatabaseName)
	return &OrderController{
		OrderCollection: db.Collection("orders"),
		CartCollection:  db.Collection("carts"),
		UserCollection:  db.Collection("users"),
		EmailService:    emailService,
	}
}

// CreateOrderInput is the body of POST /orders.
type CreateOrderInput struct {
	PaymentMethod string         `json:"paymentMethod"`
	Address       models.Address `json:"address"`
}

// CreateOrder creates a new order from the user's cart. Order lines keep
// the cart's add-time price snapshots; payment is recorded but never
// processed here.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var input CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = "cod"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Find the user's cart
	var cart models.Cart
	err = oc.CartCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		utils.Fail(w, http.StatusNotFound, "Cart not found")
		return
	}

	// Drop lines that would not survive a defensive check before ordering
	items := cart.ValidItems()
	if len(items) == 0 {
		utils.Fail(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	now := time.Now()
	order := models.Order{
		OrderNumber:   models.NewOrderNumber(),
		UserID:        userID,
		Items:         items,
		Address:       input.Address,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.OrderProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.ComputeTotals()

	result, err := oc.OrderCollection.InsertOne(ctx, order)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}

	// Reset the cart now that its contents are ordered
	cart.Clear()
	_, err = oc.CartCollection.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{
		"items":      cart.Items,
		"updated_at": cart.UpdatedAt,
	}})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	// Send confirmation email without holding up the response
	go func(email string, order models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(email, order); err != nil {
			slog.Error("failed to send order confirmation", "email", email, "error", err)
		}
	}(claims.Email, order)

	slog.Info("order created", "user_id", userID.Hex(), "order_number", order.OrderNumber, "total", order.Total)

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := oc.OrderCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			utils.Fail(w, http.StatusInternalServerError, "Error decoding order")
			return
		}
		orders = append(orders, order)
	}

	if err := cursor.Err(); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Cursor error")
		return
	}

	utils.Success(w, "", map[string]interface{}{"orders": orders})
}

// UpdateOrderStatus allows an admin to move an order through its
// fulfilment states and update the payment status.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r)
	if !ok || claims.Role != "admin" {
		utils.Fail(w, http.StatusForbidden, "Forbidden")
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var statusUpdate struct {
		OrderStatus   string `json:"orderStatus"`
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusUpdate); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if statusUpdate.OrderStatus != "" {
		if !validOrderStatus(statusUpdate.OrderStatus) {
			utils.Fail(w, http.StatusBadRequest, "Invalid order status")
			return
		}
		set["order_status"] = statusUpdate.OrderStatus
	}
	if statusUpdate.PaymentStatus != "" {
		if !validPaymentStatus(statusUpdate.PaymentStatus) {
			utils.Fail(w, http.StatusBadRequest, "Invalid payment status")
			return
		}
		set["payment_status"] = statusUpdate.PaymentStatus
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := oc.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": set})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if result.MatchedCount == 0 {
		utils.Fail(w, http.StatusNotFound, "Order not found")
		return
	}

	utils.Success(w, "Order updated successfully", nil)
}

func validOrderStatus(status string) bool {
	switch status {
	case models.OrderProcessing, models.OrderConfirmed, models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
		return true
	}
	return false
}

func validPaymentStatus(status string) bool {
	switch status {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
		return true
	}
	return false
}
