package utils

import (
	"encoding/json"
	"net/http"

	"go-storefront/models"
)

// CartPayload is the wire shape of a cart in API responses.
type CartPayload struct {
	Items     []models.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

// NewCartPayload derives the response payload from a cart.
func NewCartPayload(cart *models.Cart) CartPayload {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return CartPayload{
		Items:     items,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Success writes the uniform {success: true, ...} envelope.
func Success(w http.ResponseWriter, message string, extra map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	JSON(w, http.StatusOK, body)
}

// Fail writes the uniform {success: false, message} envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
