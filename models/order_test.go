package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeTotalsBelowFreeShipping(t *testing.T) {
	order := Order{Items: []CartItem{
		newLine(primitive.NewObjectID(), 100, 2, "red", ""),
		newLine(primitive.NewObjectID(), 50, 1, "blue", ""),
	}}
	order.ComputeTotals()

	assert.Equal(t, 250.0, order.Subtotal)
	assert.Equal(t, 45.0, order.Tax) // 18% of 250
	assert.Equal(t, 50.0, order.ShippingCost)
	assert.Equal(t, 345.0, order.Total)
}

func TestComputeTotalsFreeShippingThreshold(t *testing.T) {
	order := Order{Items: []CartItem{
		newLine(primitive.NewObjectID(), 500, 1, "red", ""),
	}}
	order.ComputeTotals()

	assert.Equal(t, 500.0, order.Subtotal)
	assert.Equal(t, 0.0, order.ShippingCost)
	assert.Equal(t, 590.0, order.Total)
}

func TestComputeTotalsRoundsTax(t *testing.T) {
	order := Order{Items: []CartItem{
		newLine(primitive.NewObjectID(), 33.33, 1, "red", ""),
	}}
	order.ComputeTotals()

	// 18% of 33.33 is 5.9994, rounded to 6
	assert.Equal(t, 6.0, order.Tax)
}

func TestComputeTotalsAppliesDiscount(t *testing.T) {
	order := Order{
		Items:    []CartItem{newLine(primitive.NewObjectID(), 1000, 1, "red", "")},
		Discount: 100,
	}
	order.ComputeTotals()

	assert.Equal(t, 1000.0+180.0-100.0, order.Total)
}

func TestNewOrderNumberFormat(t *testing.T) {
	a := NewOrderNumber()
	b := NewOrderNumber()

	assert.Contains(t, a, "ORD-")
	assert.NotEqual(t, a, b)
}
