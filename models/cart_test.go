package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newLine(productID primitive.ObjectID, price float64, quantity int, color, size string) CartItem {
	return CartItem{
		ProductID: productID,
		Name:      "Test Product",
		Price:     price,
		Image:     "test.jpg",
		Quantity:  quantity,
		Color:     color,
		Size:      size,
	}
}

func TestAddItemMergesSameKey(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()

	cart.AddItem(newLine(productID, 100, 2, "red", ""))
	cart.AddItem(newLine(productID, 100, 3, "red", ""))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 500.0, cart.Total())
}

func TestAddItemDistinctVariants(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()

	cart.AddItem(newLine(productID, 100, 1, "red", ""))
	cart.AddItem(newLine(productID, 100, 1, "blue", ""))

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.ItemCount())
}

func TestAddItemSizeParticipatesInKey(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()

	cart.AddItem(newLine(productID, 50, 1, "red", "M"))
	cart.AddItem(newLine(productID, 50, 1, "red", "L"))
	cart.AddItem(newLine(productID, 50, 1, "red", "M"))

	require.Len(t, cart.Items, 2)
	m := cart.Item(productID, "red", "M")
	require.NotNil(t, m)
	assert.Equal(t, 2, m.Quantity)
}

func TestAddItemNormalizesEmptyColor(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()

	cart.AddItem(newLine(productID, 10, 1, "", ""))
	cart.AddItem(newLine(productID, 10, 1, DefaultColor, ""))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, DefaultColor, cart.Items[0].Color)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestTotalMatchesSumOverLines(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	cart.AddItem(newLine(primitive.NewObjectID(), 99.5, 2, "red", ""))
	cart.AddItem(newLine(primitive.NewObjectID(), 10, 3, "blue", "S"))

	want := 0.0
	for _, item := range cart.Items {
		want += item.Price * float64(item.Quantity)
	}
	assert.Equal(t, want, cart.Total())
	assert.Equal(t, 5, cart.ItemCount())
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	productID := primitive.NewObjectID()

	for _, variant := range []struct{ color, size string }{
		{"red", ""},
		{"", ""},
		{"blue", "XL"},
	} {
		viaUpdate := NewCart(primitive.NewObjectID())
		viaUpdate.AddItem(newLine(productID, 20, 2, variant.color, variant.size))
		viaUpdate.UpdateQuantity(productID, 0, variant.color, variant.size)

		viaRemove := NewCart(primitive.NewObjectID())
		viaRemove.AddItem(newLine(productID, 20, 2, variant.color, variant.size))
		viaRemove.RemoveItem(productID, variant.color, variant.size)

		assert.Equal(t, viaRemove.Items, viaUpdate.Items)
		assert.True(t, viaUpdate.IsEmpty())
	}
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()

	cart.AddItem(newLine(productID, 25, 1, "red", ""))
	cart.UpdateQuantity(productID, 7, "red", "")

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assert.Equal(t, 175.0, cart.Total())
}

func TestUpdateQuantityAbsentLineIsNoop(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	cart.AddItem(newLine(primitive.NewObjectID(), 10, 1, "red", ""))

	cart.UpdateQuantity(primitive.NewObjectID(), 5, "red", "")

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestRemoveItemIdempotent(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()
	other := primitive.NewObjectID()

	cart.AddItem(newLine(productID, 10, 1, "red", ""))
	cart.AddItem(newLine(other, 5, 2, "red", ""))

	cart.RemoveItem(productID, "red", "")
	once := append([]CartItem{}, cart.Items...)
	cart.RemoveItem(productID, "red", "")

	assert.Equal(t, once, cart.Items)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, other, cart.Items[0].ProductID)
}

func TestClearThenAddRoundTrip(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	cart.AddItem(newLine(primitive.NewObjectID(), 10, 1, "red", ""))
	cart.AddItem(newLine(primitive.NewObjectID(), 20, 2, "blue", ""))

	cart.Clear()
	require.True(t, cart.IsEmpty())
	assert.Equal(t, 0.0, cart.Total())

	line := newLine(primitive.NewObjectID(), 42, 3, "green", "M")
	cart.AddItem(line)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, line.ProductID, cart.Items[0].ProductID)
	assert.Equal(t, 126.0, cart.Total())
}

func TestValidItemsFiltersCorruptLines(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	good := newLine(primitive.NewObjectID(), 10, 1, "red", "")
	cart.Items = []CartItem{
		good,
		{ProductID: primitive.NilObjectID, Price: 10, Quantity: 1},
		{ProductID: primitive.NewObjectID(), Price: 10, Quantity: 0},
		{ProductID: primitive.NewObjectID(), Price: -1, Quantity: 1},
	}

	valid := cart.ValidItems()
	require.Len(t, valid, 1)
	assert.Equal(t, good.ProductID, valid[0].ProductID)
}
