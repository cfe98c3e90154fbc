package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a purchasable product. The cart only ever reads
// this entity to snapshot display data at add-time.
type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name               string             `bson:"name" json:"name"`
	Price              float64            `bson:"price" json:"price"`
	OriginalPrice      float64            `bson:"original_price,omitempty" json:"originalPrice,omitempty"`
	DiscountPercentage float64            `bson:"discount_percentage,omitempty" json:"discountPercentage,omitempty"`
	Image              string             `bson:"image" json:"image"`
	Images             []string           `bson:"images,omitempty" json:"images,omitempty"`
	Category           primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	CategoryName       string             `bson:"category_name,omitempty" json:"categoryName,omitempty"`
	Description        string             `bson:"description" json:"description"`
	Rating             float64            `bson:"rating" json:"rating"`
	ReviewCount        int                `bson:"review_count" json:"reviewCount"`
	InStock            bool               `bson:"in_stock" json:"inStock"`
	Stock              int                `bson:"stock" json:"stock"`
	Colors             []string           `bson:"colors,omitempty" json:"colors,omitempty"`
	Features           []string           `bson:"features,omitempty" json:"features,omitempty"`
	Brand              string             `bson:"brand,omitempty" json:"brand,omitempty"`
	IsActive           bool               `bson:"is_active" json:"isActive"`
	IsFeatured         bool               `bson:"is_featured" json:"isFeatured"`
	Tags               []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}
