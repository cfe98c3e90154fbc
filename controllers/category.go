package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-storefront/models"
	"go-storefront/utils"
)

// CategoryController handles category-related requests
type CategoryController struct {
	Collection *mongo.Collection
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(client *mongo.Client) *CategoryController {
	collection := client.Database(utils.DatabaseName).Collection("categories")
	return &CategoryController{
		Collection: collection,
	}
}

// GetCategories retrieves all active categories
func (cc *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	for cursor.Next(ctx) {
		var category models.Category
		if err := cursor.Decode(&category); err != nil {
			continue
		}
		categories = append(categories, category)
	}

	if err := cursor.Err(); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error reading categories")
		return
	}

	utils.Success(w, "", map[string]interface{}{"categories": categories})
}

// CreateCategory handles adding a new category (Admin only)
func (cc *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	err := json.NewDecoder(r.Body).Decode(&category)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if category.Name == "" {
		utils.Fail(w, http.StatusBadRequest, "Category name is required")
		return
	}

	now := time.Now()
	category.IsActive = true
	category.CreatedAt = now
	category.UpdatedAt = now

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := cc.Collection.InsertOne(ctx, category)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error creating category")
		return
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		category.ID = id
	}
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"category": category,
	})
}

// UpdateCategory handles updating a category (Admin only)
func (cc *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var category models.Category
	err = json.NewDecoder(r.Body).Decode(&category)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	category.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": category})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error updating category")
		return
	}
	if result.MatchedCount == 0 {
		utils.Fail(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.Success(w, "Category updated successfully", nil)
}

// DeleteCategory handles deleting a category (Admin only)
func (cc *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error deleting category")
		return
	}
	if result.DeletedCount == 0 {
		utils.Fail(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.Success(w, "Category deleted successfully", nil)
}
