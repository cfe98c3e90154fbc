// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"go-storefront/controllers"
	"go-storefront/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	categoryController *controllers.CategoryController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/verify", userController.VerifyEmail).Methods("GET")

	// Product routes
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Category routes
	router.HandleFunc("/categories", categoryController.GetCategories).Methods("GET")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/products", productController.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", productController.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", productController.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/categories", categoryController.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id}", categoryController.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/categories/{id}", categoryController.DeleteCategory).Methods("DELETE")
	admin.HandleFunc("/orders/{id}", orderController.UpdateOrderStatus).Methods("PUT")

	// Protected routes: the authenticated identity keys the cart document
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")

	// Cart routes
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart/add", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart/update", cartController.UpdateCartItem).Methods("PUT")
	protected.HandleFunc("/cart/remove/{product_id}", cartController.RemoveFromCart).Methods("DELETE")
	protected.HandleFunc("/cart/clear", cartController.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/sync", cartController.SyncCart).Methods("POST")

	// Order routes
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	protected.HandleFunc("/orders", orderController.CreateOrder).Methods("POST")
}
