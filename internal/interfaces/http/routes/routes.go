// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-client/internal/domain/cart"
	"github.com/your-org/storefront-client/internal/domain/catalog"
	"github.com/your-org/storefront-client/internal/domain/identity"
	"github.com/your-org/storefront-client/internal/domain/order"
	"github.com/your-org/storefront-client/internal/domain/stock"
	"github.com/your-org/storefront-client/internal/interfaces/http/handlers"
)

// Services bundles everything the UI surface needs
type Services struct {
	Session *identity.Session
	Cart    *cart.Service
	Catalog *catalog.Client
	Orders  *order.Service
	Stocks  *stock.Broadcaster
}

// SetupRoutes wires all UI-facing routes
func SetupRoutes(rg *gin.RouterGroup, svc Services) {
	sessionHandler := handlers.NewSessionHandler(svc.Session)
	session := rg.Group("/session")
	{
		session.POST("/login", sessionHandler.Login)
		session.POST("/signup", sessionHandler.Signup)
		session.POST("/logout", sessionHandler.Logout)
		session.GET("/me", sessionHandler.Me)
	}

	cartHandler := handlers.NewCartHandler(svc.Cart)
	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateItem)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.GET("/count", cartHandler.GetCartCount)
	}

	catalogHandler := handlers.NewCatalogHandler(svc.Catalog)
	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	orderHandler := handlers.NewOrderHandler(svc.Orders)
	orders := rg.Group("/orders")
	{
		orders.POST("/checkout", orderHandler.Checkout)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.DELETE("/:id", orderHandler.DeleteOrder)
	}

	eventsHandler := handlers.NewEventsHandler(svc.Cart, svc.Stocks)
	rg.GET("/events", eventsHandler.Stream)
}
