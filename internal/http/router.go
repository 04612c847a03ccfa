// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"amazonia/internal/http/handlers"
	"amazonia/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logging("/health", "/metrics"))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	cartHandler := handlers.NewCartHandler(deps.Cart)
	api.POST("/carts", cartHandler.Create)
	api.GET("/carts/:id", cartHandler.Get)
	api.DELETE("/carts/:id", cartHandler.Clear)
	api.POST("/carts/:id/items", cartHandler.AddItem)
	api.PUT("/carts/:id/items/:productId", cartHandler.SetQuantity)
	api.DELETE("/carts/:id/items/:productId", cartHandler.RemoveItem)

	deliveryHandler := handlers.NewDeliveryHandler(deps.Delivery, deps.Cart, deps.Currency, deps.Geocoder)
	api.POST("/delivery/quote", deliveryHandler.Quote)

	currencyHandler := handlers.NewCurrencyHandler(deps.Currency)
	api.GET("/currency/rates", currencyHandler.Rates)
	api.GET("/currency/format", currencyHandler.Format)

	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)
	api.POST("/checkout", checkoutHandler.Checkout)

	admin := api.Group("/admin", middleware.Auth(deps.Verifier), middleware.RequireRole(middleware.RoleAdmin))
	admin.PUT("/currency/rates/:code", currencyHandler.SetRate)
	admin.GET("/delivery/settings", deliveryHandler.GetSettings)
	admin.PUT("/delivery/settings", deliveryHandler.UpdateSettings)

	return r
}
