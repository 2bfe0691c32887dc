package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/mkulima/shambamart/internal/server/http/handlers"
	"github.com/mkulima/shambamart/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	itemHandler := handlers.NewItemHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	api := engine.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/items", itemHandler.List)
	api.GET("/items/:id", itemHandler.Get)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/seller/items", itemHandler.Mine)
	authed.POST("/items", itemHandler.Create)
	authed.PATCH("/items/:id", itemHandler.Update)
	authed.DELETE("/items/:id", itemHandler.Remove)

	authed.GET("/cart", cartHandler.List)
	authed.POST("/cart", cartHandler.Add)
	authed.PATCH("/cart/:id", cartHandler.Update)
	authed.DELETE("/cart/:id", cartHandler.Remove)

	authed.POST("/orders", orderHandler.Checkout)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.POST("/orders/:id/cancel", orderHandler.Cancel)
	authed.GET("/orders/:id/payments", paymentHandler.ListForOrder)

	authed.POST("/payments", paymentHandler.Initiate)
	authed.POST("/payments/:id/complete", paymentHandler.Complete)
	authed.POST("/payments/:id/fail", paymentHandler.Fail)

	return engine
}
