package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/handlers"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.InventoryFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	itemHandler := handlers.NewItemHandler(facade)
	withdrawalHandler := handlers.NewWithdrawalHandler(facade)
	purchaseHandler := handlers.NewPurchaseHandler(facade)

	api := engine.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/auth/profile", authHandler.Profile)

	authed.GET("/items", itemHandler.List)
	authed.GET("/items/:id", itemHandler.Get)

	authed.POST("/withdrawals", withdrawalHandler.Create)
	authed.POST("/withdrawals/check-availability", withdrawalHandler.CheckAvailability)
	authed.GET("/withdrawals/mine", withdrawalHandler.ListMine)
	authed.GET("/withdrawals/:id", withdrawalHandler.Get)
	authed.PATCH("/withdrawals/:id/confirm-taken", withdrawalHandler.ConfirmTaken)
	authed.PATCH("/withdrawals/:id/cancel", withdrawalHandler.Cancel)

	authed.POST("/purchases", purchaseHandler.Create)
	authed.GET("/purchases/mine", purchaseHandler.ListMine)
	authed.GET("/purchases/:id", purchaseHandler.Get)

	admin := authed.Group("")
	admin.Use(middleware.AdminRequired())
	admin.POST("/items", itemHandler.Create)
	admin.PUT("/items/:id", itemHandler.Update)
	admin.DELETE("/items/:id", itemHandler.Delete)
	admin.GET("/withdrawals", withdrawalHandler.ListAll)
	admin.PATCH("/withdrawals/:id/confirm-admin", withdrawalHandler.ConfirmAdmin)
	admin.GET("/purchases", purchaseHandler.ListAll)
	admin.PATCH("/purchases/:id/approve", purchaseHandler.Approve)
	admin.PATCH("/purchases/:id/reject", purchaseHandler.Reject)
	admin.PATCH("/purchases/:id/purchase", purchaseHandler.MarkBought)

	return engine
}
