package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(catalogH *handlers.CatalogHandler, cartH *handlers.CartHandler, ledgerH *handlers.LedgerHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(handlers.SessionMiddleware())

	api.GET("/measures", catalogH.ListMeasures)
	api.POST("/measures", catalogH.CreateMeasure)
	api.PUT("/measures/:id", catalogH.UpdateMeasure)
	api.DELETE("/measures/:id", catalogH.DeleteMeasure)

	api.GET("/categories", catalogH.ListCategories)
	api.POST("/categories", catalogH.CreateCategory)
	api.PUT("/categories/:id", catalogH.RenameCategory)
	api.DELETE("/categories/:id", catalogH.DeleteCategory)

	api.GET("/subcategories", catalogH.ListSubcategories)
	api.POST("/subcategories", catalogH.CreateSubcategory)
	api.PUT("/subcategories/:id", catalogH.UpdateSubcategory)
	api.DELETE("/subcategories/:id", catalogH.DeleteSubcategory)
	api.PUT("/subcategories/:id/shopping-flag", cartH.SetShoppingFlag)
	api.GET("/subcategories/:id/suggested-package-count", ledgerH.SuggestPackageCount)

	api.GET("/products", catalogH.ListProducts)
	api.POST("/products", catalogH.CreateProduct)
	api.PUT("/products/:id", catalogH.UpdateProduct)
	api.DELETE("/products/:id", catalogH.DeleteProduct)

	api.GET("/cart", cartH.ListLines)
	api.POST("/cart", cartH.AddLine)
	api.PUT("/cart/:id", cartH.UpdateLine)
	api.DELETE("/cart/:id", cartH.RemoveLine)
	api.DELETE("/cart", cartH.Clear)

	api.POST("/purchases", ledgerH.CommitPurchase)
	api.POST("/consumptions", ledgerH.RecordConsumption)
	api.POST("/adjustments", ledgerH.RecordAdjustment)
	api.GET("/movements", ledgerH.ListMovements)
	api.DELETE("/movements/:id", ledgerH.ReverseMovement)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
