package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/addrsync/backend/internal/infrastructure/logger"
	"github.com/addrsync/backend/internal/interfaces/http/handler"
)

// Setup builds the gin engine with middleware and routes.
func Setup(log *zap.Logger, importHandler *handler.AddressImportHandler) *gin.Engine {
	r := gin.New()
	r.Use(logger.GinMiddleware(log))
	r.Use(logger.Recovery(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		imports := v1.Group("/import")
		{
			imports.POST("/addresses", importHandler.Import)
			imports.POST("/addresses/validate", importHandler.Validate)
		}
	}

	return r
}
