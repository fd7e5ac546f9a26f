package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the registry routes. db may be nil in tests; /healthz
// then reports only process liveness.
func NewRouter(h *Handler, db *sql.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.POST("/authors", h.RegisterAuthor)
		api.POST("/authors/login", h.Login)
		api.GET("/authors/:name", h.GetAuthor)
		api.GET("/author", h.WhoAmI)

		api.POST("/packages", h.Publish)
		api.GET("/packages", h.ListPackages)
		api.GET("/packages/:name", h.GetPackage)
		api.GET("/packages/:name/uploads", h.ListUploads)

		api.POST("/uploads", h.RecordUpload)
		api.POST("/uploads/presign", h.PresignUpload)
		api.GET("/uploads/:name", h.GetUpload)
	}

	router.GET("/healthz", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
