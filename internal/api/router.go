package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires the dashboard endpoints. allowOrigins is the CORS
// allow-list for the browser UI; empty means same-origin only.
func SetupRouter(h *Handler, allowOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(allowOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = allowOrigins
		router.Use(cors.New(corsCfg))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/quote", h.GetQuote)
		v1.GET("/transfers", h.GetTransfers)
		v1.GET("/holders", h.GetHolders)
		v1.GET("/token", h.GetTokenInfo)
		v1.GET("/pool", h.GetPool)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}
