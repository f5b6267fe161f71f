// Package api wires the gin router for the document portal.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docportal/docportal/internal/api/handlers"
)

const landingPage = `<!DOCTYPE html>
<html>
<head><title>Document Portal</title></head>
<body>
<h1>Document Portal</h1>
<p>Endpoints: POST /health, /analyze, /compare, /chat/index, /chat/query</p>
</body>
</html>`

// NewRouter builds the HTTP surface around the handler dependencies.
func NewRouter(deps *handlers.Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(deps.Cfg.Server.CORSOrigins))

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(landingPage))
	})
	router.POST("/health", deps.Health)
	router.POST("/analyze", deps.Analyze)
	router.POST("/compare", deps.Compare)

	chat := router.Group("/chat")
	{
		chat.POST("/index", deps.ChatIndex)
		chat.POST("/query", deps.ChatQuery)
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := "*"
	if len(origins) == 1 {
		allowed = origins[0]
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
