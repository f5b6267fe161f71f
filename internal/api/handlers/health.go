package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (d *Deps) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "Document Portal",
	})
}
