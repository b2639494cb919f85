package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows the register frontend and the web storefront to call the API
// from any origin. The API is token-gated, so the origin whitelist is wide
// open; tighten Allow-Origin if the deployment ever serves browsers directly.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
