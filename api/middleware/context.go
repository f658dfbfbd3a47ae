package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laundryos/washstack/internal/utils"
)

// TenantHeaderMiddleware requires a tenant header and stores it for the
// custom context.
func TenantHeaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := c.GetHeader("tenant")
		if tenant == "" {
			tenant = c.GetHeader("Tenant")
		}
		if tenant == "" {
			tenant = c.GetHeader("TenantName")
		}

		if tenant == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tenant header is required"})
			c.Abort()
			return
		}

		c.Set("TenantName", tenant)
		c.Next()
	}
}

// CustomContextMiddleware adds custom context to all requests
func CustomContextMiddleware(appSource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := utils.WithCustomContextFromGinRequest(c, appSource)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
