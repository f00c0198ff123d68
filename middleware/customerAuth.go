package middleware

import (
	"net/http"
	"strings"

	"homely/utils"

	"github.com/gin-gonic/gin"
)

// CustomerAuthMiddleware resolves the bearer token into a customer ID and
// stores it on the gin context. Tokens are minted by the external auth
// service; only the subject claim matters here.
func CustomerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		customerID, err := utils.ExtractCustomerIDFromToken(tokenString)
		if err != nil || customerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set("customerID", customerID)
		c.Next()
	}
}
