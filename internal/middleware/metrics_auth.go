package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerToken protects an endpoint with a static bearer token. An empty token
// disables the check.
func BearerToken(token, realm string) gin.HandlerFunc {
	challenge := fmt.Sprintf("Bearer realm=%q", realm)

	return func(c *gin.Context) {
		if token == "" {
			return
		}

		providedToken, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || providedToken == "" {
			c.Header("WWW-Authenticate", challenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Bearer token required",
			})
			return
		}

		// Constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(providedToken), []byte(token)) != 1 {
			c.Header("WWW-Authenticate", challenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid token",
			})
		}
	}
}

// MetricsAuthMiddleware protects the metrics endpoint with Bearer token
func MetricsAuthMiddleware(token string) gin.HandlerFunc {
	return BearerToken(token, "Metrics")
}
