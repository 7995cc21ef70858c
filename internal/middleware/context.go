package middleware

import (
	"github.com/go-authgate/authchain/internal/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by the filters in this package.
const (
	ContextKeyClientIP       = "client_ip"
	ContextKeyAuthentication = "authentication"
)

// ClientIP stores the client IP in the context. Gin's ClientIP() handles
// X-Forwarded-For and other proxy headers.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyClientIP, c.ClientIP())
	}
}

// GetClientIP returns the IP stored by ClientIP, falling back to gin's lookup.
func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextKeyClientIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// SetAuthentication stores a successful authentication in the context.
func SetAuthentication(c *gin.Context, result *auth.Result) {
	c.Set(ContextKeyAuthentication, result)
}

// GetAuthentication returns the authentication stored for this request.
func GetAuthentication(c *gin.Context) (*auth.Result, bool) {
	v, ok := c.Get(ContextKeyAuthentication)
	if !ok {
		return nil, false
	}
	result, ok := v.(*auth.Result)
	return result, ok && result != nil
}
