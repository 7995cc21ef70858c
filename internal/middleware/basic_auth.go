package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/go-authgate/authchain/internal/auth"

	"github.com/gin-gonic/gin"
)

// Authenticator is satisfied by auth.Manager.
type Authenticator interface {
	Authenticate(ctx context.Context, token any) (*auth.Result, error)
}

// BasicAuth authenticates requests carrying HTTP Basic credentials. Requests
// without Basic credentials pass through unauthenticated; pair with
// RequireAuthentication to reject them. Supplied credentials are always
// verified, even if the context already holds an authentication. Failed
// attempts abort with the status from StatusForAuthError.
func BasicAuth(authenticator Authenticator, realm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			return
		}

		req := auth.NewRequest(username, password, GetClientIP(c))
		result, err := authenticator.Authenticate(c.Request.Context(), req)
		if err != nil {
			log.Printf("[Auth] Basic authentication failed for user=%s ip=%s: %v",
				username, GetClientIP(c), err)
			AbortWithAuthError(c, err, realm)
			return
		}

		SetAuthentication(c, result)
	}
}

// RequireAuthentication rejects requests that no earlier filter authenticated.
func RequireAuthentication(realm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetAuthentication(c); ok {
			return
		}
		AbortWithAuthError(c, auth.ErrBadCredentials, realm)
	}
}

// RequireAuthority rejects authenticated requests lacking authority.
func RequireAuthority(authority, realm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := GetAuthentication(c)
		if !ok {
			AbortWithAuthError(c, auth.ErrBadCredentials, realm)
			return
		}
		if !result.HasAuthority(authority) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":             "access_denied",
				"error_description": "Insufficient authority",
			})
		}
	}
}
