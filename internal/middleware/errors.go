package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-authgate/authchain/internal/auth"

	"github.com/gin-gonic/gin"
)

// StatusForAuthError maps an authentication error to an HTTP status.
func StatusForAuthError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, auth.ErrBadCredentials),
		errors.Is(err, auth.ErrAccountDisabled),
		errors.Is(err, auth.ErrAccountExpired),
		errors.Is(err, auth.ErrAccountLocked),
		errors.Is(err, auth.ErrCredentialsExpired):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrAuthenticationService):
		return http.StatusServiceUnavailable
	case errors.Is(err, auth.ErrUnsupportedRequest), errors.Is(err, auth.ErrProviderNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// authErrorDescription never reveals whether the username exists.
func authErrorDescription(err error) string {
	switch {
	case errors.Is(err, auth.ErrBadCredentials):
		return "Bad credentials"
	case errors.Is(err, auth.ErrAccountDisabled):
		return "User is disabled"
	case errors.Is(err, auth.ErrAccountExpired):
		return "User account has expired"
	case errors.Is(err, auth.ErrAccountLocked):
		return "User account is locked"
	case errors.Is(err, auth.ErrCredentialsExpired):
		return "User credentials have expired"
	case errors.Is(err, auth.ErrAuthenticationService):
		return "Authentication service is temporarily unavailable"
	case errors.Is(err, auth.ErrUnsupportedRequest), errors.Is(err, auth.ErrProviderNotFound):
		return "Unsupported authentication request"
	default:
		return "Internal server error"
	}
}

// AbortWithAuthError writes the JSON error for err and aborts. 401 responses
// carry a Basic challenge for realm unless realm is empty.
func AbortWithAuthError(c *gin.Context, err error, realm string) {
	status := StatusForAuthError(err)
	if status == http.StatusUnauthorized && realm != "" {
		c.Header("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", realm))
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":             auth.ResultLabel(err),
		"error_description": authErrorDescription(err),
	})
}
