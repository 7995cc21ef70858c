package handlers

import (
	"log"
	"net/http"

	"github.com/go-authgate/authchain/internal/auth"
	"github.com/go-authgate/authchain/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthenticationResponse describes a successful authentication.
type AuthenticationResponse struct {
	RequestID   string   `json:"request_id,omitempty"`
	Principal   string   `json:"principal"`
	Identity    bool     `json:"identity"`
	Authorities []string `json:"authorities"`
	Details     any      `json:"details,omitempty"`
}

type AuthHandler struct {
	authenticator middleware.Authenticator
}

func NewAuthHandler(authenticator middleware.Authenticator) *AuthHandler {
	return &AuthHandler{authenticator: authenticator}
}

// Login authenticates a JSON username/password pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "username and password are required",
		})
		return
	}

	requestID := uuid.New().String()
	clientIP := middleware.GetClientIP(c)

	result, err := h.authenticator.Authenticate(
		c.Request.Context(),
		auth.NewRequest(req.Username, req.Password, clientIP),
	)
	if err != nil {
		log.Printf("[Auth] Login failed request_id=%s user=%s ip=%s: %v",
			requestID, req.Username, clientIP, err)
		middleware.AbortWithAuthError(c, err, "")
		return
	}

	log.Printf("[Auth] Login succeeded request_id=%s user=%s ip=%s",
		requestID, result.Principal.Username(), clientIP)

	resp := newAuthenticationResponse(result)
	resp.RequestID = requestID
	c.JSON(http.StatusOK, resp)
}

// Me returns the authentication established earlier in the filter chain.
func (h *AuthHandler) Me(c *gin.Context) {
	result, ok := middleware.GetAuthentication(c)
	if !ok {
		middleware.AbortWithAuthError(c, auth.ErrBadCredentials, "")
		return
	}
	c.JSON(http.StatusOK, newAuthenticationResponse(result))
}

func newAuthenticationResponse(result *auth.Result) AuthenticationResponse {
	authorities := result.Authorities
	if authorities == nil {
		authorities = []string{}
	}
	return AuthenticationResponse{
		Principal:   result.Principal.Username(),
		Identity:    result.Principal.IsIdentity(),
		Authorities: authorities,
		Details:     result.Details,
	}
}
