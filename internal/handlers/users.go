package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-authgate/authchain/internal/core"
	"github.com/go-authgate/authchain/internal/models"
	"github.com/go-authgate/authchain/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the subset of store.Store used for account administration.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, username, passwordHash string, expiresAt *time.Time) error
	SetLocked(ctx context.Context, username string, locked bool) error
}

// CreateUserRequest is the body of POST /api/admin/users.
type CreateUserRequest struct {
	Username    string   `json:"username"    binding:"required"`
	Password    string   `json:"password"    binding:"required,min=8"`
	Authorities []string `json:"authorities"`
}

// PasswordRequest is the body of PUT /api/admin/users/:username/password.
type PasswordRequest struct {
	Password  string     `json:"password"   binding:"required,min=8"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// UserHandler administers local accounts. Every change evicts the cached
// credentials of the account so the next login reaches the database.
type UserHandler struct {
	store UserStore
	cache core.CredentialCache
}

func NewUserHandler(s UserStore, cache core.CredentialCache) *UserHandler {
	return &UserHandler{store: s, cache: cache}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": err.Error(),
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	user.SetAuthorities(req.Authorities...)

	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrUsernameConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"error":             "conflict",
				"error_description": "username already exists",
			})
			return
		}
		log.Printf("[Users] Failed to create user=%s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	log.Printf("[Users] Created user=%s", user.Username)
	c.JSON(http.StatusCreated, gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"authorities": user.AuthorityList(),
	})
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": err.Error(),
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	username := c.Param("username")
	h.respond(c, username, "password reset",
		h.store.UpdatePassword(c.Request.Context(), username, string(hash), req.ExpiresAt))
}

func (h *UserHandler) Lock(c *gin.Context) {
	username := c.Param("username")
	h.respond(c, username, "locked", h.store.SetLocked(c.Request.Context(), username, true))
}

func (h *UserHandler) Unlock(c *gin.Context) {
	username := c.Param("username")
	h.respond(c, username, "unlocked", h.store.SetLocked(c.Request.Context(), username, false))
}

func (h *UserHandler) respond(c *gin.Context, username, action string, err error) {
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	case err != nil:
		log.Printf("[Users] Failed to update user=%s (%s): %v", username, action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	if err := h.cache.RemoveUser(c.Request.Context(), username); err != nil {
		log.Printf("[Users] Failed to evict cached credentials for user=%s: %v", username, err)
	}
	log.Printf("[Users] user=%s %s", username, action)
	c.Status(http.StatusNoContent)
}
