package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/authchain/internal/core"
	"github.com/go-authgate/authchain/internal/models"
	"github.com/go-authgate/authchain/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// UserStore looks up local accounts.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// dummyHash is compared against when the user does not exist so that unknown
// and known usernames take roughly the same time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("authchain-dummy-password"), bcrypt.DefaultCost)

// LocalBackend verifies credentials against the user database
type LocalBackend struct {
	store UserStore
	now   func() time.Time
}

// NewLocalBackend creates a new local credential backend
func NewLocalBackend(s UserStore) *LocalBackend {
	return &LocalBackend{store: s, now: time.Now}
}

// Verify checks password against the stored bcrypt hash. The returned identity
// carries the supplied password as its credential.
func (b *LocalBackend) Verify(
	ctx context.Context,
	username, password string,
) (*core.Identity, error) {
	user, err := b.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrBackendUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(password),
	); err != nil {
		return nil, core.ErrBadCredentials
	}

	now := b.now()
	return &core.Identity{
		Username:              user.Username,
		Credential:            password,
		Authorities:           user.AuthorityList(),
		Enabled:               !user.Disabled,
		AccountNonExpired:     !user.IsAccountExpired(now),
		AccountNonLocked:      !user.Locked,
		CredentialsNonExpired: !user.IsPasswordExpired(now),
	}, nil
}

// Name returns backend name for logging
func (b *LocalBackend) Name() string {
	return "local"
}
