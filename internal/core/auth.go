package core

import (
	"context"
	"errors"
	"slices"
)

// Errors a CredentialBackend may return. The first two are credential-validation
// failures; ErrBackendUnavailable marks an infrastructure fault unrelated to the
// validity of the supplied credentials.
var (
	ErrBadCredentials     = errors.New("backend: bad credentials")
	ErrUserNotFound       = errors.New("backend: user not found")
	ErrBackendUnavailable = errors.New("backend: unavailable")
)

// Identity is a verified user snapshot as produced by a CredentialBackend
// or reconstructed from a CredentialCache.
type Identity struct {
	Username              string   `json:"username"`
	Credential            string   `json:"credential"`
	Authorities           []string `json:"authorities"`
	Enabled               bool     `json:"enabled"`
	AccountNonExpired     bool     `json:"account_non_expired"`
	AccountNonLocked      bool     `json:"account_non_locked"`
	CredentialsNonExpired bool     `json:"credentials_non_expired"`
}

// Clone returns a deep copy so callers never share the authorities slice.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	c.Authorities = slices.Clone(i.Authorities)
	return &c
}

// CredentialBackend is the system of record that verifies a username/password pair.
// Implementations include LocalBackend (database), HTTPAPIBackend and StaticBackend.
type CredentialBackend interface {
	Verify(ctx context.Context, username, password string) (*Identity, error)
	Name() string
}

// CredentialCache keeps the last verified Identity per username.
// Implementations must be safe for concurrent use.
type CredentialCache interface {
	// GetUser returns the cached identity, or ok=false on a miss.
	GetUser(ctx context.Context, username string) (identity *Identity, ok bool, err error)
	PutUser(ctx context.Context, identity *Identity) error
	RemoveUser(ctx context.Context, username string) error
}
