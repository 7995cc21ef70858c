package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/go-authgate/authchain/internal/core"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// NoopPasswordPrefix marks a plain-text password in a static users file.
const NoopPasswordPrefix = "{noop}"

// StaticUser is one entry of a static users document.
type StaticUser struct {
	Username           string   `yaml:"username"            validate:"required"`
	Password           string   `yaml:"password"            validate:"required"` // bcrypt hash or {noop}plain
	Authorities        []string `yaml:"authorities"         validate:"dive,required"`
	Disabled           bool     `yaml:"disabled"`
	AccountExpired     bool     `yaml:"account_expired"`
	Locked             bool     `yaml:"locked"`
	CredentialsExpired bool     `yaml:"credentials_expired"`
}

type staticUsersFile struct {
	Users []StaticUser `yaml:"users" validate:"required,min=1,dive"`
}

// StaticBackend verifies credentials against a fixed in-memory user set.
type StaticBackend struct {
	users map[string]StaticUser
}

// NewStaticBackend rejects duplicate usernames.
func NewStaticBackend(users ...StaticUser) (*StaticBackend, error) {
	b := &StaticBackend{users: make(map[string]StaticUser, len(users))}
	for _, u := range users {
		if _, exists := b.users[u.Username]; exists {
			return nil, fmt.Errorf("%w: duplicate static user %q", ErrConfiguration, u.Username)
		}
		u.Authorities = slices.Clone(u.Authorities)
		b.users[u.Username] = u
	}
	return b, nil
}

// LoadStaticUsers decodes and validates a YAML users document.
func LoadStaticUsers(r io.Reader) ([]StaticUser, error) {
	var doc staticUsersFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: static users document is empty", ErrConfiguration)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return doc.Users, nil
}

// LoadStaticBackendFile builds a StaticBackend from the YAML file at path.
func LoadStaticBackendFile(path string) (*StaticBackend, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	defer f.Close()

	users, err := LoadStaticUsers(f)
	if err != nil {
		return nil, err
	}
	return NewStaticBackend(users...)
}

// Verify checks password against the configured user.
func (b *StaticBackend) Verify(
	_ context.Context,
	username, password string,
) (*core.Identity, error) {
	u, ok := b.users[username]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	if !matchPassword(u.Password, password) {
		return nil, core.ErrBadCredentials
	}

	return &core.Identity{
		Username:              u.Username,
		Credential:            password,
		Authorities:           slices.Clone(u.Authorities),
		Enabled:               !u.Disabled,
		AccountNonExpired:     !u.AccountExpired,
		AccountNonLocked:      !u.Locked,
		CredentialsNonExpired: !u.CredentialsExpired,
	}, nil
}

// Name returns backend name for logging
func (b *StaticBackend) Name() string {
	return "static"
}

func matchPassword(stored, supplied string) bool {
	if plain, ok := strings.CutPrefix(stored, NoopPasswordPrefix); ok {
		return subtle.ConstantTimeCompare([]byte(plain), []byte(supplied)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}
