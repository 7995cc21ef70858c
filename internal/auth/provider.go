package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/go-authgate/authchain/internal/core"
	"github.com/go-authgate/authchain/internal/metrics"
)

// Cache lookup outcomes recorded per authentication.
const (
	cacheHit   = "hit"
	cacheStale = "stale"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Provider authenticates username/password requests against a CredentialBackend,
// short-circuiting through a CredentialCache for repeated successful logins.
//
// A cached identity is only used when its credential equals the supplied one;
// otherwise the entry is evicted and the backend decides. Freshly verified
// identities are cached only after passing the account-state checks.
type Provider struct {
	backend                core.CredentialBackend
	cache                  core.CredentialCache
	forcePrincipalAsString bool
	metrics                core.Recorder
}

// Option configures a Provider.
type Option func(*Provider)

// WithForcePrincipalAsString makes results carry the username instead of the Identity.
func WithForcePrincipalAsString(force bool) Option {
	return func(p *Provider) {
		p.forcePrincipalAsString = force
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(m core.Recorder) Option {
	return func(p *Provider) {
		if m != nil {
			p.metrics = m
		}
	}
}

// NewProvider returns ErrConfiguration when backend or cache is missing.
func NewProvider(
	backend core.CredentialBackend,
	cache core.CredentialCache,
	opts ...Option,
) (*Provider, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: a credential backend must be set", ErrConfiguration)
	}
	if cache == nil {
		return nil, fmt.Errorf("%w: a credential cache must be set", ErrConfiguration)
	}

	p := &Provider{
		backend: backend,
		cache:   cache,
		metrics: metrics.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Supports reports whether token is a username/password request.
func (p *Provider) Supports(token any) bool {
	switch token.(type) {
	case *Request, Request:
		return true
	default:
		return false
	}
}

// ForcePrincipalAsString reports the configured principal form.
func (p *Provider) ForcePrincipalAsString() bool {
	return p.forcePrincipalAsString
}

// Authenticate verifies req. No retries are attempted; the backend is called at
// most once.
func (p *Provider) Authenticate(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	result, err := p.authenticate(ctx, req)
	p.metrics.RecordAuthAttempt(ResultLabel(err), time.Since(start))
	return result, err
}

func (p *Provider) authenticate(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, ErrUnsupportedRequest
	}

	username := req.Principal.Username()

	identity := p.lookupCache(ctx, username, req.Credential)
	fromCache := identity != nil

	if !fromCache {
		var err error
		identity, err = p.retrieveUser(ctx, username, req.Credential)
		if err != nil {
			log.Printf("[Auth] Failed for user=%s backend=%s: %v", username, p.backend.Name(), err)
			return nil, err
		}
	}

	if err := checkAccountState(identity); err != nil {
		log.Printf("[Auth] Rejected user=%s: %v", username, err)
		return nil, err
	}

	if !fromCache {
		if err := p.cache.PutUser(ctx, identity); err != nil {
			log.Printf("[Auth] Cache put failed for user=%s: %v", username, err)
		}
	}

	return p.createSuccessResult(req, identity), nil
}

// lookupCache returns a cached identity whose credential matches password,
// or nil. A mismatching entry is evicted.
func (p *Provider) lookupCache(ctx context.Context, username, password string) *core.Identity {
	cached, ok, err := p.cache.GetUser(ctx, username)
	if err != nil {
		log.Printf("[Auth] Cache lookup failed for user=%s: %v", username, err)
		p.metrics.RecordCacheLookup(cacheError)
		return nil
	}
	if !ok || cached == nil {
		p.metrics.RecordCacheLookup(cacheMiss)
		return nil
	}

	if cached.Credential != password {
		p.metrics.RecordCacheLookup(cacheStale)
		if err := p.cache.RemoveUser(ctx, username); err != nil {
			log.Printf("[Auth] Cache eviction failed for user=%s: %v", username, err)
		}
		return nil
	}

	p.metrics.RecordCacheLookup(cacheHit)
	return cached
}

func (p *Provider) retrieveUser(ctx context.Context, username, password string) (*core.Identity, error) {
	name := p.backend.Name()

	start := time.Now()
	identity, err := p.backend.Verify(ctx, username, password)
	p.metrics.RecordBackendCall(name, time.Since(start))

	switch {
	case err == nil && identity == nil:
		p.metrics.RecordBackendError(name, "empty")
		return nil, fmt.Errorf("%w: backend %s returned no identity", ErrAuthenticationService, name)
	case errors.Is(err, core.ErrBadCredentials), errors.Is(err, core.ErrUserNotFound):
		p.metrics.RecordBackendError(name, "credentials")
		return nil, ErrBadCredentials
	case err != nil:
		p.metrics.RecordBackendError(name, "unavailable")
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationService, err)
	}

	identity = identity.Clone()
	if identity.Username == "" {
		identity.Username = username
	}
	return identity, nil
}

// checkAccountState applies the state checks in fixed order.
func checkAccountState(identity *core.Identity) error {
	switch {
	case !identity.Enabled:
		return ErrAccountDisabled
	case !identity.AccountNonExpired:
		return ErrAccountExpired
	case !identity.AccountNonLocked:
		return ErrAccountLocked
	case !identity.CredentialsNonExpired:
		return ErrCredentialsExpired
	}
	return nil
}

// createSuccessResult keeps the caller's credential and details so that
// re-authenticating with the result succeeds even when the backend stores
// encoded passwords.
func (p *Provider) createSuccessResult(req *Request, identity *core.Identity) *Result {
	principal := IdentityPrincipal(identity)
	if p.forcePrincipalAsString {
		principal = StringPrincipal(identity.Username)
	}

	return &Result{
		Principal:   principal,
		Credential:  req.Credential,
		Authorities: slices.Clone(identity.Authorities),
		Details:     req.Details,
	}
}
