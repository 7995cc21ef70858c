package auth

import (
	"slices"

	"github.com/go-authgate/authchain/internal/core"
)

// Principal is either a bare username or a verified Identity.
// The zero value is an empty username.
type Principal struct {
	name     string
	identity *core.Identity
}

// StringPrincipal returns a principal holding only a username.
func StringPrincipal(username string) Principal {
	return Principal{name: username}
}

// IdentityPrincipal returns a principal holding a copy of identity.
func IdentityPrincipal(identity *core.Identity) Principal {
	if identity == nil {
		return Principal{}
	}
	return Principal{identity: identity.Clone()}
}

// Username resolves the username for either form.
func (p Principal) Username() string {
	if p.identity != nil {
		return p.identity.Username
	}
	return p.name
}

// Identity returns a copy of the identity when the principal holds one.
func (p Principal) Identity() (*core.Identity, bool) {
	if p.identity == nil {
		return nil, false
	}
	return p.identity.Clone(), true
}

// IsIdentity reports whether the principal holds an Identity.
func (p Principal) IsIdentity() bool {
	return p.identity != nil
}

func (p Principal) String() string {
	return p.Username()
}

// Request is an unverified username/password claim.
type Request struct {
	Principal  Principal
	Credential string
	// Details carries caller context such as the remote address. It is copied
	// verbatim into the Result.
	Details any
}

// NewRequest builds a Request for a plain username.
func NewRequest(username, password string, details any) *Request {
	return &Request{
		Principal:  StringPrincipal(username),
		Credential: password,
		Details:    details,
	}
}

// Result is a successful authentication.
type Result struct {
	Principal Principal
	// Credential is always the credential the caller supplied.
	Credential  string
	Authorities []string
	Details     any
}

// Request rebuilds a Request from the result, for re-authentication.
func (r *Result) Request() *Request {
	return &Request{
		Principal:  r.Principal,
		Credential: r.Credential,
		Details:    r.Details,
	}
}

// HasAuthority reports whether authority was granted.
func (r *Result) HasAuthority(authority string) bool {
	return slices.Contains(r.Authorities, authority)
}
