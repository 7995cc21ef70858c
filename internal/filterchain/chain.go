// Package filterchain selects, per request, the ordered set of gin filters
// that applies to it. Chains are evaluated in registration order and the
// first matching chain wins; later chains are never consulted.
package filterchain

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/go-authgate/authchain/internal/core"

	"github.com/gin-gonic/gin"
)

// ContextKeyChain holds the selected chain name in the gin context.
const ContextKeyChain = "filter_chain"

// Chain pairs a matcher with the filters it guards. Immutable.
type Chain struct {
	name    string
	matcher RequestMatcher
	filters []gin.HandlerFunc
}

// NewChain returns ErrNilMatcher when matcher is nil.
func NewChain(name string, matcher RequestMatcher, filters ...gin.HandlerFunc) (*Chain, error) {
	if matcher == nil {
		return nil, fmt.Errorf("%w: chain %q", ErrNilMatcher, name)
	}
	for i, f := range filters {
		if f == nil {
			return nil, fmt.Errorf("%w: chain %q has a nil filter at position %d",
				ErrInvalidDefinition, name, i)
		}
	}
	return &Chain{
		name:    name,
		matcher: matcher,
		filters: slices.Clone(filters),
	}, nil
}

// Name returns the chain name.
func (c *Chain) Name() string { return c.name }

// Matches reports whether the chain applies to r.
func (c *Chain) Matches(r *http.Request) bool { return c.matcher.Matches(r) }

// Filters returns a copy of the chain's filters in order.
func (c *Chain) Filters() []gin.HandlerFunc { return slices.Clone(c.filters) }

// NoMatchPolicy decides what happens to requests no chain matches.
type NoMatchPolicy int

const (
	// PassThrough lets unmatched requests reach the route unfiltered.
	PassThrough NoMatchPolicy = iota
	// Deny rejects unmatched requests with 403.
	Deny
)

// ParsePolicy accepts "pass" (or empty) and "deny".
func ParsePolicy(s string) (NoMatchPolicy, error) {
	switch s {
	case "", "pass":
		return PassThrough, nil
	case "deny":
		return Deny, nil
	}
	return PassThrough, fmt.Errorf("%w: unknown default policy %q", ErrInvalidDefinition, s)
}

func (p NoMatchPolicy) String() string {
	if p == Deny {
		return "deny"
	}
	return "pass"
}

// Selector holds chains in registration order. When several chains could
// match a request, the earliest registered one is selected; register more
// specific chains first.
type Selector struct {
	chains []*Chain
}

// NewSelector copies chains; nil entries are skipped.
func NewSelector(chains ...*Chain) *Selector {
	s := &Selector{chains: make([]*Chain, 0, len(chains))}
	for _, c := range chains {
		if c != nil {
			s.chains = append(s.chains, c)
		}
	}
	return s
}

// Select returns the first chain matching r.
func (s *Selector) Select(r *http.Request) (*Chain, bool) {
	for _, c := range s.chains {
		if c.Matches(r) {
			return c, true
		}
	}
	return nil, false
}

// Chains returns the chains in evaluation order.
func (s *Selector) Chains() []*Chain { return slices.Clone(s.chains) }

// MiddlewareOption configures Selector.Middleware.
type MiddlewareOption func(*middlewareOptions)

type middlewareOptions struct {
	metrics core.Recorder
}

// WithRecorder records each selection.
func WithRecorder(m core.Recorder) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.metrics = m
	}
}

// Middleware runs the selected chain's filters in order before the route
// handler. A filter stops the chain by aborting the context. Filters must not
// call c.Next themselves.
func (s *Selector) Middleware(policy NoMatchPolicy, opts ...MiddlewareOption) gin.HandlerFunc {
	var o middlewareOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		chain, ok := s.Select(c.Request)
		if !ok {
			if policy == Deny {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":             "access_denied",
					"error_description": "No filter chain applies to this request",
				})
				return
			}
			c.Next()
			return
		}

		c.Set(ContextKeyChain, chain.name)
		if o.metrics != nil {
			o.metrics.RecordChainSelection(chain.name)
		}

		for _, filter := range chain.filters {
			filter(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}

// SelectedChain returns the chain name stored by Middleware.
func SelectedChain(c *gin.Context) (string, bool) {
	name, ok := c.Get(ContextKeyChain)
	if !ok {
		return "", false
	}
	s, ok := name.(string)
	return s, ok
}
