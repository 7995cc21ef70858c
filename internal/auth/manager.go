package auth

import (
	"context"
	"errors"
)

// AuthenticationProvider is a provider the Manager can dispatch to.
type AuthenticationProvider interface {
	Supports(token any) bool
	Authenticate(ctx context.Context, req *Request) (*Result, error)
}

// Manager dispatches a token to the providers that support it, in order.
// ErrBadCredentials from one provider moves on to the next; any other failure
// stops the dispatch.
type Manager struct {
	providers []AuthenticationProvider
}

// NewManager returns ErrConfiguration when no provider is given.
func NewManager(providers ...AuthenticationProvider) (*Manager, error) {
	if len(providers) == 0 {
		return nil, errors.Join(ErrConfiguration, errors.New("at least one provider is required"))
	}
	return &Manager{providers: append([]AuthenticationProvider(nil), providers...)}, nil
}

// Authenticate returns the first successful result.
func (m *Manager) Authenticate(ctx context.Context, token any) (*Result, error) {
	req, isRequest := asRequest(token)

	var lastErr error
	for _, p := range m.providers {
		if !p.Supports(token) {
			continue
		}
		if !isRequest {
			return nil, ErrUnsupportedRequest
		}

		result, err := p.Authenticate(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !errors.Is(err, ErrBadCredentials) {
			return nil, err
		}
	}

	if lastErr == nil {
		return nil, ErrProviderNotFound
	}
	return nil, lastErr
}

func asRequest(token any) (*Request, bool) {
	switch t := token.(type) {
	case *Request:
		return t, t != nil
	case Request:
		return &t, true
	default:
		return nil, false
	}
}
