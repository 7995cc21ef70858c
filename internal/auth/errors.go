package auth

import "errors"

// Authentication failures returned by Provider.Authenticate. Unknown users and
// wrong passwords both surface as ErrBadCredentials. Account-state errors are only
// returned after the credentials were verified.
var (
	ErrBadCredentials     = errors.New("bad credentials")
	ErrAccountDisabled    = errors.New("user is disabled")
	ErrAccountExpired     = errors.New("user account has expired")
	ErrAccountLocked      = errors.New("user account is locked")
	ErrCredentialsExpired = errors.New("user credentials have expired")

	// ErrAuthenticationService marks a backend or infrastructure fault unrelated
	// to the validity of the credentials.
	ErrAuthenticationService = errors.New("authentication service unavailable")

	// ErrConfiguration is returned at construction time when a required
	// collaborator is missing.
	ErrConfiguration = errors.New("invalid authentication configuration")

	ErrUnsupportedRequest = errors.New("unsupported authentication request")
	ErrProviderNotFound   = errors.New("no authentication provider supports the request")
)

// Result labels used for metrics and logs.
const (
	ResultSuccess            = "success"
	ResultBadCredentials     = "bad_credentials"
	ResultDisabled           = "disabled"
	ResultExpired            = "expired"
	ResultLocked             = "locked"
	ResultCredentialsExpired = "credentials_expired"
	ResultServiceError       = "service_error"
	ResultUnsupported        = "unsupported"
)

// ResultLabel maps an Authenticate error to a low-cardinality label.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, ErrBadCredentials):
		return ResultBadCredentials
	case errors.Is(err, ErrAccountDisabled):
		return ResultDisabled
	case errors.Is(err, ErrAccountExpired):
		return ResultExpired
	case errors.Is(err, ErrAccountLocked):
		return ResultLocked
	case errors.Is(err, ErrCredentialsExpired):
		return ResultCredentialsExpired
	case errors.Is(err, ErrUnsupportedRequest), errors.Is(err, ErrProviderNotFound):
		return ResultUnsupported
	default:
		return ResultServiceError
	}
}
