package filterchain

import "errors"

var (
	// ErrNilMatcher is returned when a chain is built without a matcher
	ErrNilMatcher = errors.New("filterchain: matcher must not be nil")

	// ErrInvalidPattern is returned for malformed path or regex patterns
	ErrInvalidPattern = errors.New("filterchain: invalid pattern")

	// ErrInvalidDefinition is returned for chain definitions that fail validation
	ErrInvalidDefinition = errors.New("filterchain: invalid definition")

	// ErrUnknownFilter is returned when a definition names an unregistered filter
	ErrUnknownFilter = errors.New("filterchain: unknown filter")

	// ErrDuplicateFilter is returned when a filter name is registered twice
	ErrDuplicateFilter = errors.New("filterchain: filter already registered")
)
