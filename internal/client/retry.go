package client

import (
	"fmt"
	"time"

	"github.com/go-authgate/authchain/internal/config"

	httpclient "github.com/appleboy/go-httpclient"
	retry "github.com/appleboy/go-httpretry"
)

// Authentication modes understood by the outbound client.
const (
	AuthModeNone   = "none"
	AuthModeSimple = "simple"
	AuthModeHMAC   = "hmac"
)

// Options configures a service-to-service client.
type Options struct {
	AuthMode           string // "none", "simple" or "hmac"
	AuthSecret         string
	AuthHeader         string // header for simple mode
	Timeout            time.Duration
	InsecureSkipVerify bool
	MaxRetries         int
	RetryDelay         time.Duration
	MaxRetryDelay      time.Duration
}

// HTTPAPIOptions returns the client options for the HTTP API credential backend.
func HTTPAPIOptions(cfg *config.Config) Options {
	return Options{
		AuthMode:           cfg.HTTPAPIAuthMode,
		AuthSecret:         cfg.HTTPAPIAuthSecret,
		AuthHeader:         cfg.HTTPAPIAuthHeader,
		Timeout:            cfg.HTTPAPITimeout,
		InsecureSkipVerify: cfg.HTTPAPIInsecureSkipVerify,
		MaxRetries:         cfg.HTTPAPIMaxRetries,
		RetryDelay:         cfg.HTTPAPIRetryDelay,
		MaxRetryDelay:      cfg.HTTPAPIMaxRetryDelay,
	}
}

// CreateRetryClient creates an HTTP client that signs every request according
// to the auth mode and retries network errors, 5xx and 429 responses.
func CreateRetryClient(opts Options) (*retry.Client, error) {
	mode := opts.AuthMode
	if mode == "" {
		mode = AuthModeNone
	}
	switch mode {
	case AuthModeNone, AuthModeSimple, AuthModeHMAC:
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", opts.AuthMode)
	}
	if mode != AuthModeNone && opts.AuthSecret == "" {
		return nil, fmt.Errorf("auth mode %q requires a secret", mode)
	}

	client, err := httpclient.NewAuthClient(
		mode,
		opts.AuthSecret,
		httpclient.WithTimeout(opts.Timeout),
		httpclient.WithHeaderName(opts.AuthHeader),
		httpclient.WithInsecureSkipVerify(opts.InsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	retryClient, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(client),
		retry.WithMaxRetries(opts.MaxRetries),
		retry.WithInitialRetryDelay(opts.RetryDelay),
		retry.WithMaxRetryDelay(opts.MaxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}

	return retryClient, nil
}
