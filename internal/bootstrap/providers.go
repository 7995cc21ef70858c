package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-authgate/authchain/internal/auth"
	"github.com/go-authgate/authchain/internal/client"
	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/core"
	"github.com/go-authgate/authchain/internal/metrics"
	"github.com/go-authgate/authchain/internal/store"
)

// initializeCredentialBackend creates the backend selected by AUTH_MODE
func initializeCredentialBackend(
	cfg *config.Config,
	db *store.Store,
) (core.CredentialBackend, error) {
	switch cfg.AuthMode {
	case config.AuthModeHTTPAPI:
		retryClient, err := client.CreateRetryClient(client.HTTPAPIOptions(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP API auth client: %w", err)
		}
		log.Printf("HTTP API authentication enabled: %s", cfg.HTTPAPIURL)
		return auth.NewHTTPAPIBackend(cfg.HTTPAPIURL, retryClient), nil

	case config.AuthModeStatic:
		backend, err := auth.LoadStaticBackendFile(cfg.StaticUsersFile)
		if err != nil {
			return nil, err
		}
		log.Printf("Static authentication enabled: %s", cfg.StaticUsersFile)
		return backend, nil

	default: // local
		log.Println("Local (database) authentication enabled")
		return auth.NewLocalBackend(db), nil
	}
}

// initializeAuthentication builds the provider over backend and cache and a
// manager dispatching to it.
func initializeAuthentication(
	cfg *config.Config,
	backend core.CredentialBackend,
	cache core.CredentialCache,
	recorder metrics.Recorder,
) (*auth.Provider, *auth.Manager, error) {
	provider, err := auth.NewProvider(
		backend,
		cache,
		auth.WithForcePrincipalAsString(cfg.ForcePrincipalAsString),
		auth.WithRecorder(recorder),
	)
	if err != nil {
		return nil, nil, err
	}

	manager, err := auth.NewManager(provider)
	if err != nil {
		return nil, nil, err
	}
	return provider, manager, nil
}
