package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/filterchain"
	"github.com/go-authgate/authchain/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Filter names usable in FILTER_CHAINS_FILE.
const (
	FilterClientIP       = "client_ip"
	FilterBasicAuth      = "basic_auth"
	FilterRequireAuth    = "require_auth"
	FilterRequireAdmin   = "require_admin"
	FilterRateLimit      = "rate_limit"
	FilterLoginRateLimit = "login_rate_limit"
)

// AdminAuthority is required by the require_admin filter.
const AdminAuthority = "ROLE_ADMIN"

// defaultChains is used when FILTER_CHAINS_FILE is unset. Chains are tried
// top to bottom; the first match wins.
const defaultChains = `
chains:
  - name: health
    match:
      paths: ["/health"]
      methods: [GET, HEAD]
    filters: [client_ip]
  - name: metrics
    match:
      paths: ["/metrics"]
    filters: [client_ip]
  - name: login
    match:
      paths: ["/api/login"]
      methods: [POST]
    filters: [client_ip, login_rate_limit]
  - name: admin
    match:
      paths: ["/api/admin/**"]
    filters: [client_ip, rate_limit, basic_auth, require_admin]
  - name: api
    match:
      paths: ["/api/**"]
    filters: [client_ip, rate_limit, basic_auth, require_auth]
`

// buildFilterRegistry registers every named filter
func buildFilterRegistry(
	cfg *config.Config,
	authenticator middleware.Authenticator,
	limiters rateLimitFilters,
) (*filterchain.Registry, error) {
	filters := map[string]gin.HandlerFunc{
		FilterClientIP:       middleware.ClientIP(),
		FilterBasicAuth:      middleware.BasicAuth(authenticator, cfg.BasicAuthRealm),
		FilterRequireAuth:    middleware.RequireAuthentication(cfg.BasicAuthRealm),
		FilterRequireAdmin:   middleware.RequireAuthority(AdminAuthority, cfg.BasicAuthRealm),
		FilterRateLimit:      limiters.api,
		FilterLoginRateLimit: limiters.login,
	}

	registry := filterchain.NewRegistry()
	for name, filter := range filters {
		if err := registry.Register(name, filter); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// loadChainDefinitions reads FILTER_CHAINS_FILE or falls back to the built-in
// chains. DEFAULT_CHAIN_POLICY applies when the document sets no policy.
func loadChainDefinitions(cfg *config.Config) (*filterchain.Definitions, error) {
	var (
		defs *filterchain.Definitions
		err  error
	)
	if cfg.FilterChainsFile != "" {
		defs, err = filterchain.LoadDefinitionsFile(cfg.FilterChainsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load filter chains from %s: %w", cfg.FilterChainsFile, err)
		}
		log.Printf("[FilterChain] Loaded definitions from %s", cfg.FilterChainsFile)
	} else {
		defs, err = filterchain.LoadDefinitions(strings.NewReader(defaultChains))
		if err != nil {
			return nil, err
		}
		log.Println("[FilterChain] Using built-in chain definitions")
	}

	if defs.DefaultPolicy == "" {
		defs.DefaultPolicy = cfg.DefaultChainPolicy
	}
	return defs, nil
}

// initializeFilterChains builds the selector from the chain definitions
func initializeFilterChains(
	cfg *config.Config,
	registry *filterchain.Registry,
) (*filterchain.Selector, filterchain.NoMatchPolicy, error) {
	defs, err := loadChainDefinitions(cfg)
	if err != nil {
		return nil, filterchain.PassThrough, err
	}
	return filterchain.Build(defs, registry)
}
