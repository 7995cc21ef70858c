package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Authentication mode constants
const (
	AuthModeLocal   = "local"
	AuthModeHTTPAPI = "http_api"
	AuthModeStatic  = "static"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Metrics cache type constants
const (
	MetricsCacheTypeMemory     = "memory"
	MetricsCacheTypeRedis      = "redis"
	MetricsCacheTypeRedisAside = "redis-aside"
)

// User cache type constants. "none" disables credential caching so every
// authentication reaches the backend.
const (
	UserCacheTypeNone       = "none"
	UserCacheTypeMemory     = "memory"
	UserCacheTypeRedis      = "redis"
	UserCacheTypeRedisAside = "redis-aside"
)

// Filter chain policy constants
const (
	ChainPolicyPass = "pass"
	ChainPolicyDeny = "deny"
)

type Config struct {
	// Server settings
	ServerAddr     string
	Environment    string
	TrustedProxies []string // nil trusts every proxy (gin default)

	// Database
	DatabaseDriver       string // "sqlite" or "postgres"
	DatabaseDSN          string // Database connection string (DSN or path)
	DefaultAdminPassword string

	// Authentication
	AuthMode               string // "local", "http_api" or "static"
	StaticUsersFile        string
	ForcePrincipalAsString bool
	BasicAuthRealm         string

	// HTTP API Authentication
	HTTPAPIURL                string
	HTTPAPITimeout            time.Duration
	HTTPAPIInsecureSkipVerify bool
	HTTPAPIAuthMode           string // Authentication mode: "none", "simple", or "hmac"
	HTTPAPIAuthSecret         string // Shared secret for authentication
	HTTPAPIAuthHeader         string // Custom header name for simple mode (default: "X-API-Secret")
	HTTPAPIMaxRetries         int    // Maximum retry attempts (default: 3)
	HTTPAPIRetryDelay         time.Duration
	HTTPAPIMaxRetryDelay      time.Duration

	// Filter chains
	FilterChainsFile   string
	DefaultChainPolicy string // "pass" or "deny"

	// User cache
	// UserCacheType is "none", "memory", "redis" or "redis-aside". Cached
	// identities hold the credential the user last authenticated with, so the
	// redis modes store plaintext passwords in Redis for UserCacheTTL.
	UserCacheType        string
	UserCacheTTL         time.Duration // Lifetime of a cached identity
	UserCacheClientTTL   time.Duration // Client-side TTL for redis-aside
	UserCacheSizePerConn int           // Client-side cache size per connection in MB (redis-aside)

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	LoginRateLimit           int    // requests per minute per IP
	APIRateLimit             int    // requests per minute per IP
	RateLimitCleanupInterval time.Duration

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheType           string // "memory", "redis" or "redis-aside"
	MetricsCacheClientTTL      time.Duration
	MetricsCacheSizePerConn    int

	// Timeouts
	DBInitTimeout         time.Duration
	DBCloseTimeout        time.Duration
	RedisConnTimeout      time.Duration
	RedisCloseTimeout     time.Duration
	CacheInitTimeout      time.Duration
	CacheCloseTimeout     time.Duration
	ServerShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "authchain.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:           getEnv("SERVER_ADDR", ":8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		TrustedProxies:       getEnvSlice("TRUSTED_PROXIES", nil),
		DatabaseDriver:       driver,
		DatabaseDSN:          dsn,
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", ""),

		// Authentication
		AuthMode:               getEnv("AUTH_MODE", AuthModeLocal),
		StaticUsersFile:        getEnv("STATIC_USERS_FILE", ""),
		ForcePrincipalAsString: getEnvBool("FORCE_PRINCIPAL_AS_STRING", false),
		BasicAuthRealm:         getEnv("BASIC_AUTH_REALM", "authchain"),

		// HTTP API Authentication
		HTTPAPIURL:                getEnv("HTTP_API_URL", ""),
		HTTPAPITimeout:            getEnvDuration("HTTP_API_TIMEOUT", 10*time.Second),
		HTTPAPIInsecureSkipVerify: getEnvBool("HTTP_API_INSECURE_SKIP_VERIFY", false),
		HTTPAPIAuthMode:           getEnv("HTTP_API_AUTH_MODE", "none"),
		HTTPAPIAuthSecret:         getEnv("HTTP_API_AUTH_SECRET", ""),
		HTTPAPIAuthHeader:         getEnv("HTTP_API_AUTH_HEADER", "X-API-Secret"),
		HTTPAPIMaxRetries:         getEnvInt("HTTP_API_MAX_RETRIES", 3),
		HTTPAPIRetryDelay:         getEnvDuration("HTTP_API_RETRY_DELAY", 1*time.Second),
		HTTPAPIMaxRetryDelay:      getEnvDuration("HTTP_API_MAX_RETRY_DELAY", 10*time.Second),

		// Filter chains
		FilterChainsFile:   getEnv("FILTER_CHAINS_FILE", ""),
		DefaultChainPolicy: getEnv("DEFAULT_CHAIN_POLICY", ChainPolicyPass),

		// User cache
		UserCacheType:        getEnv("USER_CACHE_TYPE", UserCacheTypeMemory),
		UserCacheTTL:         getEnvDuration("USER_CACHE_TTL", 5*time.Minute),
		UserCacheClientTTL:   getEnvDuration("USER_CACHE_CLIENT_TTL", 30*time.Second),
		UserCacheSizePerConn: getEnvInt("USER_CACHE_SIZE_PER_CONN", 32),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// Rate limiting
		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		LoginRateLimit:           getEnvInt("LOGIN_RATE_LIMIT", 5),
		APIRateLimit:             getEnvInt("API_RATE_LIMIT", 60),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		// Metrics
		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),
		MetricsCacheType:           getEnv("METRICS_CACHE_TYPE", MetricsCacheTypeMemory),
		MetricsCacheClientTTL:      getEnvDuration("METRICS_CACHE_CLIENT_TTL", 10*time.Second),
		MetricsCacheSizePerConn:    getEnvInt("METRICS_CACHE_SIZE_PER_CONN", 32),

		// Timeouts
		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		DBCloseTimeout:        getEnvDuration("DB_CLOSE_TIMEOUT", 5*time.Second),
		RedisConnTimeout:      getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		RedisCloseTimeout:     getEnvDuration("REDIS_CLOSE_TIMEOUT", 5*time.Second),
		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		CacheCloseTimeout:     getEnvDuration("CACHE_CLOSE_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// IsProduction reports whether ENVIRONMENT is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks enumerated settings and their dependencies.
func (c *Config) Validate() error {
	switch c.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return fmt.Errorf(
			"invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
			c.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis,
		)
	}
	if c.EnableRateLimit && c.RateLimitStore == RateLimitStoreRedis && c.RedisAddr == "" {
		return fmt.Errorf("RATE_LIMIT_STORE=%q requires REDIS_ADDR", c.RateLimitStore)
	}

	switch c.MetricsCacheType {
	case MetricsCacheTypeMemory:
	case MetricsCacheTypeRedis, MetricsCacheTypeRedisAside:
		if c.RedisAddr == "" {
			return fmt.Errorf("METRICS_CACHE_TYPE=%q requires REDIS_ADDR", c.MetricsCacheType)
		}
	default:
		return fmt.Errorf("invalid METRICS_CACHE_TYPE value: %q", c.MetricsCacheType)
	}

	switch c.UserCacheType {
	case UserCacheTypeNone:
	case UserCacheTypeMemory:
		if c.UserCacheTTL <= 0 {
			return fmt.Errorf("USER_CACHE_TTL must be a positive duration")
		}
	case UserCacheTypeRedis, UserCacheTypeRedisAside:
		if c.RedisAddr == "" {
			return fmt.Errorf("USER_CACHE_TYPE=%q requires REDIS_ADDR", c.UserCacheType)
		}
		if c.UserCacheTTL <= 0 {
			return fmt.Errorf("USER_CACHE_TTL must be a positive duration")
		}
		if c.UserCacheType == UserCacheTypeRedisAside && c.UserCacheClientTTL <= 0 {
			return fmt.Errorf("USER_CACHE_CLIENT_TTL must be a positive duration")
		}
	default:
		return fmt.Errorf("invalid USER_CACHE_TYPE value: %q", c.UserCacheType)
	}

	switch c.AuthMode {
	case AuthModeLocal:
	case AuthModeHTTPAPI:
		if c.HTTPAPIURL == "" {
			return fmt.Errorf("AUTH_MODE=%q requires HTTP_API_URL", c.AuthMode)
		}
	case AuthModeStatic:
		if c.StaticUsersFile == "" {
			return fmt.Errorf("AUTH_MODE=%q requires STATIC_USERS_FILE", c.AuthMode)
		}
	default:
		return fmt.Errorf("invalid AUTH_MODE value: %q", c.AuthMode)
	}

	switch c.DefaultChainPolicy {
	case ChainPolicyPass, ChainPolicyDeny:
	default:
		return fmt.Errorf("invalid DEFAULT_CHAIN_POLICY value: %q", c.DefaultChainPolicy)
	}

	if c.EnableRateLimit && (c.LoginRateLimit <= 0 || c.APIRateLimit <= 0) {
		return fmt.Errorf("LOGIN_RATE_LIMIT and API_RATE_LIMIT must be positive")
	}
	if c.MetricsGaugeUpdateEnabled && c.MetricsEnabled && c.MetricsGaugeUpdateInterval <= 0 {
		return fmt.Errorf("METRICS_GAUGE_UPDATE_INTERVAL must be a positive duration")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvSlice splits a comma-separated value, dropping empty entries.
func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var parts []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
