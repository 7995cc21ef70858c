package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		AuthMode:           AuthModeLocal,
		DefaultChainPolicy: ChainPolicyPass,
		RateLimitStore:     RateLimitStoreMemory,
		MetricsCacheType:   MetricsCacheTypeMemory,
		UserCacheType:      UserCacheTypeMemory,
		UserCacheTTL:       5 * time.Minute,
	}
}

type validateCase struct {
	name        string
	mutate      func(c *Config)
	expectError bool
	errorMsg    string
}

func runValidateCases(t *testing.T, tests []validateCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	runValidateCases(t, []validateCase{
		{
			name:   "valid memory store",
			mutate: func(c *Config) {},
		},
		{
			name: "valid redis store",
			mutate: func(c *Config) {
				c.EnableRateLimit = true
				c.LoginRateLimit = 5
				c.APIRateLimit = 60
				c.RateLimitStore = RateLimitStoreRedis
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name: "redis store without redis address",
			mutate: func(c *Config) {
				c.EnableRateLimit = true
				c.LoginRateLimit = 5
				c.APIRateLimit = 60
				c.RateLimitStore = RateLimitStoreRedis
			},
			expectError: true,
			errorMsg:    `RATE_LIMIT_STORE="redis" requires REDIS_ADDR`,
		},
		{
			name:        "invalid store - typo",
			mutate:      func(c *Config) { c.RateLimitStore = "reddis" },
			expectError: true,
			errorMsg:    `invalid RATE_LIMIT_STORE value: "reddis"`,
		},
		{
			name:        "invalid store - empty string",
			mutate:      func(c *Config) { c.RateLimitStore = "" },
			expectError: true,
			errorMsg:    `invalid RATE_LIMIT_STORE value: ""`,
		},
		{
			name:        "invalid store - uppercase",
			mutate:      func(c *Config) { c.RateLimitStore = "MEMORY" },
			expectError: true,
			errorMsg:    `invalid RATE_LIMIT_STORE value: "MEMORY"`,
		},
		{
			name: "non-positive rate limit",
			mutate: func(c *Config) {
				c.EnableRateLimit = true
				c.LoginRateLimit = 0
				c.APIRateLimit = 60
			},
			expectError: true,
			errorMsg:    "LOGIN_RATE_LIMIT and API_RATE_LIMIT must be positive",
		},
		{
			name: "rate limits ignored when disabled",
			mutate: func(c *Config) {
				c.EnableRateLimit = false
				c.LoginRateLimit = 0
			},
		},
	})
}

func TestAuthModeValidation(t *testing.T) {
	runValidateCases(t, []validateCase{
		{
			name: "http_api with url",
			mutate: func(c *Config) {
				c.AuthMode = AuthModeHTTPAPI
				c.HTTPAPIURL = "http://auth.internal/verify"
			},
		},
		{
			name:        "http_api without url",
			mutate:      func(c *Config) { c.AuthMode = AuthModeHTTPAPI },
			expectError: true,
			errorMsg:    `AUTH_MODE="http_api" requires HTTP_API_URL`,
		},
		{
			name: "static with users file",
			mutate: func(c *Config) {
				c.AuthMode = AuthModeStatic
				c.StaticUsersFile = "users.yaml"
			},
		},
		{
			name:        "static without users file",
			mutate:      func(c *Config) { c.AuthMode = AuthModeStatic },
			expectError: true,
			errorMsg:    `AUTH_MODE="static" requires STATIC_USERS_FILE`,
		},
		{
			name:        "unknown mode",
			mutate:      func(c *Config) { c.AuthMode = "ldap" },
			expectError: true,
			errorMsg:    `invalid AUTH_MODE value: "ldap"`,
		},
		{
			name:        "unknown chain policy",
			mutate:      func(c *Config) { c.DefaultChainPolicy = "allow" },
			expectError: true,
			errorMsg:    `invalid DEFAULT_CHAIN_POLICY value: "allow"`,
		},
	})
}

func TestMetricsCacheValidation(t *testing.T) {
	runValidateCases(t, []validateCase{
		{
			name: "valid redis cache with redis address",
			mutate: func(c *Config) {
				c.MetricsCacheType = MetricsCacheTypeRedis
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name: "valid redis-aside cache with redis address",
			mutate: func(c *Config) {
				c.MetricsCacheType = MetricsCacheTypeRedisAside
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name:        "invalid cache type - memcached",
			mutate:      func(c *Config) { c.MetricsCacheType = "memcached" },
			expectError: true,
			errorMsg:    `invalid METRICS_CACHE_TYPE value: "memcached"`,
		},
		{
			name:        "redis-aside without redis address",
			mutate:      func(c *Config) { c.MetricsCacheType = MetricsCacheTypeRedisAside },
			expectError: true,
			errorMsg:    `METRICS_CACHE_TYPE="redis-aside" requires REDIS_ADDR`,
		},
		{
			name: "zero gauge interval with gauges enabled",
			mutate: func(c *Config) {
				c.MetricsEnabled = true
				c.MetricsGaugeUpdateEnabled = true
			},
			expectError: true,
			errorMsg:    "METRICS_GAUGE_UPDATE_INTERVAL must be a positive duration",
		},
	})
}

func TestUserCacheValidation(t *testing.T) {
	runValidateCases(t, []validateCase{
		{
			name: "caching disabled ignores ttl",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeNone
				c.UserCacheTTL = 0
			},
		},
		{
			name: "valid redis user cache with redis address",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeRedis
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name: "valid redis-aside user cache with redis address",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeRedisAside
				c.UserCacheClientTTL = 30 * time.Second
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name:        "invalid user cache type",
			mutate:      func(c *Config) { c.UserCacheType = "invalid" },
			expectError: true,
			errorMsg:    `invalid USER_CACHE_TYPE value: "invalid"`,
		},
		{
			name:        "redis user cache without redis address",
			mutate:      func(c *Config) { c.UserCacheType = UserCacheTypeRedis },
			expectError: true,
			errorMsg:    `USER_CACHE_TYPE="redis" requires REDIS_ADDR`,
		},
		{
			name:        "zero UserCacheTTL rejected",
			mutate:      func(c *Config) { c.UserCacheTTL = 0 },
			expectError: true,
			errorMsg:    "USER_CACHE_TTL must be a positive duration",
		},
		{
			name:        "negative UserCacheTTL rejected",
			mutate:      func(c *Config) { c.UserCacheTTL = -1 * time.Second },
			expectError: true,
			errorMsg:    "USER_CACHE_TTL must be a positive duration",
		},
		{
			name: "zero UserCacheClientTTL rejected for redis-aside",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeRedisAside
				c.RedisAddr = "localhost:6379"
			},
			expectError: true,
			errorMsg:    "USER_CACHE_CLIENT_TTL must be a positive duration",
		},
	})
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, AuthModeLocal, cfg.AuthMode)
	assert.Equal(t, ChainPolicyPass, cfg.DefaultChainPolicy)
	assert.Equal(t, UserCacheTypeMemory, cfg.UserCacheType)
	assert.Equal(t, 5*time.Minute, cfg.UserCacheTTL)
	assert.Equal(t, "authchain", cfg.BasicAuthRealm)
	assert.False(t, cfg.ForcePrincipalAsString)
	assert.Nil(t, cfg.TrustedProxies)

	// Timeouts
	assert.Equal(t, 30*time.Second, cfg.DBInitTimeout, "DB init timeout should be 30s")
	assert.Equal(t, 5*time.Second, cfg.RedisConnTimeout, "Redis connection timeout should be 5s")
	assert.Equal(t, 5*time.Second, cfg.CacheInitTimeout, "Cache init timeout should be 5s")
	assert.Equal(t, 5*time.Second, cfg.ServerShutdownTimeout)

	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("AUTH_MODE", AuthModeStatic)
	t.Setenv("STATIC_USERS_FILE", "users.yaml")
	t.Setenv("USER_CACHE_TTL", "90s")
	t.Setenv("FORCE_PRINCIPAL_AS_STRING", "1")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,127.0.0.1")

	cfg := Load()

	assert.Equal(t, AuthModeStatic, cfg.AuthMode)
	assert.Equal(t, "users.yaml", cfg.StaticUsersFile)
	assert.Equal(t, 90*time.Second, cfg.UserCacheTTL)
	assert.True(t, cfg.ForcePrincipalAsString)
	assert.Equal(t, 5, cfg.LoginRateLimit, "invalid integers fall back to the default")
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "memory", RateLimitStoreMemory)
	assert.Equal(t, "redis", RateLimitStoreRedis)
	assert.Equal(t, "none", UserCacheTypeNone)
	assert.Equal(t, "redis-aside", UserCacheTypeRedisAside)
	assert.Equal(t, "redis-aside", MetricsCacheTypeRedisAside)
}
