package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/filterchain"
	"github.com/go-authgate/authchain/internal/metrics"
	"github.com/go-authgate/authchain/internal/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testAdminPassword = "admin-password"

func testConfig() *config.Config {
	return &config.Config{
		ServerAddr:               ":0",
		DatabaseDriver:           "sqlite",
		DatabaseDSN:              ":memory:",
		DefaultAdminPassword:     testAdminPassword,
		AuthMode:                 config.AuthModeLocal,
		BasicAuthRealm:           "authchain",
		DefaultChainPolicy:       config.ChainPolicyPass,
		UserCacheType:            config.UserCacheTypeMemory,
		UserCacheTTL:             time.Minute,
		EnableRateLimit:          true,
		RateLimitStore:           config.RateLimitStoreMemory,
		LoginRateLimit:           100,
		APIRateLimit:             100,
		RateLimitCleanupInterval: time.Minute,
		MetricsCacheType:         config.MetricsCacheTypeMemory,
		DBInitTimeout:            10 * time.Second,
		CacheInitTimeout:         5 * time.Second,
		ServerShutdownTimeout:    time.Second,
	}
}

// newTestApplication runs every initialization phase except serving.
func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	gin.SetMode(gin.TestMode)

	require.NoError(t, validateAllConfiguration(cfg))

	app := &Application{Config: cfg}
	require.NoError(t, app.initializeInfrastructure(context.Background()))
	t.Cleanup(func() {
		_ = app.UserCache.Close()
		_ = app.DB.Close()
	})
	require.NoError(t, app.initializeBusinessLayer())
	require.NoError(t, app.initializeHTTPLayer())
	return app
}

type testRequest struct {
	method, path, body string
	username, password string
}

func (app *Application) serve(r testRequest) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.method, r.path, bytes.NewBufferString(r.body))
	if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.username != "" {
		req.SetBasicAuth(r.username, r.password)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func TestApplication_EndToEnd(t *testing.T) {
	app := newTestApplication(t, testConfig())

	t.Run("health is public", func(t *testing.T) {
		w := app.serve(testRequest{method: http.MethodGet, path: "/health"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"connected"`)
	})

	t.Run("login with seeded admin", func(t *testing.T) {
		w := app.serve(testRequest{
			method: http.MethodPost,
			path:   "/api/login",
			body:   `{"username":"admin","password":"` + testAdminPassword + `"}`,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "admin", body["principal"])
		assert.Equal(t, []any{"ROLE_ADMIN", "ROLE_USER"}, body["authorities"])
	})

	t.Run("api requires basic credentials", func(t *testing.T) {
		w := app.serve(testRequest{method: http.MethodGet, path: "/api/me"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="authchain"`, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("me with basic credentials", func(t *testing.T) {
		w := app.serve(testRequest{
			method:   http.MethodGet,
			path:     "/api/me",
			username: "admin",
			password: testAdminPassword,
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("admin manages users and locking takes effect at once", func(t *testing.T) {
		w := app.serve(testRequest{
			method:   http.MethodPost,
			path:     "/api/admin/users",
			body:     `{"username":"marissa","password":"koala-koala","authorities":["ROLE_ONE","ROLE_TWO"]}`,
			username: "admin",
			password: testAdminPassword,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// Populates the credential cache.
		w = app.serve(testRequest{
			method:   http.MethodGet,
			path:     "/api/me",
			username: "marissa",
			password: "koala-koala",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = app.serve(testRequest{
			method:   http.MethodPost,
			path:     "/api/admin/users",
			body:     `{"username":"other","password":"other-other"}`,
			username: "marissa",
			password: "koala-koala",
		})
		assert.Equal(t, http.StatusForbidden, w.Code, "non-admin must not manage users")

		w = app.serve(testRequest{
			method:   http.MethodPost,
			path:     "/api/admin/users/marissa/lock",
			username: "admin",
			password: testAdminPassword,
		})
		require.Equal(t, http.StatusNoContent, w.Code)

		w = app.serve(testRequest{
			method:   http.MethodGet,
			path:     "/api/me",
			username: "marissa",
			password: "koala-koala",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"locked"`)
	})

	t.Run("selected chain is recorded", func(t *testing.T) {
		names := make([]string, 0, len(app.Selector.Chains()))
		for _, c := range app.Selector.Chains() {
			names = append(names, c.Name())
		}
		assert.Equal(t, []string{"health", "metrics", "login", "admin", "api"}, names)
	})
}

func TestApplication_LoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateLimit = 2
	app := newTestApplication(t, cfg)

	login := testRequest{
		method: http.MethodPost,
		path:   "/api/login",
		body:   `{"username":"admin","password":"wrong"}`,
	}
	assert.Equal(t, http.StatusUnauthorized, app.serve(login).Code)
	assert.Equal(t, http.StatusUnauthorized, app.serve(login).Code)
	assert.Equal(t, http.StatusTooManyRequests, app.serve(login).Code)
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApplication_ChainsFileWithDenyPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.FilterChainsFile = writeTempFile(t, `
default_policy: deny
chains:
  - name: api
    match:
      paths: ["/api/**"]
    filters: [client_ip, basic_auth, require_auth]
`)
	app := newTestApplication(t, cfg)
	assert.Equal(t, filterchain.Deny, app.ChainPolicy)

	w := app.serve(testRequest{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusForbidden, w.Code, "unmatched requests are denied")

	w = app.serve(testRequest{
		method:   http.MethodGet,
		path:     "/api/me",
		username: "admin",
		password: testAdminPassword,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInitializeFilterChains_UnknownFilter(t *testing.T) {
	cfg := testConfig()
	cfg.FilterChainsFile = writeTempFile(t, `
chains:
  - name: api
    match:
      paths: ["/api/**"]
    filters: [oauth_token]
`)
	registry, err := buildFilterRegistry(cfg, nil, rateLimitFilters{
		login: func(*gin.Context) {},
		api:   func(*gin.Context) {},
	})
	require.NoError(t, err)

	_, _, err = initializeFilterChains(cfg, registry)
	require.Error(t, err)
	assert.ErrorIs(t, err, filterchain.ErrUnknownFilter)
}

func TestLoadChainDefinitions_PolicyFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultChainPolicy = config.ChainPolicyDeny

	defs, err := loadChainDefinitions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "deny", defs.DefaultPolicy)
	assert.Len(t, defs.Chains, 5)
}

func TestValidateAllConfiguration(t *testing.T) {
	assert.NoError(t, validateAllConfiguration(testConfig()))

	cfg := testConfig()
	cfg.AuthMode = "unknown"
	assert.ErrorContains(t, validateAllConfiguration(cfg), "invalid AUTH_MODE")

	cfg = testConfig()
	cfg.DatabaseDriver = "mysql"
	assert.ErrorContains(t, validateAllConfiguration(cfg), "invalid database configuration")

	cfg = testConfig()
	cfg.DatabaseDriver = "postgres"
	cfg.DatabaseDSN = ""
	assert.ErrorContains(t, validateAllConfiguration(cfg), "DATABASE_DSN is required")
}

func TestInitializeCredentialBackend(t *testing.T) {
	cfg := testConfig()
	cfg.AuthMode = config.AuthModeHTTPAPI
	cfg.HTTPAPIURL = "http://auth.example.com/verify"
	cfg.HTTPAPIAuthMode = "none"
	backend, err := initializeCredentialBackend(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "http_api", backend.Name())

	cfg = testConfig()
	cfg.AuthMode = config.AuthModeStatic
	cfg.StaticUsersFile = writeTempFile(t, `
users:
  - username: marissa
    password: "{noop}koala"
    authorities: [ROLE_ONE, ROLE_TWO]
`)
	backend, err = initializeCredentialBackend(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "static", backend.Name())

	cfg.StaticUsersFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = initializeCredentialBackend(cfg, nil)
	assert.Error(t, err)
}

func TestInitializeUserCache(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	cfg.UserCacheType = config.UserCacheTypeNone
	c, err := initializeUserCache(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, c.PutUser(ctx, nil))
	_, ok, err := c.GetUser(ctx, "anyone")
	require.NoError(t, err)
	assert.False(t, ok)

	cfg.UserCacheType = config.UserCacheTypeMemory
	c, err = initializeUserCache(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, c.Health(ctx))
	require.NoError(t, c.Close())
}

func TestInitializeMetrics(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		cfg := &config.Config{MetricsEnabled: enabled}
		m := initializeMetrics(cfg)
		require.NotNil(t, m)
	}
}

func TestInitializeMetricsCacheDisabled(t *testing.T) {
	ctx := context.Background()

	// Metrics disabled - no cache
	c, closer, err := initializeMetricsCache(
		ctx,
		&config.Config{MetricsEnabled: false, MetricsGaugeUpdateEnabled: true},
	)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, closer)

	// Gauge updates disabled - no cache
	c, closer, err = initializeMetricsCache(
		ctx,
		&config.Config{MetricsEnabled: true, MetricsGaugeUpdateEnabled: false},
	)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, closer)
}

func TestInitializeMetricsCacheMemory(t *testing.T) {
	cfg := &config.Config{
		MetricsEnabled:            true,
		MetricsGaugeUpdateEnabled: true,
		MetricsCacheType:          config.MetricsCacheTypeMemory,
		CacheInitTimeout:          time.Second,
	}
	c, closer, err := initializeMetricsCache(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, closer)
	_ = closer()
}

func TestSetupRateLimitingDisabled(t *testing.T) {
	limiters, err := setupRateLimiting(&config.Config{EnableRateLimit: false}, nil)
	require.NoError(t, err)
	require.NotNil(t, limiters.login)
	require.NotNil(t, limiters.api)

	// Verify noop filters don't panic
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.NotPanics(t, func() { limiters.login(c) })
}

func TestSetupRateLimitingRedisWithoutClient(t *testing.T) {
	_, err := setupRateLimiting(&config.Config{
		EnableRateLimit: true,
		RateLimitStore:  config.RateLimitStoreRedis,
		LoginRateLimit:  5,
		APIRateLimit:    60,
	}, nil)
	assert.Error(t, err)
}

func TestUpdateGaugeMetricsWithCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockUserCounter(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)
	metricsCache := mocks.NewMockCache[int64](ctrl)

	ctx := context.Background()
	gomock.InOrder(
		metricsCache.EXPECT().Get(ctx, "users:total").Return(int64(7), nil),
		metricsCache.EXPECT().Get(ctx, "users:locked").Return(int64(2), nil),
		recorder.EXPECT().SetUserCounts(int64(7), int64(2)),
	)
	counter.EXPECT().CountUsers(gomock.Any()).Times(0)

	wrapper := metrics.NewCacheWrapper(counter, metricsCache)
	updateGaugeMetricsWithCache(ctx, wrapper, recorder, time.Minute)
}

func TestUpdateGaugeMetricsWithCache_DatabaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockUserCounter(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)
	metricsCache := mocks.NewMockCache[int64](ctrl)

	ctx := context.Background()
	metricsCache.EXPECT().Get(ctx, "users:total").Return(int64(0), assert.AnError)
	counter.EXPECT().CountUsers(ctx).Return(int64(0), assert.AnError)
	recorder.EXPECT().RecordDatabaseQueryError("count_users")
	recorder.EXPECT().SetUserCounts(gomock.Any(), gomock.Any()).Times(0)

	updateGaugeMetricsWithCache(ctx, metrics.NewCacheWrapper(counter, metricsCache), recorder, time.Minute)
}

func TestCreateHTTPServer(t *testing.T) {
	srv := createHTTPServer(
		&config.Config{ServerAddr: ":8080"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)
	require.NotNil(t, srv)
	assert.Equal(t, ":8080", srv.Addr)
}

func TestGinModeMap(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, ginModeMap[true])
	assert.Equal(t, gin.DebugMode, ginModeMap[false])
}

func TestErrorLogger(t *testing.T) {
	el := newErrorLogger(time.Hour)
	require.NotNil(t, el)

	assert.True(t, el.logIfNeeded("test_op", assert.AnError))
	assert.False(t, el.logIfNeeded("test_op", assert.AnError), "suppressed within the window")
	assert.True(t, el.logIfNeeded("other_op", assert.AnError))
}
