package bootstrap

import (
	"log"

	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/filterchain"
	"github.com/go-authgate/authchain/internal/handlers"
	"github.com/go-authgate/authchain/internal/metrics"
	"github.com/go-authgate/authchain/internal/middleware"
	"github.com/go-authgate/authchain/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routeDeps are the components the router needs
type routeDeps struct {
	db            *store.Store
	userCache     userCache
	authenticator middleware.Authenticator
	selector      *filterchain.Selector
	policy        filterchain.NoMatchPolicy
	recorder      metrics.Recorder
}

func (app *Application) routeDeps() routeDeps {
	return routeDeps{
		db:            app.DB,
		userCache:     app.UserCache,
		authenticator: app.Manager,
		selector:      app.Selector,
		policy:        app.ChainPolicy,
		recorder:      app.MetricsRecorder,
	}
}

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(cfg *config.Config, deps routeDeps) *gin.Engine {
	// Setup Gin mode
	setupGinMode(cfg)
	r := gin.New()

	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Printf("Invalid TRUSTED_PROXIES, trusting none: %v", err)
			_ = r.SetTrustedProxies(nil)
		}
	}

	// Setup middleware
	r.Use(metrics.HTTPMetricsMiddleware(deps.recorder))
	r.Use(gin.Logger(), gin.Recovery())

	// Every request passes through the first matching filter chain
	r.Use(deps.selector.Middleware(deps.policy, filterchain.WithRecorder(deps.recorder)))

	// Health check endpoint
	r.GET("/health", handlers.NewHealthHandler(deps.db, deps.userCache).Check)

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	setupAPIRoutes(r, cfg, deps)

	return r
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAPIRoutes configures the authentication API. Account administration
// only exists for the database backend.
func setupAPIRoutes(r *gin.Engine, cfg *config.Config, deps routeDeps) {
	authHandler := handlers.NewAuthHandler(deps.authenticator)

	api := r.Group("/api")
	{
		api.POST("/login", authHandler.Login)
		api.GET("/me", authHandler.Me)
	}

	if cfg.AuthMode != config.AuthModeLocal {
		return
	}

	userHandler := handlers.NewUserHandler(deps.db, deps.userCache)
	admin := api.Group("/admin/users")
	{
		admin.POST("", userHandler.CreateUser)
		admin.PUT("/:username/password", userHandler.ResetPassword)
		admin.POST("/:username/lock", userHandler.Lock)
		admin.POST("/:username/unlock", userHandler.Unlock)
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction()]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction()])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}
