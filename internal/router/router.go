package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/rx-admin/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// ReferenceHandler serves cacheable reference data
type ReferenceHandler interface {
	RegisterRoutes(*gin.RouterGroup, ...gin.HandlerFunc)
}

type RouterConfig struct {
	RateLimit      rate.Limit
	RateBurst      int
	CORSConfig     middleware.CORSConfig
	CacheConfig    middleware.CacheConfig
	RequestTimeout time.Duration
	MaxBodySize    int64
	// Metrics may be nil
	Metrics *middleware.RequestMetrics
}

type Router struct {
	engine        *gin.Engine
	config        RouterConfig
	health        Handler
	prescriptions Handler
	patients      ReferenceHandler
	medications   ReferenceHandler
}

func NewRouter(
	config RouterConfig,
	health Handler,
	patients ReferenceHandler,
	medications ReferenceHandler,
	prescriptions Handler,
) *Router {
	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.HandleMethodNotAllowed = true

	r := &Router{
		engine:        engine,
		config:        config,
		health:        health,
		patients:      patients,
		medications:   medications,
		prescriptions: prescriptions,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
	)
	if config.Metrics != nil {
		engine.Use(config.Metrics.Middleware())
	}
	if config.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}))
	}
	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	maxBody := config.MaxBodySize
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodySize
	}
	engine.Use(middleware.SizeLimit(maxBody))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "method not allowed"})
	})

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api")

	r.health.RegisterRoutes(api)

	cache := middleware.Cache(r.config.CacheConfig)
	r.patients.RegisterRoutes(api, cache)
	r.medications.RegisterRoutes(api, cache)
	r.prescriptions.RegisterRoutes(api)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
