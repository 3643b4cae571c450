package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/pkg/httputil"
	"github.com/jwalitptl/booking-api/pkg/validator"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	config        RouterConfig
	catalogH      Handler
	availabilityH Handler
	bookingH      Handler
	opsH          Handler
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	// Mode is the gin mode; empty leaves the current mode
	Mode             string
	BasePath         string
	RateLimitEnabled bool
	RateLimit        middleware.RateLimiterConfig
	CORSOrigins      []string
	MaxBodyBytes     int64
	RequestTimeout   time.Duration
	HSTS             bool
	// CatalogMaxAge is the Cache-Control max-age of catalog reads, in seconds
	CatalogMaxAge int
	MetricsPrefix string
}

func NewRouter(
	catalogH Handler,
	availabilityH Handler,
	bookingH Handler,
	opsH Handler,
	logger zerolog.Logger,
	reg prometheus.Registerer,
	config RouterConfig,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if config.MetricsPrefix == "" {
		config.MetricsPrefix = "booking_api"
	}
	binding.Validator = validator.New()

	engine := gin.New()

	r := &Router{
		engine:        engine,
		config:        config,
		catalogH:      catalogH,
		availabilityH: availabilityH,
		bookingH:      bookingH,
		opsH:          opsH,
		metrics:       initRouterMetrics(config.MetricsPrefix, reg),
	}

	engine.Use(
		middleware.RequestID(logger),
		middleware.Logger(),
		middleware.Recovery(),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(config.HSTS)),
		middleware.CORS(config.CORSOrigins),
		middleware.SizeLimit(config.MaxBodyBytes),
		middleware.Timeout(config.RequestTimeout),
	)

	if config.RateLimitEnabled {
		engine.Use(middleware.NewRateLimiter(config.RateLimit).RateLimit())
	}

	engine.NoRoute(func(c *gin.Context) {
		httputil.RespondWithMessage(c, http.StatusNotFound, "Route not found")
	})

	return r
}

func (r *Router) Setup() {
	r.opsH.RegisterRoutes(&r.engine.RouterGroup)

	api := r.engine.Group(r.config.BasePath)

	catalog := api.Group("")
	catalog.Use(middleware.CacheControl(r.config.CatalogMaxAge))
	r.catalogH.RegisterRoutes(catalog)

	live := api.Group("")
	live.Use(middleware.NoStore())
	r.availabilityH.RegisterRoutes(live)
	r.bookingH.RegisterRoutes(live)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string, reg prometheus.Registerer) *routerMetrics {
	factory := promauto.With(reg)
	return &routerMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "class"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.Writer.Status()
		status := strconv.Itoa(code)

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		switch {
		case code >= 500:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		case code >= 400:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
