package api

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RequestIDHeader is echoed back, or generated when the caller sent none.
const RequestIDHeader = "X-Request-ID"

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "farminvest_http_request_duration_seconds",
	Help:    "HTTP request latency by route and status.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// RegisterRoutes registers the investment endpoints on rg.
//
//	GET  /investments - list, newest first
//	POST /investments - create one investment
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	investments := rg.Group("/investments")
	{
		investments.GET("", handlers.HandleListInvestments)
		investments.POST("", handlers.HandleCreateInvestment)
	}
}

// NewRouter builds the full engine: middleware, /health, /metrics and the
// investment routes under /api.
func NewRouter(handlers *Handlers, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	router.GET("/health", handlers.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(router.Group("/api"), handlers)
	return router
}

// RequestLogger tags each request with an id, logs it and records its latency.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		requestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		logger.InfoContext(c.Request.Context(), "request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", elapsed,
		)
	}
}
