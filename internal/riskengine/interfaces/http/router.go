package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/riskengine/pkg/config"
	"github.com/wyfcoding/riskengine/pkg/metrics"
	"github.com/wyfcoding/riskengine/pkg/middleware"
	"github.com/wyfcoding/riskengine/pkg/ratelimit"
)

// RouterOptions 路由装配所需依赖，Metrics 与 Limiter 可为空
type RouterOptions struct {
	Handler     *EvaluationHandler
	Metrics     *metrics.Metrics
	MetricsPath string
	Limiter     ratelimit.RateLimiter
	RateLimit   config.RateLimitConfig
}

// NewRouter 创建 gin 引擎并注册中间件与全部路由
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(),
	)

	var collector metrics.MetricsCollector = metrics.NopCollector{}
	if opts.Metrics != nil {
		collector = opts.Metrics
		router.Use(middleware.GinMetricsMiddleware(opts.Metrics))

		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(opts.Metrics.Handler()))
	}

	router.GET("/sys/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/sys/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/docs")
	})
	registerDocs(router)

	api := router.Group("")
	api.Use(middleware.RateLimitMiddleware(opts.Limiter, opts.RateLimit, collector))
	opts.Handler.RegisterRoutes(api)

	return router
}
