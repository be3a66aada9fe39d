package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/riskengine/pkg/config"
	"github.com/wyfcoding/riskengine/pkg/logger"
	"github.com/wyfcoding/riskengine/pkg/metrics"
	"github.com/wyfcoding/riskengine/pkg/ratelimit"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	res *ratelimit.Result
	err error
}

func (s *stubLimiter) Allow(context.Context, string, ratelimit.Limit) (*ratelimit.Result, error) {
	return s.res, s.err
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGinLoggingMiddleware_PropagatesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(GinLoggingMiddleware())

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))

	rec = serve(r, http.MethodGet, "/ping")
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestGinRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(GinRecoveryMiddleware())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := serve(r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, rec.Body.String())
}

func TestGinCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(GinCORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, http.MethodOptions, "/x")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGinMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.New("riskengine")
	r := gin.New()
	r.Use(GinMetricsMiddleware(m))
	r.GET("/api/evaluations/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, http.MethodGet, "/api/evaluations/1")
	serve(r, http.MethodGet, "/api/evaluations/2")
	serve(r, http.MethodGet, "/nowhere")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/evaluations/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, QPS: 1, Burst: 1}

	newRouter := func(l ratelimit.RateLimiter, c config.RateLimitConfig, m *metrics.Metrics) *gin.Engine {
		r := gin.New()
		r.Use(RateLimitMiddleware(l, c, m))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("allowed", func(t *testing.T) {
		l := &stubLimiter{res: &ratelimit.Result{Allowed: true, Remaining: 3}}
		rec := serve(newRouter(l, cfg, metrics.New("riskengine")), http.MethodGet, "/x")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejected", func(t *testing.T) {
		m := metrics.New("riskengine")
		l := &stubLimiter{res: &ratelimit.Result{Allowed: false, RetryAfter: 2 * time.Second}}
		rec := serve(newRouter(l, cfg, m), http.MethodGet, "/x")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("Retry-After"))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitedTotal))
	})

	t.Run("fails open", func(t *testing.T) {
		l := &stubLimiter{err: errors.New("redis down")}
		rec := serve(newRouter(l, cfg, metrics.New("riskengine")), http.MethodGet, "/x")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		l := &stubLimiter{res: &ratelimit.Result{Allowed: false}}
		rec := serve(newRouter(l, config.RateLimitConfig{}, metrics.New("riskengine")), http.MethodGet, "/x")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGRPCRecoveryInterceptor(t *testing.T) {
	interceptor := GRPCRecoveryInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/riskengine.v1.RiskEngineService/Evaluate"}

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("boom")
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestGRPCLoggingInterceptor_InjectsIDs(t *testing.T) {
	interceptor := GRPCLoggingInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/riskengine.v1.RiskEngineService/Evaluate"}

	var requestID string
	_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, _ any) (any, error) {
		requestID = logger.RequestID(ctx)
		return "ok", nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, requestID)
}
