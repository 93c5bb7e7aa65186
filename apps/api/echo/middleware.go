package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/trezcool/educore/core"
)

func requestLogger(logger core.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			fields := map[string]interface{}{
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency.String(),
				"remote_ip": v.RemoteIP,
			}
			if claims, err := getContextClaims(ctx); err == nil {
				fields["user_id"] = claims.UserID
			}
			logger.Info(fmt.Sprintf("%s %s %d", v.Method, v.URI, v.Status), fields)
			return nil
		},
	})
}

// Rate limiting

// redisRateLimiterStore is a fixed-window counter per identifier, shared by every API instance.
type redisRateLimiterStore struct {
	client *redis.Client
	max    int
	window time.Duration
	logger core.Logger
	now    func() time.Time
}

var _ middleware.RateLimiterStore = (*redisRateLimiterStore)(nil)

func newRedisRateLimiterStore(client *redis.Client, conf core.RateLimitConfig, logger core.Logger) *redisRateLimiterStore {
	return &redisRateLimiterStore{
		client: client,
		max:    conf.Max,
		window: conf.Window,
		logger: logger,
		now:    time.Now,
	}
}

func (s *redisRateLimiterStore) key(identifier string) string {
	window := s.now().UnixNano() / int64(s.window)
	return "ratelimit:" + identifier + ":" + strconv.FormatInt(window, 10)
}

// Allow fails open: when Redis is unreachable requests are let through.
func (s *redisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	key := s.key(identifier)
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, s.window)
		return nil
	})
	if err != nil {
		s.logger.Warn("rate limiter store unavailable", err)
		return true, nil
	}
	return incr.Val() <= int64(s.max), nil
}

func newMemoryRateLimiterStore(conf core.RateLimitConfig) middleware.RateLimiterStore {
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(conf.Max) / conf.Window.Seconds()),
		Burst:     conf.Max,
		ExpiresIn: conf.Window,
	})
}

// rateLimiter caps the requests per client IP; Redis backs the counters when a client is given.
func rateLimiter(conf core.RateLimitConfig, client *redis.Client, logger core.Logger) echo.MiddlewareFunc {
	var store middleware.RateLimiterStore
	if client != nil {
		store = newRedisRateLimiterStore(client, conf, logger)
	} else {
		store = newMemoryRateLimiterStore(conf)
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			return errTooManyRequests
		},
	})
}

// Metrics

type httpMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "educore",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route & status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "educore",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method & route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := newHTTPMetrics(reg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !ctx.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(ctx.Request().Method, route, strconv.Itoa(status)).Inc()
			m.latency.WithLabelValues(ctx.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
