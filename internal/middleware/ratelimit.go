package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow() bool
	Wait(ctx context.Context) error
}

// TokenBucketLimiter 令牌桶限流器
type TokenBucketLimiter struct {
	limiter *rate.Limiter
}

// NewTokenBucketLimiter 创建令牌桶限流器
// qps: 每秒允许的请求数
// burst: 允许的突发请求数
func NewTokenBucketLimiter(qps float64, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		limiter: rate.NewLimiter(rate.Limit(qps), burst),
	}
}

// NewDelayLimiter 两次请求间至少间隔delay，delay<=0时不限流
func NewDelayLimiter(delay time.Duration) *TokenBucketLimiter {
	if delay <= 0 {
		return &TokenBucketLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &TokenBucketLimiter{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Allow 检查是否允许请求
func (l *TokenBucketLimiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait 阻塞直到拿到令牌或ctx结束
func (l *TokenBucketLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// RouteLimiters 按路由分组的限流器
type RouteLimiters struct {
	limiters map[string]*TokenBucketLimiter
	mu       sync.RWMutex
}

// NewRouteLimiters 创建路由限流器，records/stats/default 三组共用同一配额
func NewRouteLimiters(qps float64, burst int) *RouteLimiters {
	g := &RouteLimiters{limiters: make(map[string]*TokenBucketLimiter)}
	g.AddLimiter("records", qps, burst)
	// 统计接口开销大，配额减半
	g.AddLimiter("stats", qps/2, maxInt(burst/2, 1))
	g.AddLimiter("default", qps, burst)
	return g
}

// AddLimiter 添加限流器
func (g *RouteLimiters) AddLimiter(name string, qps float64, burst int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.limiters[name] = NewTokenBucketLimiter(qps, burst)
}

// GetLimiter 获取限流器，未知名称返回默认
func (g *RouteLimiters) GetLimiter(name string) *TokenBucketLimiter {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if limiter, ok := g.limiters[name]; ok {
		return limiter
	}
	return g.limiters["default"]
}

// RateLimitMiddleware 限流中间件
func RateLimitMiddleware(g *RouteLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := g.GetLimiter(routeGroup(c.Request.URL.Path))

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "Too Many Requests - Rate limit exceeded",
				"data":    nil,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// routeGroup 根据路径确定分组
func routeGroup(path string) string {
	switch {
	case strings.Contains(path, "/records"):
		return "records"
	case strings.Contains(path, "/stats"):
		return "stats"
	default:
		return "default"
	}
}

// IPRateLimiter IP级别的限流器
type IPRateLimiter struct {
	limiters map[string]*TokenBucketLimiter
	mu       sync.RWMutex
	qps      float64
	burst    int
}

// NewIPRateLimiter 创建IP限流器
func NewIPRateLimiter(qps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*TokenBucketLimiter),
		qps:      qps,
		burst:    burst,
	}
}

// GetLimiter 获取或创建IP对应的限流器
func (l *IPRateLimiter) GetLimiter(ip string) *TokenBucketLimiter {
	l.mu.RLock()
	limiter, exists := l.limiters[ip]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// 双重检查
	if limiter, exists := l.limiters[ip]; exists {
		return limiter
	}

	limiter = NewTokenBucketLimiter(l.qps, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// Len 已跟踪的客户端数
func (l *IPRateLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.limiters)
}

// IPRateLimitMiddleware IP级别限流中间件，limiter为nil时不限流
func IPRateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "Too Many Requests - IP rate limit exceeded",
				"data":    nil,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
