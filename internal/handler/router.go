package handler

import (
	"net/http"

	"MarketForge/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter 组装路由与中间件，clients为nil时不做单客户端限流
func NewRouter(h *RecordHandler, limiters *middleware.RouteLimiters, clients *middleware.IPRateLimiter, breakers *middleware.BreakerGroup) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.IPRateLimitMiddleware(clients))
	r.Use(middleware.RateLimitMiddleware(limiters))
	r.Use(middleware.CircuitBreakerMiddleware(breakers))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/records", h.Records)
		api.GET("/stats", h.Stats)
		api.GET("/cache", h.CacheStats)
	}

	monitor := r.Group("/monitor")
	{
		monitor.GET("/circuitbreaker", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "success",
				"data":    breakers.Stats(),
			})
		})

		monitor.GET("/ratelimit", func(c *gin.Context) {
			tracked := 0
			if clients != nil {
				tracked = clients.Len()
			}
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "success",
				"data":    gin.H{"tracked_clients": tracked},
			})
		})
	}

	return r
}
