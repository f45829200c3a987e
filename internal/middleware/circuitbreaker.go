package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrCircuitBreakerOpen 熔断器打开，请求被拒绝
var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// CircuitState 熔断器状态
type CircuitState int

const (
	StateClosed   CircuitState = iota // 关闭状态（正常）
	StateOpen                         // 打开状态（熔断）
	StateHalfOpen                     // 半开状态（探测）
)

func (s CircuitState) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	}
	return "CLOSED"
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	MaxRequests      uint32        // 半开状态允许的最大请求数
	Interval         time.Duration // 统计时间窗口
	Timeout          time.Duration // 熔断超时时间
	FailureThreshold float64       // 失败率阈值
	MinRequestCount  uint32        // 最小请求数（低于此数不熔断）
	SuccessThreshold uint32        // 半开状态连续成功次数阈值
}

// DefaultCircuitBreakerConfig 默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxRequests:      10,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.5,
		MinRequestCount:  10,
		SuccessThreshold: 5,
	}
}

// Counts 统计计数
type Counts struct {
	Requests             uint32
	Successes            uint32
	Failures             uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFails     uint32
	LastResetTime        time.Time
}

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name   string
	config *CircuitBreakerConfig
	state  CircuitState
	counts *Counts
	mu     sync.RWMutex

	stateChangedAt time.Time
	now            func() time.Time
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}

	cb := &CircuitBreaker{
		name:   name,
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
	cb.stateChangedAt = cb.now()
	cb.counts = &Counts{LastResetTime: cb.now()}
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Call 执行请求
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.allowRequest() {
		return ErrCircuitBreakerOpen
	}

	err := fn()
	cb.recordResult(err == nil)
	return err
}

// allowRequest 检查是否允许请求
func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.RLock()
	state := cb.state
	cb.mu.RUnlock()

	switch state {
	case StateClosed:
		return true
	case StateOpen:
		return cb.shouldAttemptReset()
	case StateHalfOpen:
		cb.mu.RLock()
		defer cb.mu.RUnlock()
		return cb.counts.Requests < cb.config.MaxRequests
	}

	return false
}

// recordResult 记录请求结果
func (cb *CircuitBreaker) recordResult(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.now().Sub(cb.counts.LastResetTime) > cb.config.Interval {
		cb.resetCounts()
	}

	cb.counts.Requests++

	if success {
		cb.counts.Successes++
		cb.counts.ConsecutiveSuccesses++
		cb.counts.ConsecutiveFails = 0

		if cb.state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
			logrus.Infof("[CircuitBreaker] %s recovered to CLOSED state", cb.name)
		}
		return
	}

	cb.counts.Failures++
	cb.counts.ConsecutiveFails++
	cb.counts.ConsecutiveSuccesses = 0

	// 半开状态下任何失败都重新熔断
	if cb.state == StateHalfOpen || cb.shouldTrip() {
		cb.setState(StateOpen)
		logrus.Warnf("[CircuitBreaker] %s tripped to OPEN state", cb.name)
	}
}

// shouldTrip 判断是否应该触发熔断
func (cb *CircuitBreaker) shouldTrip() bool {
	if cb.counts.Requests < cb.config.MinRequestCount {
		return false
	}
	failureRate := float64(cb.counts.Failures) / float64(cb.counts.Requests)
	return failureRate >= cb.config.FailureThreshold
}

// shouldAttemptReset 超过熔断超时则转为半开
func (cb *CircuitBreaker) shouldAttemptReset() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return true
	}
	if cb.now().Sub(cb.stateChangedAt) > cb.config.Timeout {
		cb.setState(StateHalfOpen)
		logrus.Infof("[CircuitBreaker] %s changed to HALF_OPEN state", cb.name)
		return true
	}
	return false
}

func (cb *CircuitBreaker) setState(state CircuitState) {
	cb.state = state
	cb.stateChangedAt = cb.now()
	cb.resetCounts()
}

func (cb *CircuitBreaker) resetCounts() {
	cb.counts = &Counts{LastResetTime: cb.now()}
}

// GetState 获取当前状态
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// GetStats 获取统计信息
func (cb *CircuitBreaker) GetStats() map[string]interface{} {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	failureRate := 0.0
	if cb.counts.Requests > 0 {
		failureRate = float64(cb.counts.Failures) / float64(cb.counts.Requests) * 100
	}

	return map[string]interface{}{
		"name":                  cb.name,
		"state":                 cb.state.String(),
		"requests":              cb.counts.Requests,
		"successes":             cb.counts.Successes,
		"failures":              cb.counts.Failures,
		"failure_rate":          failureRate,
		"consecutive_successes": cb.counts.ConsecutiveSuccesses,
		"consecutive_fails":     cb.counts.ConsecutiveFails,
		"state_changed_at":      cb.stateChangedAt.Format("2006-01-02 15:04:05"),
	}
}

// BreakerGroup 按路由分组的熔断器
type BreakerGroup struct {
	breakers map[string]*CircuitBreaker
	mu       sync.RWMutex
}

// NewBreakerGroup 创建records/stats/default三组熔断器
func NewBreakerGroup(config *CircuitBreakerConfig) *BreakerGroup {
	g := &BreakerGroup{breakers: make(map[string]*CircuitBreaker)}
	for _, name := range []string{"records", "stats", "default"} {
		g.AddBreaker(name, config)
	}
	return g
}

// AddBreaker 添加熔断器
func (g *BreakerGroup) AddBreaker(name string, config *CircuitBreakerConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.breakers[name] = NewCircuitBreaker(name, config)
}

// GetBreaker 获取熔断器
func (g *BreakerGroup) GetBreaker(name string) *CircuitBreaker {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if breaker, ok := g.breakers[name]; ok {
		return breaker
	}
	return g.breakers["default"]
}

// Stats 所有熔断器统计
func (g *BreakerGroup) Stats() map[string]interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := make(map[string]interface{}, len(g.breakers))
	for name, breaker := range g.breakers {
		stats[name] = breaker.GetStats()
	}
	return stats
}

// CircuitBreakerMiddleware 熔断器中间件
func CircuitBreakerMiddleware(g *BreakerGroup) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := routeGroup(c.Request.URL.Path)
		breaker := g.GetBreaker(name)

		if !breaker.allowRequest() {
			logrus.Warnf("[CircuitBreaker] Request blocked by circuit breaker: %s", name)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"code":    503,
				"message": "Service Unavailable - Circuit breaker is open",
				"data":    nil,
			})
			c.Abort()
			return
		}

		c.Next()

		// 5xx视为失败
		breaker.recordResult(c.Writer.Status() < 500)
	}
}
