package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MarketForge/internal/middleware"
	"MarketForge/internal/model"
	"MarketForge/pkg/config"
)

// ErrNotFound 数据源没有该代码
var ErrNotFound = errors.New("symbol not found")

// HistoryRequest 历史行情请求，Max为true时忽略Start，取全部可用历史
type HistoryRequest struct {
	Start time.Time
	End   time.Time
	Max   bool
}

// Provider 行情数据源
type Provider interface {
	// Info 公司描述信息
	Info(ctx context.Context, symbol string) (*model.CompanyInfo, error)
	// History 日线收盘价，按日期升序
	History(ctx context.Context, symbol string, req HistoryRequest) ([]model.PricePoint, error)
}

// maxHistoryStart Max请求的起始日
var maxHistoryStart = time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)

// Range 把请求展开为具体区间
func (r HistoryRequest) Range(now time.Time) (time.Time, time.Time) {
	end := r.End
	if end.IsZero() {
		end = now
	}
	start := r.Start
	if r.Max || start.IsZero() {
		start = maxHistoryStart
	}
	return start, end
}

// New 按配置创建数据源，qps>0时加令牌桶限流
func New(cfg *config.ProviderConfig) (Provider, error) {
	var p Provider
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", "yahoo":
		p = NewYahoo()
	case "polygon":
		pg, err := NewPolygon(cfg.PolygonAPIKey)
		if err != nil {
			return nil, err
		}
		p = pg
	default:
		return nil, model.ErrInvalidParameter(fmt.Sprintf("unknown provider %q", cfg.Name))
	}

	if cfg.QPS > 0 {
		p = WithLimiter(p, middleware.NewTokenBucketLimiter(float64(cfg.QPS), 1))
	}
	return p, nil
}

type limited struct {
	next    Provider
	limiter middleware.RateLimiter
}

// WithLimiter 每次调用前先等令牌
func WithLimiter(p Provider, l middleware.RateLimiter) Provider {
	return &limited{next: p, limiter: l}
}

func (l *limited) Info(ctx context.Context, symbol string) (*model.CompanyInfo, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.next.Info(ctx, symbol)
}

func (l *limited) History(ctx context.Context, symbol string, req HistoryRequest) ([]model.PricePoint, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.next.History(ctx, symbol, req)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
