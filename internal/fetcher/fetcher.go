package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"MarketForge/internal/csvfile"
	"MarketForge/internal/model"
	"MarketForge/internal/provider"

	"github.com/sirupsen/logrus"
)

// ErrNoData 所有候选代码与兜底代码都没有数据
var ErrNoData = errors.New("no index data available")

// DateColumn 输出日期列
const DateColumn = "observation_date"

// Options 拉取参数
type Options struct {
	Candidates    []string // 依次尝试，取全部历史
	Fallback      string   // 兜底代码
	FallbackYears int      // 兜底区间年数（按365天计）
	Now           func() time.Time
}

// Fetcher 指数行情拉取
type Fetcher struct {
	provider provider.Provider
	opts     Options
}

// New 创建Fetcher
func New(p provider.Provider, opts Options) *Fetcher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FallbackYears <= 0 {
		opts.FallbackYears = 10
	}
	return &Fetcher{
		provider: p,
		opts:     opts,
	}
}

// Fetch 依次尝试候选代码，第一个返回超过1个点的被采用；否则用兜底代码按显式区间拉取
// 返回的序列已去掉缺失值
func (f *Fetcher) Fetch(ctx context.Context) ([]model.PricePoint, error) {
	for _, ticker := range f.opts.Candidates {
		logrus.Infof("[Fetcher] trying ticker %s", ticker)

		points, err := f.history(ctx, ticker, provider.HistoryRequest{Max: true})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logrus.Warnf("[Fetcher] ticker %s failed: %v", ticker, err)
			continue
		}
		if len(points) > 1 {
			logrus.Infof("[Fetcher] ticker %s succeeded with %d rows", ticker, len(points))
			return Normalize(points), nil
		}
		logrus.Warnf("[Fetcher] ticker %s returned %d rows, skipping", ticker, len(points))
	}

	return f.fallback(ctx)
}

func (f *Fetcher) fallback(ctx context.Context) ([]model.PricePoint, error) {
	ticker := f.opts.Fallback
	if ticker == "" {
		return nil, fmt.Errorf("%w: all candidates failed and no fallback configured", ErrNoData)
	}

	end := f.opts.Now()
	start := end.AddDate(0, 0, -365*f.opts.FallbackYears)
	logrus.Infof("[Fetcher] no candidate worked, falling back to %s (%s ~ %s)",
		ticker, start.Format(model.DateLayout), end.Format(model.DateLayout))

	points, err := f.history(ctx, ticker, provider.HistoryRequest{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("%w: fallback %s: %v", ErrNoData, ticker, err)
	}
	points = Normalize(points)
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: fallback %s returned no rows", ErrNoData, ticker)
	}
	return points, nil
}

func (f *Fetcher) history(ctx context.Context, ticker string, req provider.HistoryRequest) ([]model.PricePoint, error) {
	return f.provider.History(ctx, ticker, req)
}

// Normalize 去掉缺失值，保持顺序
func Normalize(points []model.PricePoint) []model.PricePoint {
	out := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// WriteCSV 输出 observation_date,<column>
func WriteCSV(path, column string, points []model.PricePoint) error {
	w, err := csvfile.Create(path, []string{DateColumn, column})
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	for _, p := range points {
		if err := w.Write([]string{p.DateString(), strconv.FormatFloat(p.Value, 'f', -1, 64)}); err != nil {
			w.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return w.Close()
}

// LogSummary 输出条数与日期范围
func LogSummary(points []model.PricePoint) {
	logrus.Infof("[Fetcher] total dates: %d", len(points))
	if len(points) == 0 {
		return
	}
	first, last := points[0].Date, points[0].Date
	for _, p := range points[1:] {
		if p.Date.Before(first) {
			first = p.Date
		}
		if p.Date.After(last) {
			last = p.Date
		}
	}
	logrus.Infof("[Fetcher] period: %s ~ %s", first.Format(model.DateLayout), last.Format(model.DateLayout))
}
