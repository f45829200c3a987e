package enricher

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"MarketForge/internal/csvfile"
	"MarketForge/internal/middleware"
	"MarketForge/internal/model"
	"MarketForge/internal/provider"
	"MarketForge/internal/repository"

	"github.com/sirupsen/logrus"
)

// Unknown 缺失字段占位
const Unknown = "Unknown"

// Options 补全参数
type Options struct {
	Delay          time.Duration         // 两次查询的最小间隔
	DefaultCountry string                // 查询不到国家时的默认值
	OnCompany      func(done, total int) // 每处理完一家公司回调
	LogEvery       int                   // 每N家公司打一条日志，<=0 为50
}

// Stats 运行统计
type Stats struct {
	Resolved int // 数据源查询成功
	Cached   int // 命中缓存
	Failed   int // 使用占位值
}

// Enricher 公司信息补全
type Enricher struct {
	provider provider.Provider
	limiter  middleware.RateLimiter
	infos    *repository.CompanyInfoRepository
	opts     Options
	stats    Stats
}

// New 创建Enricher，infos为nil时不缓存
func New(p provider.Provider, infos *repository.CompanyInfoRepository, opts Options) *Enricher {
	if opts.DefaultCountry == "" {
		opts.DefaultCountry = "China"
	}
	if opts.LogEvery <= 0 {
		opts.LogEvery = 50
	}
	return &Enricher{
		provider: p,
		limiter:  middleware.NewDelayLimiter(opts.Delay),
		infos:    infos,
		opts:     opts,
	}
}

// Stats 返回统计
func (e *Enricher) Stats() Stats {
	return e.stats
}

// Enrich 逐个查询公司信息，单行失败时写入占位值，输出与输入一一对应
// 只有ctx取消会中断
func (e *Enricher) Enrich(ctx context.Context, companies []*model.Company) ([]*model.EnrichedCompany, error) {
	out := make([]*model.EnrichedCompany, 0, len(companies))
	for i, c := range companies {
		if i%e.opts.LogEvery == 0 {
			logrus.Infof("[Enricher] processing %d/%d...", i, len(companies))
		}

		info, err := e.lookup(ctx, c.Symbol)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logrus.Warnf("[Enricher] failed to process %s: %v", c.Symbol, err)
			e.stats.Failed++
			out = append(out, Placeholder(c, e.opts.DefaultCountry))
		} else {
			out = append(out, FromInfo(c, info, e.opts.DefaultCountry))
		}

		if e.opts.OnCompany != nil {
			e.opts.OnCompany(i+1, len(companies))
		}
	}

	logrus.Infof("[Enricher] done: %d companies, %d resolved, %d from cache, %d placeholders",
		len(out), e.stats.Resolved, e.stats.Cached, e.stats.Failed)
	return out, nil
}

// lookup 每个代码都会真正查询一次数据源，失败只影响当前行
func (e *Enricher) lookup(ctx context.Context, symbol string) (*model.CompanyInfo, error) {
	if info, ok := e.cached(symbol); ok {
		e.stats.Cached++
		return info, nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	info, err := e.provider.Info(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", provider.ErrNotFound, symbol)
	}

	e.stats.Resolved++
	if e.infos != nil {
		if err := e.infos.Save(symbol, info); err != nil {
			logrus.Warnf("[Enricher] failed to cache %s: %v", symbol, err)
		}
	}
	return info, nil
}

func (e *Enricher) cached(symbol string) (*model.CompanyInfo, bool) {
	if e.infos == nil {
		return nil, false
	}
	info, err := e.infos.Get(symbol)
	if err != nil {
		if model.CodeOf(err) != 404 {
			logrus.Warnf("[Enricher] dropping cache entry for %s: %v", symbol, err)
		}
		return nil, false
	}
	return info, true
}

// FromInfo 由数据源结果构造输出行
// 英文名依次取 LongName、ShortName、原名
func FromInfo(c *model.Company, info *model.CompanyInfo, country string) *model.EnrichedCompany {
	return &model.EnrichedCompany{
		Symbol:      c.Symbol,
		ChineseName: c.DisplayName(),
		EnglishName: firstNonEmpty(info.LongName, info.ShortName, c.DisplayName()),
		Sector:      firstNonEmpty(info.Sector, Unknown),
		Industry:    firstNonEmpty(info.Industry, Unknown),
		City:        firstNonEmpty(info.City, Unknown),
		Country:     firstNonEmpty(info.Country, country),
		MarketCap:   info.MarketCap,
		Exchange:    firstNonEmpty(info.Exchange, Unknown),
	}
}

// Placeholder 查询失败时的占位行
func Placeholder(c *model.Company, country string) *model.EnrichedCompany {
	return &model.EnrichedCompany{
		Symbol:      c.Symbol,
		ChineseName: c.DisplayName(),
		EnglishName: c.DisplayName(),
		Sector:      Unknown,
		Industry:    Unknown,
		City:        Unknown,
		Country:     country,
		MarketCap:   0,
		Exchange:    Unknown,
	}
}

// WriteCSV 写出补全结果
func WriteCSV(path string, rows []*model.EnrichedCompany) error {
	w, err := csvfile.Create(path, model.EnrichedColumns)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	for _, r := range rows {
		err := w.Write([]string{
			r.Symbol, r.ChineseName, r.EnglishName, r.Sector, r.Industry,
			r.City, r.Country, strconv.FormatInt(r.MarketCap, 10), r.Exchange,
		})
		if err != nil {
			w.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return w.Close()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
