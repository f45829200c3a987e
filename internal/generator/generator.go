package generator

import (
	"errors"
	"math/rand"
	"time"

	"MarketForge/internal/model"

	"github.com/sirupsen/logrus"
)

// ErrNoCompanies 公司列表为空
var ErrNoCompanies = errors.New("company list is empty")

// Options 生成参数
type Options struct {
	Years     int   // 回溯年数
	IndexSeed int64 // 指数路径种子
	RowSeed   int64 // 行级种子，0=按时间

	Now       func() time.Time      // 时钟，测试时注入
	OnCompany func(done, total int) // 每处理完一家公司回调
	LogEvery  int                   // 每N家公司打一条日志，<=0 为50
}

// Generator 合成记录生成器
type Generator struct {
	variant *Variant
	opts    Options
	series  []model.PricePoint
	rng     *rand.Rand
	seed    int64
}

// New 创建生成器并构建指数序列
func New(v *Variant, opts Options) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Years <= 0 {
		opts.Years = 10
	}
	if opts.LogEvery <= 0 {
		opts.LogEvery = 50
	}

	seed := opts.RowSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start, end := Window(opts.Now(), opts.Years)
	dates := BusinessDays(start, end)

	g := &Generator{
		variant: v,
		opts:    opts,
		series:  BuildSeries(dates, v.Index, opts.IndexSeed),
		rng:     rand.New(rand.NewSource(seed)),
		seed:    seed,
	}

	logrus.Infof("[Generator] %s index series: %d business days (%s ~ %s)",
		v.Name, len(g.series), start.Format(model.DateLayout), end.Format(model.DateLayout))
	return g
}

// Series 指数序列（未取整）
func (g *Generator) Series() []model.PricePoint {
	return g.series
}

// RowSeed 实际使用的行级种子
func (g *Generator) RowSeed() int64 {
	return g.seed
}

// RecordsPerCompany 每家公司的记录数，整数除法
func RecordsPerCompany(target, companies int) int {
	if companies <= 0 || target <= 0 {
		return 0
	}
	return target / companies
}

// Generate 生成 RecordsPerCompany(target, n) * n 条记录
func (g *Generator) Generate(companies []*model.Company, target int) ([]*model.SyntheticRecord, error) {
	if len(companies) == 0 {
		return nil, ErrNoCompanies
	}
	if len(g.series) == 0 {
		return nil, model.ErrInternalError("index series is empty")
	}

	perCompany := RecordsPerCompany(target, len(companies))
	logrus.Infof("[Generator] target %d records, %d companies, %d per company",
		target, len(companies), perCompany)

	records := make([]*model.SyntheticRecord, 0, perCompany*len(companies))
	for i, company := range companies {
		if i%g.opts.LogEvery == 0 {
			logrus.Infof("[Generator] processing company %d/%d...", i+1, len(companies))
		}

		label, key := g.variant.sector(company, g.rng)
		for j := 0; j < perCompany; j++ {
			// 有放回抽样
			point := g.series[g.rng.Intn(len(g.series))]
			rec := g.newRecord(int64(len(records)+1), company, label, key, point)
			records = append(records, rec)
		}

		if g.opts.OnCompany != nil {
			g.opts.OnCompany(i+1, len(companies))
		}
	}

	logrus.Infof("[Generator] generated %d records", len(records))
	return records, nil
}

func (g *Generator) newRecord(id int64, c *model.Company, label, key string, point model.PricePoint) *model.SyntheticRecord {
	v := g.variant
	rng := g.rng

	basePrice := point.Value / 10
	price := basePrice * v.PriceMultiplier.Draw(rng)
	volume := v.Volume.Draw(rng)
	change := v.PriceChange.Draw(rng)
	marketCap := price * v.MarketCapFactor.Draw(rng) * 1000000

	date := point.Date
	rec := &model.SyntheticRecord{
		ID:              id,
		Market:          v.Name,
		Symbol:          c.Symbol,
		Sector:          label,
		SectorKey:       key,
		Exchange:        v.exchange(c),
		Country:         v.Country,
		ObservationDate: date,
		IndexLevel:      round2(point.Value),
		StockPrice:      round2(price),
		Volume:          volume,
		PriceChangePct:  round2(change),
		MarketCap:       round2(marketCap),
		PERatio:         round2(v.PE.Draw(rng)),
		PBRatio:         round2(v.PB.Draw(rng)),
		DividendYield:   round2(v.DividendYield.Draw(rng)),
		Beta:            round(v.Beta.Draw(rng), 3),
		Year:            date.Year(),
		Month:           int(date.Month()),
		Quarter:         Quarter(date),
		DayOfWeek:       date.Weekday().String(),
		IsTech:          boolFlag(key == v.TechSector),
		IsFinancial:     boolFlag(key == v.FinancialSector),
		IsConsumer:      boolFlag(key == v.ConsumerSector),
		GeneratedAt:     g.opts.Now(),
	}
	v.decorate(rec, c)
	return rec
}
