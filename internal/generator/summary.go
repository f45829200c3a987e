package generator

import (
	"sort"
	"strconv"

	"MarketForge/internal/model"

	"github.com/sirupsen/logrus"
)

type accumulator struct {
	count  int64
	price  float64
	volume float64
	cap    float64
	index  float64
}

func (a *accumulator) add(r *model.SyntheticRecord) {
	a.count++
	a.price += r.StockPrice
	a.volume += float64(r.Volume)
	a.cap += r.MarketCap
	a.index += r.IndexLevel
}

func (a *accumulator) stat(key string) *model.GroupStat {
	n := float64(a.count)
	return &model.GroupStat{
		Key:           key,
		Count:         a.count,
		AvgStockPrice: round2(a.price / n),
		AvgVolume:     round2(a.volume / n),
		AvgMarketCap:  round2(a.cap / n),
		AvgIndexLevel: round2(a.index / n),
	}
}

// Summarize 按行业、年份、交易所汇总
func Summarize(records []*model.SyntheticRecord) *model.DatasetStats {
	bySector := map[string]*accumulator{}
	byYear := map[string]*accumulator{}
	byExchange := map[string]*accumulator{}
	symbols := map[string]struct{}{}

	get := func(m map[string]*accumulator, key string) *accumulator {
		a, ok := m[key]
		if !ok {
			a = &accumulator{}
			m[key] = a
		}
		return a
	}

	for _, r := range records {
		get(bySector, r.Sector).add(r)
		get(byYear, strconv.Itoa(r.Year)).add(r)
		get(byExchange, r.Exchange).add(r)
		symbols[r.Symbol] = struct{}{}
	}

	return &model.DatasetStats{
		TotalRecords: int64(len(records)),
		Companies:    int64(len(symbols)),
		BySector:     collect(bySector),
		ByYear:       collect(byYear),
		ByExchange:   collect(byExchange),
	}
}

func collect(m map[string]*accumulator) []*model.GroupStat {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*model.GroupStat, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k].stat(k))
	}
	return out
}

// LogSummary 输出汇总
func LogSummary(stats *model.DatasetStats) {
	logrus.Infof("[Generator] total records: %d, companies: %d", stats.TotalRecords, stats.Companies)
	for _, s := range stats.BySector {
		logrus.Infof("[Generator] sector %-24s count=%d avg_price=%.2f avg_volume=%.0f avg_market_cap=%.2f",
			s.Key, s.Count, s.AvgStockPrice, s.AvgVolume, s.AvgMarketCap)
	}
	for _, s := range stats.ByYear {
		logrus.Infof("[Generator] year %s count=%d avg_index=%.2f avg_price=%.2f",
			s.Key, s.Count, s.AvgIndexLevel, s.AvgStockPrice)
	}
	for _, s := range stats.ByExchange {
		logrus.Infof("[Generator] exchange %-10s count=%d avg_price=%.2f avg_volume=%.0f",
			s.Key, s.Count, s.AvgStockPrice, s.AvgVolume)
	}
}
