package generator

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// Range 均匀分布区间[Min, Max)
type Range struct {
	Min float64
	Max float64
}

// Draw 抽样
func (r Range) Draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains 闭区间判断
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// IntRange 整数区间，两端都包含
type IntRange struct {
	Min int64
	Max int64
}

// Draw 抽样
func (r IntRange) Draw(rng *rand.Rand) int64 {
	return r.Min + rng.Int63n(r.Max-r.Min+1)
}

// round 按小数位四舍五入
func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func round2(v float64) float64 {
	return round(v, 2)
}
