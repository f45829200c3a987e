package generator

import (
	"math"
	"math/rand"
	"time"

	"MarketForge/internal/model"
)

// IndexParams 指数路径参数
type IndexParams struct {
	Base       float64 // 起始点位
	TrendSpan  float64 // 线性趋势总涨幅
	NoiseSigma float64 // 每日噪声标准差
	ClipMin    float64
	ClipMax    float64
}

// IndexSeries 生成 base + 线性趋势 + 累积高斯噪声，并截断到[ClipMin, ClipMax]
// 相同seed和长度的结果完全一致
func IndexSeries(n int, p IndexParams, seed int64) []float64 {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))

	values := make([]float64, n)
	cum := 0.0
	for i := 0; i < n; i++ {
		trend := 0.0
		if n > 1 {
			trend = p.TrendSpan * float64(i) / float64(n-1)
		}
		cum += rng.NormFloat64() * p.NoiseSigma
		values[i] = clip(p.Base+trend+cum, p.ClipMin, p.ClipMax)
	}
	return values
}

// BuildSeries 把日期与点位组合成序列
func BuildSeries(dates []time.Time, p IndexParams, seed int64) []model.PricePoint {
	values := IndexSeries(len(dates), p, seed)
	points := make([]model.PricePoint, len(dates))
	for i, d := range dates {
		points[i] = model.PricePoint{Date: d, Value: values[i]}
	}
	return points
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
