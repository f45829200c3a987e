package model

import (
	"math"
	"time"
)

// DateLayout 输出日期格式
const DateLayout = "2006-01-02"

// PricePoint 指数点位，Value为NaN表示缺失
type PricePoint struct {
	Date  time.Time
	Value float64
}

// Valid 是否为有效数值
func (p PricePoint) Valid() bool {
	return !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0)
}

// DateString 按 YYYY-MM-DD 输出
func (p PricePoint) DateString() string {
	return p.Date.Format(DateLayout)
}
