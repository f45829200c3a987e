package generator

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"MarketForge/internal/model"
)

// Variant 一个市场的生成参数与输出格式
type Variant struct {
	Name          string // csi500 / sp500
	IndexColumn   string // 输出中的指数列
	Country       string
	DefaultInput  string
	DefaultOutput string

	Index IndexParams

	PriceMultiplier Range
	Volume          IntRange
	PriceChange     Range
	MarketCapFactor Range // 市值 = 股价 * 因子 * 1e6
	PE              Range
	PB              Range
	DividendYield   Range
	Beta            Range

	// 行业标志位对应的行业键
	TechSector      string
	FinancialSector string
	ConsumerSector  string

	Columns []string

	sector   func(c *model.Company, rng *rand.Rand) (label, key string)
	exchange func(c *model.Company) string
	decorate func(rec *model.SyntheticRecord, c *model.Company)
	encode   func(rec *model.SyntheticRecord) []string
}

// Lookup 按名称取市场
func Lookup(name string) (*Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csi500", "csi":
		return CSI500(), nil
	case "sp500", "sp", "s&p500":
		return SP500(), nil
	}
	return nil, model.ErrInvalidParameter(fmt.Sprintf("unknown market %q", name))
}

// Header 输出表头
func (v *Variant) Header() []string {
	out := make([]string, len(v.Columns))
	copy(out, v.Columns)
	return out
}

// Encode 把记录编码为一行
func (v *Variant) Encode(rec *model.SyntheticRecord) []string {
	return v.encode(rec)
}

func boolFlag(match bool) int {
	if match {
		return 1
	}
	return 0
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
