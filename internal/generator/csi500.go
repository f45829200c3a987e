package generator

import (
	"math/rand"
	"strconv"
	"strings"

	"MarketForge/internal/model"
)

// csiSectorKeys 行业键，顺序固定以保证同一种子下抽样一致
var csiSectorKeys = []string{
	"Technology", "Financials", "Consumer", "Industrials", "Health Care",
	"Materials", "Energy", "Real Estate", "Utilities", "Communication",
}

// CSISectorLabels 行业键到中文名
var CSISectorLabels = map[string]string{
	"Technology":    "信息技术",
	"Financials":    "金融",
	"Consumer":      "消费",
	"Industrials":   "工业",
	"Health Care":   "医疗保健",
	"Materials":     "材料",
	"Energy":        "能源",
	"Real Estate":   "房地产",
	"Utilities":     "公用事业",
	"Communication": "通信服务",
}

const timestampLayout = "2006-01-02 15:04:05"

// CSI500 中证500
func CSI500() *Variant {
	return &Variant{
		Name:          "csi500",
		IndexColumn:   "csi500_index",
		Country:       "China",
		DefaultInput:  "csi500_companies.csv",
		DefaultOutput: "csi500_data_500k.csv",
		Index: IndexParams{
			Base:       5000,
			TrendSpan:  2000,
			NoiseSigma: 300,
			ClipMin:    3000,
			ClipMax:    9000,
		},
		PriceMultiplier: Range{0.5, 3.0},
		Volume:          IntRange{500000, 100000000},
		PriceChange:     Range{-8, 8},
		MarketCapFactor: Range{1, 300},
		PE:              Range{8, 60},
		PB:              Range{0.5, 5},
		DividendYield:   Range{0, 4},
		Beta:            Range{0.7, 2.5},
		TechSector:      "Technology",
		FinancialSector: "Financials",
		ConsumerSector:  "Consumer",
		Columns: []string{
			"id", "symbol", "stock_code", "company_name_cn", "company_name_en",
			"sector", "sector_en", "sub_industry", "exchange", "country",
			"observation_date", "csi500_index", "stock_price", "volume",
			"price_change_percent", "market_cap", "pe_ratio", "pb_ratio",
			"dividend_yield", "beta", "year", "month", "quarter", "day_of_week",
			"is_tech_sector", "is_financial_sector", "is_consumer_sector", "timestamp",
		},
		sector:   csiSector,
		exchange: csiExchange,
		decorate: csiDecorate,
		encode:   csiEncode,
	}
}

// 列表中没有行业信息，按公司随机分配
func csiSector(_ *model.Company, rng *rand.Rand) (string, string) {
	key := csiSectorKeys[rng.Intn(len(csiSectorKeys))]
	return CSISectorLabels[key], key
}

func csiExchange(c *model.Company) string {
	if strings.Contains(c.Symbol, ".SH") || strings.Contains(c.Symbol, ".SS") {
		return "Shanghai"
	}
	return "Shenzhen"
}

func csiDecorate(rec *model.SyntheticRecord, c *model.Company) {
	rec.StockCode = c.StockCode()
	rec.CompanyName = c.Name
	rec.CompanyNameEN = c.Name + " Co., Ltd."
	rec.SubIndustry = rec.Sector + " - Various"
}

func csiEncode(r *model.SyntheticRecord) []string {
	return []string{
		formatInt(r.ID),
		r.Symbol,
		r.StockCode,
		r.CompanyName,
		r.CompanyNameEN,
		r.Sector,
		r.SectorKey,
		r.SubIndustry,
		r.Exchange,
		r.Country,
		r.ObservationDate.Format(model.DateLayout),
		formatFloat(r.IndexLevel),
		formatFloat(r.StockPrice),
		formatInt(r.Volume),
		formatFloat(r.PriceChangePct),
		formatFloat(r.MarketCap),
		formatFloat(r.PERatio),
		formatFloat(r.PBRatio),
		formatFloat(r.DividendYield),
		formatFloat(r.Beta),
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Month),
		strconv.Itoa(r.Quarter),
		r.DayOfWeek,
		strconv.Itoa(r.IsTech),
		strconv.Itoa(r.IsFinancial),
		strconv.Itoa(r.IsConsumer),
		r.GeneratedAt.Format(timestampLayout),
	}
}
