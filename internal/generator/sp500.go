package generator

import (
	"math/rand"
	"strconv"
	"strings"

	"MarketForge/internal/model"
)

// GICSSectors 美股GICS一级行业
var GICSSectors = []string{
	"Information Technology", "Financials", "Consumer Discretionary", "Industrials",
	"Health Care", "Materials", "Energy", "Real Estate", "Utilities", "Communication Services",
}

// SP500 标普500
func SP500() *Variant {
	return &Variant{
		Name:          "sp500",
		IndexColumn:   "sp500_index",
		Country:       "USA",
		DefaultInput:  "sp500_companies.csv",
		DefaultOutput: "sp500_data_500k.csv",
		Index: IndexParams{
			Base:       2000,
			TrendSpan:  2500,
			NoiseSigma: 200,
			ClipMin:    1500,
			ClipMax:    6000,
		},
		PriceMultiplier: Range{0.5, 3.0},
		Volume:          IntRange{1000000, 150000000},
		PriceChange:     Range{-5, 5},
		MarketCapFactor: Range{5, 800},
		PE:              Range{10, 40},
		PB:              Range{1, 8},
		DividendYield:   Range{0, 3},
		Beta:            Range{0.5, 2.0},
		TechSector:      "Information Technology",
		FinancialSector: "Financials",
		ConsumerSector:  "Consumer Discretionary",
		Columns: []string{
			"id", "symbol", "company_name", "sector", "exchange", "country",
			"observation_date", "sp500_index", "stock_price", "volume",
			"price_change_percent", "market_cap", "pe_ratio", "pb_ratio",
			"dividend_yield", "beta", "year", "month", "quarter", "day_of_week",
			"is_tech_sector", "is_financial_sector", "is_consumer_sector",
		},
		sector:   spSector,
		exchange: spExchange,
		decorate: spDecorate,
		encode:   spEncode,
	}
}

// 优先使用列表自带的GICS行业
func spSector(c *model.Company, rng *rand.Rand) (string, string) {
	if s := strings.TrimSpace(c.Sector); s != "" {
		return s, s
	}
	s := GICSSectors[rng.Intn(len(GICSSectors))]
	return s, s
}

// 没有Exchange列时默认NYSE；有列但值不含NYSE时为NASDAQ
func spExchange(c *model.Company) string {
	if !c.HasExchange {
		return "NYSE"
	}
	if strings.Contains(c.Exchange, "NYSE") {
		return "NYSE"
	}
	return "NASDAQ"
}

func spDecorate(rec *model.SyntheticRecord, c *model.Company) {
	rec.CompanyName = c.DisplayName()
}

func spEncode(r *model.SyntheticRecord) []string {
	return []string{
		formatInt(r.ID),
		r.Symbol,
		r.CompanyName,
		r.Sector,
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
	}
}
