package model

import "strings"

// Company 输入公司列表中的一行
type Company struct {
	Symbol   string // 代码，如 000002.SZ / AAPL
	Name     string // 中证500列表的公司名
	Security string // 标普500列表的证券名
	Sector   string // GICS Sector，可能为空
	Exchange string // 交易所，可能为空

	HasExchange bool // 输入是否带 Exchange 列
}

// DisplayName 优先Security，其次Name
func (c *Company) DisplayName() string {
	if c.Security != "" {
		return c.Security
	}
	return c.Name
}

// StockCode 去掉后缀的代码：000002.SZ -> 000002
func (c *Company) StockCode() string {
	if i := strings.Index(c.Symbol, "."); i >= 0 {
		return c.Symbol[:i]
	}
	return c.Symbol
}

// CompanyInfo 数据源返回的公司描述信息，缺失字段为零值
type CompanyInfo struct {
	Symbol    string `json:"symbol"`
	LongName  string `json:"longName"`
	ShortName string `json:"shortName"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
	City      string `json:"city"`
	Country   string `json:"country"`
	MarketCap int64  `json:"marketCap"`
	Exchange  string `json:"exchange"`
}

// EnrichedCompany 补全后的公司记录
type EnrichedCompany struct {
	Symbol      string
	ChineseName string
	EnglishName string
	Sector      string
	Industry    string
	City        string
	Country     string
	MarketCap   int64
	Exchange    string
}

// EnrichedColumns 输出列
var EnrichedColumns = []string{
	"Symbol", "Chinese_Name", "English_Name", "Sector", "Industry",
	"City", "Country", "Market_Cap", "Exchange",
}
