package model

// RecordQuery 记录查询参数
type RecordQuery struct {
	Market string `form:"market" json:"market"`
	Symbol string `form:"symbol" json:"symbol"`
	From   string `form:"from" json:"from"` // YYYY-MM-DD
	To     string `form:"to" json:"to"`     // YYYY-MM-DD
	Offset int    `form:"offset" json:"offset"`
	Limit  int    `form:"limit" json:"limit"`
}

// Normalize 填充默认值并校验
func (q *RecordQuery) Normalize() error {
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if q.Limit > 5000 {
		return ErrInvalidParameter("limit must not exceed 5000")
	}
	if q.Offset < 0 {
		return ErrInvalidParameter("offset must not be negative")
	}
	if q.From != "" && q.To != "" && q.From > q.To {
		return ErrInvalidParameter("from must not be after to")
	}
	return nil
}

// RecordPage 查询结果
type RecordPage struct {
	Total   int                `json:"total"`
	Records []*SyntheticRecord `json:"records"`
}

// GroupStat 分组统计
type GroupStat struct {
	Key           string  `json:"key"`
	Count         int64   `json:"count"`
	AvgStockPrice float64 `json:"avg_stock_price"`
	AvgVolume     float64 `json:"avg_volume"`
	AvgMarketCap  float64 `json:"avg_market_cap,omitempty"`
	AvgIndexLevel float64 `json:"avg_index_level,omitempty"`
}

// DatasetStats 数据集统计
type DatasetStats struct {
	TotalRecords int64        `json:"total_records"`
	Companies    int64        `json:"companies"`
	BySector     []*GroupStat `json:"by_sector"`
	ByYear       []*GroupStat `json:"by_year"`
	ByExchange   []*GroupStat `json:"by_exchange"`
}
