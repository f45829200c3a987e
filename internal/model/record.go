package model

import "time"

// SyntheticRecord 一条合成行情记录
type SyntheticRecord struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Market          string    `json:"market" gorm:"primaryKey;type:varchar(16)"`
	Symbol          string    `json:"symbol" gorm:"type:varchar(32);index"`
	StockCode       string    `json:"stock_code" gorm:"type:varchar(16)"`
	CompanyName     string    `json:"company_name" gorm:"type:varchar(255)"`
	CompanyNameEN   string    `json:"company_name_en" gorm:"type:varchar(255)"`
	Sector          string    `json:"sector" gorm:"type:varchar(64);index"`
	SectorKey       string    `json:"sector_en" gorm:"column:sector_en;type:varchar(64)"`
	SubIndustry     string    `json:"sub_industry" gorm:"type:varchar(128)"`
	Exchange        string    `json:"exchange" gorm:"type:varchar(32)"`
	Country         string    `json:"country" gorm:"type:varchar(32)"`
	ObservationDate time.Time `json:"observation_date" gorm:"type:date;index"`
	IndexLevel      float64   `json:"index_level"`
	StockPrice      float64   `json:"stock_price"`
	Volume          int64     `json:"volume"`
	PriceChangePct  float64   `json:"price_change_percent" gorm:"column:price_change_percent"`
	MarketCap       float64   `json:"market_cap"`
	PERatio         float64   `json:"pe_ratio"`
	PBRatio         float64   `json:"pb_ratio"`
	DividendYield   float64   `json:"dividend_yield"`
	Beta            float64   `json:"beta"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	Quarter         int       `json:"quarter"`
	DayOfWeek       string    `json:"day_of_week" gorm:"type:varchar(16)"`
	IsTech          int       `json:"is_tech_sector" gorm:"column:is_tech_sector"`
	IsFinancial     int       `json:"is_financial_sector" gorm:"column:is_financial_sector"`
	IsConsumer      int       `json:"is_consumer_sector" gorm:"column:is_consumer_sector"`
	GeneratedAt     time.Time `json:"timestamp"`
}

// TableName gorm表名
func (SyntheticRecord) TableName() string { return "synthetic_records" }
