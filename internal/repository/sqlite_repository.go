package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"MarketForge/internal/model"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS synthetic_records (
    market TEXT NOT NULL,
    id INTEGER NOT NULL,
    symbol TEXT NOT NULL,
    stock_code TEXT,
    company_name TEXT,
    company_name_en TEXT,
    sector TEXT,
    sector_en TEXT,
    sub_industry TEXT,
    exchange TEXT,
    country TEXT,
    observation_date TEXT NOT NULL,
    index_level REAL,
    stock_price REAL,
    volume INTEGER,
    price_change_percent REAL,
    market_cap REAL,
    pe_ratio REAL,
    pb_ratio REAL,
    dividend_yield REAL,
    beta REAL,
    year INTEGER,
    month INTEGER,
    quarter INTEGER,
    day_of_week TEXT,
    is_tech_sector INTEGER,
    is_financial_sector INTEGER,
    is_consumer_sector INTEGER,
    generated_at TEXT,
    PRIMARY KEY (market, id)
);
CREATE INDEX IF NOT EXISTS idx_symbol_date ON synthetic_records(symbol, observation_date);
CREATE INDEX IF NOT EXISTS idx_market_date ON synthetic_records(market, observation_date);
`

const recordColumns = `market, id, symbol, stock_code, company_name, company_name_en, sector, sector_en,
    sub_industry, exchange, country, observation_date, index_level, stock_price, volume,
    price_change_percent, market_cap, pe_ratio, pb_ratio, dividend_yield, beta, year, month,
    quarter, day_of_week, is_tech_sector, is_financial_sector, is_consumer_sector, generated_at`

// SQLiteRepository 本地SQLite存储，既是生成任务的落地目标也是HTTP服务的数据源
type SQLiteRepository struct {
	db        *sql.DB
	batchSize int
}

// NewSQLiteRepository 打开数据库并建表
func NewSQLiteRepository(dbPath string, batchSize int) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// 性能优化配置
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA cache_size=10000")
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if batchSize <= 0 {
		batchSize = 1000
	}
	return &SQLiteRepository{db: db, batchSize: batchSize}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SaveRecords 删除该市场旧数据后分批写入，每批一个事务
func (r *SQLiteRepository) SaveRecords(market string, records []*model.SyntheticRecord) error {
	if _, err := r.db.Exec("DELETE FROM synthetic_records WHERE market = ?", market); err != nil {
		return fmt.Errorf("clear %s: %w", market, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", 29), ",")
	insert := "INSERT INTO synthetic_records (" + recordColumns + ") VALUES (" + placeholders + ")"

	for start := 0; start < len(records); start += r.batchSize {
		end := start + r.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := r.insertBatch(insert, market, records[start:end]); err != nil {
			return err
		}
	}

	logrus.Infof("[SQLite] saved %d %s records", len(records), market)
	return nil
}

func (r *SQLiteRepository) insertBatch(insert, market string, batch []*model.SyntheticRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range batch {
		_, err := stmt.Exec(
			market, rec.ID, rec.Symbol, rec.StockCode, rec.CompanyName, rec.CompanyNameEN,
			rec.Sector, rec.SectorKey, rec.SubIndustry, rec.Exchange, rec.Country,
			rec.ObservationDate.Format(model.DateLayout), rec.IndexLevel, rec.StockPrice, rec.Volume,
			rec.PriceChangePct, rec.MarketCap, rec.PERatio, rec.PBRatio, rec.DividendYield, rec.Beta,
			rec.Year, rec.Month, rec.Quarter, rec.DayOfWeek, rec.IsTech, rec.IsFinancial, rec.IsConsumer,
			rec.GeneratedAt.Format(time.RFC3339),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert record %d: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// whereClause 根据查询条件拼接过滤
func whereClause(q *model.RecordQuery) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if q.Market != "" {
		conds = append(conds, "market = ?")
		args = append(args, q.Market)
	}
	if q.Symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, q.Symbol)
	}
	if q.From != "" {
		conds = append(conds, "observation_date >= ?")
		args = append(args, q.From)
	}
	if q.To != "" {
		conds = append(conds, "observation_date <= ?")
		args = append(args, q.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// QueryRecords 分页查询
func (r *SQLiteRepository) QueryRecords(q *model.RecordQuery) (*model.RecordPage, error) {
	where, args := whereClause(q)

	page := &model.RecordPage{Records: make([]*model.SyntheticRecord, 0)}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM synthetic_records"+where, args...).Scan(&page.Total); err != nil {
		return nil, err
	}

	query := "SELECT " + recordColumns + " FROM synthetic_records" + where +
		" ORDER BY market, id LIMIT ? OFFSET ?"
	rows, err := r.db.Query(query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rec := &model.SyntheticRecord{}
		var date, generatedAt string
		var stockCode, nameEN, sectorKey, subIndustry sql.NullString
		err := rows.Scan(
			&rec.Market, &rec.ID, &rec.Symbol, &stockCode, &rec.CompanyName, &nameEN,
			&rec.Sector, &sectorKey, &subIndustry, &rec.Exchange, &rec.Country,
			&date, &rec.IndexLevel, &rec.StockPrice, &rec.Volume,
			&rec.PriceChangePct, &rec.MarketCap, &rec.PERatio, &rec.PBRatio, &rec.DividendYield, &rec.Beta,
			&rec.Year, &rec.Month, &rec.Quarter, &rec.DayOfWeek, &rec.IsTech, &rec.IsFinancial, &rec.IsConsumer,
			&generatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.StockCode = stockCode.String
		rec.CompanyNameEN = nameEN.String
		rec.SectorKey = sectorKey.String
		rec.SubIndustry = subIndustry.String
		rec.ObservationDate, _ = time.Parse(model.DateLayout, date)
		rec.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
		page.Records = append(page.Records, rec)
	}
	return page, rows.Err()
}

// GetStats 按行业、年份、交易所汇总，market为空时统计全部
func (r *SQLiteRepository) GetStats(market string) (*model.DatasetStats, error) {
	where, args := whereClause(&model.RecordQuery{Market: market})

	stats := &model.DatasetStats{}
	err := r.db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT symbol) FROM synthetic_records"+where, args...).
		Scan(&stats.TotalRecords, &stats.Companies)
	if err != nil {
		return nil, err
	}

	if stats.BySector, err = r.groupBy("sector", where, args); err != nil {
		return nil, err
	}
	if stats.ByYear, err = r.groupBy("year", where, args); err != nil {
		return nil, err
	}
	if stats.ByExchange, err = r.groupBy("exchange", where, args); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *SQLiteRepository) groupBy(column, where string, args []interface{}) ([]*model.GroupStat, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*),
		       ROUND(AVG(stock_price), 2), ROUND(AVG(volume), 2),
		       ROUND(AVG(market_cap), 2), ROUND(AVG(index_level), 2)
		FROM synthetic_records%[2]s
		GROUP BY %[1]s
		ORDER BY %[1]s
	`, column, where)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.GroupStat, 0)
	for rows.Next() {
		var key interface{}
		s := &model.GroupStat{}
		if err := rows.Scan(&key, &s.Count, &s.AvgStockPrice, &s.AvgVolume, &s.AvgMarketCap, &s.AvgIndexLevel); err != nil {
			return nil, err
		}
		s.Key = groupKey(key)
		out = append(out, s)
	}
	return out, rows.Err()
}

// groupKey year列为整数，其余为文本
func groupKey(v interface{}) string {
	switch k := v.(type) {
	case int64:
		return strconv.FormatInt(k, 10)
	case []byte:
		return string(k)
	case string:
		return k
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
