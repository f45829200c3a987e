package report

import (
	"database/sql"
	"fmt"
	"strings"

	"MarketForge/internal/model"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/sirupsen/logrus"
)

// indexColumns 支持的指数列，按出现的列判断市场
var indexColumns = []string{"csi500_index", "sp500_index"}

// Report 统计结果
type Report struct {
	Input       string
	IndexColumn string
	*model.DatasetStats
}

// Reporter 基于DuckDB直接读取CSV做分组统计
type Reporter struct {
	db *sql.DB
}

// Open 打开DuckDB，path为空时使用内存库
func Open(path string) (*Reporter, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Reporter{db: db}, nil
}

func (r *Reporter) Close() error {
	return r.db.Close()
}

// Run 对生成的CSV做汇总
func (r *Reporter) Run(csvPath string) (*Report, error) {
	if _, err := r.db.Exec(viewSQL(csvPath)); err != nil {
		return nil, fmt.Errorf("load %s: %w", csvPath, err)
	}

	cols, err := r.columns()
	if err != nil {
		return nil, err
	}
	indexCol := detectIndexColumn(cols)
	if indexCol == "" {
		return nil, fmt.Errorf("%s: no index column (%s)", csvPath, strings.Join(indexColumns, "/"))
	}

	rep := &Report{Input: csvPath, IndexColumn: indexCol, DatasetStats: &model.DatasetStats{}}
	err = r.db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT symbol) FROM records").
		Scan(&rep.TotalRecords, &rep.Companies)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	if rep.BySector, err = r.group("sector", indexCol); err != nil {
		return nil, err
	}
	if rep.ByYear, err = r.group("year", indexCol); err != nil {
		return nil, err
	}
	if rep.ByExchange, err = r.group("exchange", indexCol); err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *Reporter) columns() ([]string, error) {
	rows, err := r.db.Query("SELECT * FROM records LIMIT 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

func (r *Reporter) group(column, indexCol string) ([]*model.GroupStat, error) {
	rows, err := r.db.Query(groupSQL(column, indexCol))
	if err != nil {
		return nil, fmt.Errorf("group by %s: %w", column, err)
	}
	defer rows.Close()

	out := make([]*model.GroupStat, 0)
	for rows.Next() {
		s := &model.GroupStat{}
		if err := rows.Scan(&s.Key, &s.Count, &s.AvgStockPrice, &s.AvgVolume, &s.AvgMarketCap, &s.AvgIndexLevel); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// viewSQL 把CSV注册为records视图
func viewSQL(csvPath string) string {
	return fmt.Sprintf("CREATE OR REPLACE VIEW records AS SELECT * FROM read_csv_auto('%s', header=true)",
		strings.ReplaceAll(csvPath, "'", "''"))
}

// groupSQL 单列分组统计，键统一转为文本
func groupSQL(column, indexCol string) string {
	return fmt.Sprintf(`
		SELECT CAST(%[1]s AS VARCHAR) AS k, COUNT(*),
		       ROUND(AVG(stock_price), 2), ROUND(AVG(volume), 2),
		       ROUND(AVG(market_cap), 2), ROUND(AVG(%[2]s), 2)
		FROM records
		GROUP BY k
		ORDER BY k`, column, indexCol)
}

func detectIndexColumn(cols []string) string {
	for _, c := range cols {
		for _, want := range indexColumns {
			if c == want {
				return c
			}
		}
	}
	return ""
}

// Log 输出报告
func (rep *Report) Log() {
	logrus.Infof("[Report] %s: %d records, %d companies, index column %s",
		rep.Input, rep.TotalRecords, rep.Companies, rep.IndexColumn)
	for _, s := range rep.BySector {
		logrus.Infof("[Report] sector %-24s count=%d avg_price=%.2f avg_volume=%.0f avg_market_cap=%.2f",
			s.Key, s.Count, s.AvgStockPrice, s.AvgVolume, s.AvgMarketCap)
	}
	for _, s := range rep.ByYear {
		logrus.Infof("[Report] year %s count=%d avg_index=%.2f avg_price=%.2f",
			s.Key, s.Count, s.AvgIndexLevel, s.AvgStockPrice)
	}
	for _, s := range rep.ByExchange {
		logrus.Infof("[Report] exchange %-10s count=%d avg_price=%.2f avg_volume=%.0f",
			s.Key, s.Count, s.AvgStockPrice, s.AvgVolume)
	}
}
