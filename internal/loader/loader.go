package loader

import (
	"fmt"

	"MarketForge/internal/csvfile"
	"MarketForge/internal/model"
)

// 输入列名
const (
	ColSymbol   = "Symbol"
	ColName     = "Name"
	ColSecurity = "Security"
	ColSector   = "GICS Sector"
	ColExchange = "Exchange"
)

// LoadCompanies 读取公司列表，要求有Symbol列以及Name或Security之一
func LoadCompanies(path string) ([]*model.Company, error) {
	tbl, err := csvfile.Read(path)
	if err != nil {
		return nil, err
	}
	return FromTable(tbl)
}

// FromTable 从已读入的表构造公司列表
func FromTable(tbl *csvfile.Table) ([]*model.Company, error) {
	if err := tbl.Require(ColSymbol); err != nil {
		return nil, err
	}
	_, hasName := tbl.Column(ColName)
	_, hasSecurity := tbl.Column(ColSecurity)
	if !hasName && !hasSecurity {
		return nil, fmt.Errorf("%w: %s or %s", csvfile.ErrMissingColumn, ColName, ColSecurity)
	}
	_, hasExchange := tbl.Column(ColExchange)

	companies := make([]*model.Company, 0, tbl.Len())
	for _, row := range tbl.Rows {
		companies = append(companies, &model.Company{
			Symbol:      tbl.Value(row, ColSymbol),
			Name:        tbl.Value(row, ColName),
			Security:    tbl.Value(row, ColSecurity),
			Sector:      tbl.Value(row, ColSector),
			Exchange:    tbl.Value(row, ColExchange),
			HasExchange: hasExchange,
		})
	}
	return companies, nil
}
