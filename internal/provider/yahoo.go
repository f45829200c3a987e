package provider

import (
	"context"
	"fmt"
	"math"
	"time"

	"MarketForge/internal/model"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Yahoo 基于 Yahoo Finance 的数据源
// finance-go 的报价接口不带行业、城市、国家字段，这几项留空
type Yahoo struct {
	now func() time.Time
}

// NewYahoo 创建Yahoo数据源
func NewYahoo() *Yahoo {
	return &Yahoo{now: time.Now}
}

// Info 查询公司信息
func (y *Yahoo) Info(ctx context.Context, symbol string) (*model.CompanyInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo equity %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	return &model.CompanyInfo{
		Symbol:    symbol,
		LongName:  q.LongName,
		ShortName: q.ShortName,
		MarketCap: q.MarketCap,
		Exchange:  q.FullExchangeName,
	}, nil
}

// History 日线收盘价
func (y *Yahoo) History(ctx context.Context, symbol string, req HistoryRequest) ([]model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start, end := req.Range(y.now())
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	var points []model.PricePoint
	iter := chart.Get(params)
	for iter.Next() {
		bar := iter.Bar()
		points = append(points, barPoint(bar.Timestamp, bar.Close))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	logrus.Debugf("[Yahoo] %s: %d bars (%s ~ %s)", symbol, len(points),
		start.Format(model.DateLayout), end.Format(model.DateLayout))
	return points, nil
}

// barPoint 空收盘价在 finance-go 中被解析为0，按缺失处理
func barPoint(ts int, close decimal.Decimal) model.PricePoint {
	p := model.PricePoint{Date: dayOf(time.Unix(int64(ts), 0)), Value: math.NaN()}
	if !close.IsZero() {
		p.Value, _ = close.Float64()
	}
	return p
}
