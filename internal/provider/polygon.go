package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MarketForge/internal/model"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/sirupsen/logrus"
)

// Polygon 基于 polygon.io REST 的数据源
type Polygon struct {
	client *polygon.Client
	now    func() time.Time
}

// NewPolygon 创建Polygon数据源
func NewPolygon(apiKey string) (*Polygon, error) {
	if apiKey == "" {
		return nil, errors.New("polygon api key is empty, set [provider] polygon_api_key or POLYGON_API_KEY")
	}
	return &Polygon{client: polygon.New(apiKey), now: time.Now}, nil
}

// Info 查询公司信息，行业取SIC描述
func (p *Polygon) Info(ctx context.Context, symbol string) (*model.CompanyInfo, error) {
	res, err := p.client.GetTickerDetails(ctx, &models.GetTickerDetailsParams{Ticker: symbol})
	if err != nil {
		return nil, fmt.Errorf("polygon ticker details %s: %w", symbol, err)
	}
	t := res.Results
	if t.Name == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	return &model.CompanyInfo{
		Symbol:    symbol,
		LongName:  t.Name,
		Industry:  t.SICDescription,
		City:      titleCase(t.Address.City),
		Country:   localeCountry(string(t.Locale)),
		MarketCap: int64(t.MarketCap),
		Exchange:  t.PrimaryExchange,
	}, nil
}

// History 日线聚合收盘价
func (p *Polygon) History(ctx context.Context, symbol string, req HistoryRequest) ([]model.PricePoint, error) {
	start, end := req.Range(p.now())

	limit := 50000
	order := models.Asc
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
		Order:      &order,
		Limit:      &limit,
	}

	var points []model.PricePoint
	iter := p.client.AggsClient.ListAggs(ctx, &params)
	for iter.Next() {
		agg := iter.Item()
		points = append(points, model.PricePoint{
			Date:  dayOf(time.Time(agg.Timestamp)),
			Value: agg.Close,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon aggs %s: %w", symbol, err)
	}

	logrus.Debugf("[Polygon] %s: %d aggs", symbol, len(points))
	return points, nil
}

func localeCountry(locale string) string {
	switch strings.ToLower(locale) {
	case "us":
		return "United States"
	case "global":
		return ""
	}
	return strings.ToUpper(locale)
}

// titleCase SAN FRANCISCO -> San Francisco
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
