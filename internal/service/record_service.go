package service

import (
	"crypto/md5"
	"fmt"
	"sync/atomic"

	"MarketForge/internal/cache/lru"
	"MarketForge/internal/model"
	"MarketForge/pkg/json"

	"github.com/sirupsen/logrus"
)

// RecordStore 记录查询的数据来源
type RecordStore interface {
	QueryRecords(q *model.RecordQuery) (*model.RecordPage, error)
	GetStats(market string) (*model.DatasetStats, error)
}

// RecordService 带LRU缓存的只读查询服务，数据由生成任务写入后不再变化
type RecordService struct {
	store     RecordStore
	cache     *lru.Cache
	cacheHits int64
	cacheMiss int64
}

// NewRecordService 创建服务
func NewRecordService(store RecordStore, cacheSize int64) *RecordService {
	logrus.Infof("Initializing RecordService with cache size: %.2f MB", float64(cacheSize)/(1024*1024))

	cache := lru.NewCache(cacheSize, 0, func(key string, value lru.Value) {
		logrus.Debugf("Cache evicted: %s", key)
	})
	return &RecordService{store: store, cache: cache}
}

// QueryRecords 分页查询记录
func (s *RecordService) QueryRecords(q *model.RecordQuery) (*model.RecordPage, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}

	key := cacheKey("records", q)
	if cached, ok := s.cache.Get(key); ok {
		if page, ok := cached.(*CacheValue).RecordPage(); ok {
			atomic.AddInt64(&s.cacheHits, 1)
			return page, nil
		}
	}
	atomic.AddInt64(&s.cacheMiss, 1)

	page, err := s.store.QueryRecords(q)
	if err != nil {
		return nil, model.ErrInternalError(fmt.Sprintf("query records: %v", err))
	}
	s.cache.Add(key, NewCacheValue(page))
	return page, nil
}

// GetStats 数据集统计
func (s *RecordService) GetStats(market string) (*model.DatasetStats, error) {
	key := "stats:" + market
	if cached, ok := s.cache.Get(key); ok {
		if stats, ok := cached.(*CacheValue).DatasetStats(); ok {
			atomic.AddInt64(&s.cacheHits, 1)
			return stats, nil
		}
	}
	atomic.AddInt64(&s.cacheMiss, 1)

	stats, err := s.store.GetStats(market)
	if err != nil {
		return nil, model.ErrInternalError(fmt.Sprintf("query stats: %v", err))
	}
	if stats.TotalRecords == 0 && market != "" {
		return nil, model.ErrNotFound(fmt.Sprintf("no records for market %s", market))
	}
	s.cache.Add(key, NewCacheValue(stats))
	return stats, nil
}

// GetCacheStats 获取缓存统计
func (s *RecordService) GetCacheStats() map[string]interface{} {
	hits := atomic.LoadInt64(&s.cacheHits)
	miss := atomic.LoadInt64(&s.cacheMiss)
	total := hits + miss

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return map[string]interface{}{
		"entries":  s.cache.Len(),
		"bytes":    s.cache.Bytes(),
		"hits":     hits,
		"misses":   miss,
		"hit_rate": fmt.Sprintf("%.2f%%", hitRate),
	}
}

// cacheKey 生成缓存key
func cacheKey(prefix string, req interface{}) string {
	data, _ := json.Marshal(req)
	return fmt.Sprintf("%s:%x", prefix, md5.Sum(data))
}
