package service

import (
	"MarketForge/internal/model"
	"MarketForge/pkg/json"
)

// CacheValue 实现lru.Value接口的包装器
type CacheValue struct {
	Data interface{}
	size int
}

// NewCacheValue 创建缓存值包装器，大小按JSON长度估算
func NewCacheValue(data interface{}) *CacheValue {
	jsonData, _ := json.Marshal(data)
	return &CacheValue{
		Data: data,
		size: len(jsonData),
	}
}

// Len 返回缓存值的大小
func (cv *CacheValue) Len() int {
	return cv.size
}

// RecordPage 取记录分页
func (cv *CacheValue) RecordPage() (*model.RecordPage, bool) {
	page, ok := cv.Data.(*model.RecordPage)
	return page, ok
}

// DatasetStats 取统计结果
func (cv *CacheValue) DatasetStats() (*model.DatasetStats, bool) {
	stats, ok := cv.Data.(*model.DatasetStats)
	return stats, ok
}
