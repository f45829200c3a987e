package repository

import (
	"sync"

	"MarketForge/internal/cache/lru"
	"MarketForge/internal/model"
	"MarketForge/pkg/common"
	"MarketForge/pkg/json"
)

// CompanyInfoRepository 公司信息内存仓库，按代码缓存在LRU中
type CompanyInfoRepository struct {
	cache *lru.Cache
	mu    sync.RWMutex
}

// NewCompanyInfoRepository 创建公司信息仓库
func NewCompanyInfoRepository(cache *lru.Cache) *CompanyInfoRepository {
	return &CompanyInfoRepository{
		cache: cache,
	}
}

// Save 保存公司信息
func (r *CompanyInfoRepository) Save(symbol string, info *model.CompanyInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(info)
	if err != nil {
		return model.ErrInternalError("failed to marshal company info: " + err.Error())
	}

	r.cache.Add(symbol, common.NewByteView(data))
	return nil
}

// Get 获取公司信息，损坏的条目会被移除
func (r *CompanyInfoRepository) Get(symbol string) (*model.CompanyInfo, error) {
	r.mu.RLock()
	value, ok := r.cache.Get(symbol)
	r.mu.RUnlock()
	if !ok {
		return nil, model.ErrNotFound("company info not found: " + symbol)
	}

	bv, ok := value.(common.ByteView)
	if !ok {
		r.Remove(symbol)
		return nil, model.ErrInternalError("unexpected cache value for " + symbol)
	}

	var info model.CompanyInfo
	if err := json.Unmarshal(bv.ByteSlice(), &info); err != nil {
		r.Remove(symbol)
		return nil, model.ErrInternalError("failed to unmarshal company info: " + err.Error())
	}
	return &info, nil
}

// Remove 删除公司信息
func (r *CompanyInfoRepository) Remove(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Remove(symbol)
}

// Len 已缓存的公司数
func (r *CompanyInfoRepository) Len() int {
	return r.cache.Len()
}
