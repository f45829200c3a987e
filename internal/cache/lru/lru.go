package lru

import (
	"container/list"
	"sync"
	"time"
)

// Cache LRU缓存，按字节数限制容量，条目可设置过期时间
type Cache struct {
	mu        sync.RWMutex
	maxBytes  int64
	usedBytes int64
	ttl       int64 // 秒，0表示不过期
	ll        *list.List
	cache     map[string]*list.Element
	now       func() time.Time
	OnEvicted func(key string, value Value)
}

// Entry 缓存条目
type Entry struct {
	Key        string
	Value      Value
	CreateAt   int64
	ExpireTime int64 // 过期时间（秒）
}

// Value 缓存值接口
type Value interface {
	Len() int
}

// NewCache 创建LRU缓存
// maxBytes<=0 不限容量，ttl<=0 不过期
func NewCache(maxBytes int64, ttl time.Duration, onEvicted func(string, Value)) *Cache {
	return &Cache{
		maxBytes:  maxBytes,
		ttl:       int64(ttl / time.Second),
		ll:        list.New(),
		cache:     make(map[string]*list.Element),
		now:       time.Now,
		OnEvicted: onEvicted,
	}
}

func (e *Entry) expired(now int64) bool {
	return e.ExpireTime > 0 && now > e.CreateAt+e.ExpireTime
}

// Get 获取缓存值，过期条目视为不存在
func (c *Cache) Get(key string) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	entry := ele.Value.(*Entry)
	if entry.expired(c.now().Unix()) {
		c.removeElement(ele)
		return nil, false
	}
	c.ll.MoveToFront(ele)
	return entry.Value, true
}

// Add 添加缓存值
func (c *Cache) Add(key string, value Value) {
	c.AddEntry(&Entry{Key: key, Value: value, CreateAt: c.now().Unix(), ExpireTime: c.ttl})
}

// AddEntry 按原始创建时间写入，快照恢复时使用
func (c *Cache) AddEntry(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := int64(len(e.Key)) + int64(e.Value.Len())
	if ele, ok := c.cache[e.Key]; ok {
		c.ll.MoveToFront(ele)
		old := ele.Value.(*Entry)
		c.usedBytes += size - (int64(len(old.Key)) + int64(old.Value.Len()))
		old.Value = e.Value
		old.CreateAt = e.CreateAt
		old.ExpireTime = e.ExpireTime
	} else {
		entry := *e
		c.cache[e.Key] = c.ll.PushFront(&entry)
		c.usedBytes += size
	}

	c.removeExpired()

	for c.maxBytes > 0 && c.usedBytes > c.maxBytes {
		c.removeOldest()
	}
}

// Remove 移除指定缓存
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, ok := c.cache[key]; ok {
		c.removeElement(ele)
	}
}

func (c *Cache) removeOldest() {
	if ele := c.ll.Back(); ele != nil {
		c.removeElement(ele)
	}
}

func (c *Cache) removeElement(ele *list.Element) {
	c.ll.Remove(ele)
	entry := ele.Value.(*Entry)
	delete(c.cache, entry.Key)
	c.usedBytes -= int64(len(entry.Key)) + int64(entry.Value.Len())

	if c.OnEvicted != nil {
		c.OnEvicted(entry.Key, entry.Value)
	}
}

// removeExpired 从尾部开始移除过期数据
func (c *Cache) removeExpired() {
	now := c.now().Unix()
	for ele := c.ll.Back(); ele != nil; {
		entry := ele.Value.(*Entry)
		if !entry.expired(now) {
			break
		}
		prev := ele.Prev()
		c.removeElement(ele)
		ele = prev
	}
}

// Len 返回缓存条目数量
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ll.Len()
}

// Bytes 已用字节数
func (c *Cache) Bytes() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.usedBytes
}

// GetAll 获取所有未过期条目的拷贝，从新到旧
func (c *Cache) GetAll() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now().Unix()
	entries := make([]*Entry, 0, c.ll.Len())
	for ele := c.ll.Front(); ele != nil; ele = ele.Next() {
		entry := ele.Value.(*Entry)
		if entry.expired(now) {
			continue
		}
		cp := *entry
		entries = append(entries, &cp)
	}
	return entries
}
