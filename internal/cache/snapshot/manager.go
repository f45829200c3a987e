package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"MarketForge/internal/cache/lru"
	"MarketForge/pkg/common"
	"MarketForge/pkg/json"

	"github.com/sirupsen/logrus"
)

// Manager 快照管理器，把LRU中的ByteView条目持久化为JSON文件
type Manager struct {
	cache        *lru.Cache
	snapshotPath string
	mu           sync.Mutex
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// entry 落盘格式
type entry struct {
	Key        string          `json:"key"`
	Value      common.ByteView `json:"value"`
	CreateAt   int64           `json:"create_at"`
	ExpireTime int64           `json:"expire_time"`
}

// NewManager 创建快照管理器
func NewManager(cache *lru.Cache, snapshotPath string) *Manager {
	return &Manager{
		cache:        cache,
		snapshotPath: snapshotPath,
		stopChan:     make(chan struct{}),
	}
}

// Save 保存快照，先写临时文件再重命名
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.snapshotPath), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	all := m.cache.GetAll()
	entries := make([]entry, 0, len(all))
	for _, e := range all {
		v, ok := e.Value.(common.ByteView)
		if !ok {
			continue
		}
		entries = append(entries, entry{Key: e.Key, Value: v, CreateAt: e.CreateAt, ExpireTime: e.ExpireTime})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot data: %w", err)
	}

	tmpFile := m.snapshotPath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tmpFile, m.snapshotPath); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	logrus.Infof("[Snapshot Manager] Saved snapshot successfully, entries count: %d", len(entries))
	return nil
}

// Load 加载快照，文件不存在时返回0且不报错
func (m *Manager) Load() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.snapshotPath)
	if os.IsNotExist(err) {
		logrus.Infof("[Snapshot Manager] No snapshot at %s, starting empty", m.snapshotPath)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to unmarshal snapshot data: %w", err)
	}

	now := time.Now().Unix()
	count := 0
	// 文件中从新到旧，倒序写回以保持LRU顺序
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.ExpireTime > 0 && now > e.CreateAt+e.ExpireTime {
			continue
		}
		m.cache.AddEntry(&lru.Entry{Key: e.Key, Value: e.Value, CreateAt: e.CreateAt, ExpireTime: e.ExpireTime})
		count++
	}

	logrus.Infof("[Snapshot Manager] Loaded snapshot successfully, entries count: %d", count)
	return count, nil
}

// AutoSnapshot 定时保存快照
func (m *Manager) AutoSnapshot(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := m.Save(); err != nil {
					logrus.Errorf("[Snapshot Manager] Auto save snapshot failed: %v", err)
				}
			case <-m.stopChan:
				logrus.Info("[Snapshot Manager] Auto snapshot stopped")
				return
			}
		}
	}()
}

// Stop 停止自动快照并最后保存一次
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.Save()
}

// Info 快照文件信息
func (m *Manager) Info() map[string]interface{} {
	info := make(map[string]interface{})

	if stat, err := os.Stat(m.snapshotPath); err == nil {
		info["path"] = m.snapshotPath
		info["size"] = stat.Size()
		info["modTime"] = stat.ModTime().Format("2006-01-02 15:04:05")
	} else {
		info["error"] = err.Error()
	}
	info["cacheEntries"] = m.cache.Len()

	return info
}
